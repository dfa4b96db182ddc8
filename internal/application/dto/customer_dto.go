package dto

import "time"

// CreateCustomerRequest entrada para registrar un cliente. El email se guarda
// en minúsculas y debe ser único.
type CreateCustomerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Preferences string `json:"preferences"`
}

// UpdateCustomerRequest reemplazo completo del registro. El llamador arrastra
// data_creator y create_time de una lectura previa; el servidor los preserva.
type UpdateCustomerRequest struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Preferences string    `json:"preferences"`
	DataCreator string    `json:"data_creator"`
	CreateTime  time.Time `json:"create_time"`
}

// UpdateCustomerProfileRequest actualización parcial del perfil. Los punteros
// en nil conservan el valor actual; los presentes lo reemplazan.
type UpdateCustomerProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

// UpdatePreferencesRequest reemplaza solo las preferencias del cliente.
type UpdatePreferencesRequest struct {
	Preferences string `json:"preferences"`
}

// ListCustomersRequest filtro de búsqueda, orden y página del listado.
type ListCustomersRequest struct {
	Q    string `query:"q"`
	Sort string `query:"sort"`
	Desc bool   `query:"desc"`
	PageRequest
}

// AuthenticateCustomerRequest identifica a un cliente por email.
type AuthenticateCustomerRequest struct {
	Email string `json:"email"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     *string   `json:"address"`
	Preferences *string   `json:"preferences"`
	DataCreator string    `json:"data_creator"`
	DataUpdater string    `json:"data_updater"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
