package dto

import "time"

// CreateCompanyRequest entrada para registrar una empresa transportadora.
// Los campos opcionales vacíos o en blanco se normalizan a NULL.
type CreateCompanyRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	ServiceArea  string `json:"service_area"`
	FleetDetail  string `json:"fleet_detail"`
	PricingTier  string `json:"pricing_tier"`
}

// UpdateCompanyRequest reemplazo completo del registro. El llamador arrastra
// data_creator y create_time de una lectura previa; el servidor los preserva.
type UpdateCompanyRequest struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Website      string    `json:"website"`
	Address      string    `json:"address"`
	ServiceArea  string    `json:"service_area"`
	FleetDetail  string    `json:"fleet_detail"`
	PricingTier  string    `json:"pricing_tier"`
	DataCreator  string    `json:"data_creator"`
	CreateTime   time.Time `json:"create_time"`
}

// UpdateServiceAreaRequest cambia solo la zona de cobertura.
type UpdateServiceAreaRequest struct {
	ServiceArea string `json:"service_area"`
}

// UpdateFleetDetailRequest cambia solo la descripción de la flota.
type UpdateFleetDetailRequest struct {
	FleetDetail string `json:"fleet_detail"`
}

// UpdatePricingTierRequest cambia solo el nivel de tarifa.
type UpdatePricingTierRequest struct {
	PricingTier string `json:"pricing_tier"`
}

// ListCompaniesRequest filtros, orden y página del listado.
type ListCompaniesRequest struct {
	ServiceArea string `query:"service_area"`
	PricingTier string `query:"pricing_tier"`
	Q           string `query:"q"`
	Sort        string `query:"sort"`
	Desc        bool   `query:"desc"`
	PageRequest
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Website      *string   `json:"website"`
	Address      string    `json:"address"`
	ServiceArea  *string   `json:"service_area"`
	FleetDetail  *string   `json:"fleet_detail"`
	PricingTier  *string   `json:"pricing_tier"`
	DataCreator  string    `json:"data_creator"`
	DataUpdater  string    `json:"data_updater"`
	CreateTime   time.Time `json:"create_time"`
	UpdateTime   time.Time `json:"update_time"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
