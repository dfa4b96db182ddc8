package entity

import "time"

// Customer representa un cliente final que contrata servicios en la plataforma.
// Email se normaliza a minúsculas antes de persistir y es único.
type Customer struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     *string
	Preferences *string // notas de servicio en texto libre (horarios, accesos, mascotas)
	DataCreator string  // inmutable después de la creación
	DataUpdater string  // siempre asignado por el servidor
	CreateTime  time.Time
	UpdateTime  time.Time
}

// FullName devuelve el nombre completo para listados y logs.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
