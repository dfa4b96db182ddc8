package entity

import "time"

// Company representa una empresa prestadora de servicios (mudanzas/transporte)
// publicada en la plataforma.
//
// Los campos opcionales son punteros: nil significa "sin valor", nunca se
// persiste cadena vacía. ID y los campos de auditoría los asigna la base de
// datos; el cliente jamás los inventa.
type Company struct {
	ID           string
	Name         string
	Description  *string
	ContactEmail string
	ContactPhone string
	Website      *string
	Address      string
	ServiceArea  *string // zona de cobertura, texto libre (ver catálogo service_areas)
	FleetDetail  *string // descripción de la flota: vehículos y capacidad
	PricingTier  *string // nivel tarifario mostrado en el listado público
	DataCreator  string  // inmutable después de la creación
	DataUpdater  string  // siempre asignado por el servidor
	CreateTime   time.Time
	UpdateTime   time.Time
}
