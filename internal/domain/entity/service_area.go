package entity

// ServiceArea es una entrada del catálogo de zonas de cobertura, sembrado desde
// el listado DANE de municipios por cmd/seed_areas. Solo lectura en runtime;
// la UI lo usa para sugerir valores de Company.ServiceArea.
type ServiceArea struct {
	Code       string // código DANE departamento+municipio
	Name       string
	Department string
}
