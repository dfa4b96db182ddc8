package dto

// ServiceAreaResponse municipio del catálogo DANE.
type ServiceAreaResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
}
