package repository

import "fmt"

// Sort indica campo lógico y dirección de un listado. Cada repositorio valida
// el campo contra su lista blanca de columnas ordenables.
type Sort struct {
	Field string
	Desc  bool
}

func (s Sort) String() string {
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return s.Field + " " + dir
}

// Page limita el tamaño de página. Limit <= 0 significa sin límite
// (el listado degenera en un getAll filtrado).
type Page struct {
	Limit  int
	Offset int
}

// CompanyQuery filtros de listado de empresas. Se pasan tal cual al accessor;
// los valores por defecto se aplican en el borde HTTP.
type CompanyQuery struct {
	ServiceArea string
	PricingTier string
	Search      string // texto libre sobre nombre y descripción
	Sort        Sort
	Page        Page
}

// CacheKey construye el discriminante determinista del slot de caché del
// listado. Valores entre comillas para que un filtro no colisione con otro.
func (q CompanyQuery) CacheKey() string {
	return fmt.Sprintf("area=%q|tier=%q|q=%q|sort=%s|limit=%d|offset=%d",
		q.ServiceArea, q.PricingTier, q.Search, q.Sort, q.Page.Limit, q.Page.Offset)
}

// CustomerQuery filtros de listado de clientes.
type CustomerQuery struct {
	Search string // texto libre sobre nombres y email
	Sort   Sort
	Page   Page
}

// CacheKey construye el discriminante determinista del slot de caché del listado.
func (q CustomerQuery) CacheKey() string {
	return fmt.Sprintf("q=%q|sort=%s|limit=%d|offset=%d",
		q.Search, q.Sort, q.Page.Limit, q.Page.Offset)
}
