// Package cache implementa el caché de lecturas del lado del cliente: slots
// por clave estructurada con ventana de frescura, servido stale-while-revalidate,
// invalidación exacta o por comodín de tipo, y propagación opcional de
// invalidaciones entre instancias vía Redis Pub/Sub.
package cache

// Tipos de slot por entidad. Los lookups por clave alterna usan el nombre del
// campo (name, email, phone) como Kind.
const (
	KindAll  = "all"
	KindID   = "id"
	KindList = "list"
)

// Key identifica un slot de caché: entidad + tipo + discriminante.
// Evita el acoplamiento por strings: los casos de uso construyen claves con
// los constructores de abajo y nunca concatenan a mano.
type Key struct {
	Entity       string // "company", "customer", "service_area"
	Kind         string // KindAll, KindID, KindList o campo de lookup
	Discriminant string // vacío para "all"; id, valor buscado o filtro canónico
}

// String serializa la clave para el índice interno y los mensajes de propagación.
func (k Key) String() string {
	if k.Discriminant == "" {
		return k.Entity + ":" + k.Kind
	}
	return k.Entity + ":" + k.Kind + ":" + k.Discriminant
}

// AllKey clave del slot "todos los registros" de una entidad.
func AllKey(entity string) Key {
	return Key{Entity: entity, Kind: KindAll}
}

// IDKey clave del slot de un registro concreto.
func IDKey(entity, id string) Key {
	return Key{Entity: entity, Kind: KindID, Discriminant: id}
}

// ListKey clave de un listado; el discriminante es el filtro canónico
// (ver CacheKey() de los tipos de consulta del repositorio).
func ListKey(entity, discriminant string) Key {
	return Key{Entity: entity, Kind: KindList, Discriminant: discriminant}
}

// LookupKey clave de una búsqueda por campo alterno (name, email, phone).
func LookupKey(entity, field, value string) Key {
	return Key{Entity: entity, Kind: field, Discriminant: value}
}
