package cache

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/servigo/platform-api/pkg/logger"
)

const (
	// DefaultTTL ventana de frescura por defecto de cada slot.
	DefaultTTL = 5 * time.Minute

	cleanupInterval = 30 * time.Second
	refreshTimeout  = 10 * time.Second

	// Las entradas que nadie relee se eliminan al superar hardEvictFactor veces
	// el TTL; hasta entonces pueden servirse obsoletas mientras se refrescan.
	hardEvictFactor = 4
)

// entry es inmutable una vez almacenada; invalidar reemplaza la entrada por
// una copia marcada como obsoleta.
type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

func (e *entry) fresh(ttl time.Duration) bool {
	return !e.stale && time.Since(e.fetchedAt) < ttl
}

func (e *entry) hardExpired(ttl time.Duration) bool {
	return time.Since(e.fetchedAt) > hardEvictFactor*ttl
}

// Store es el caché de lecturas del proceso: slots con ventana de frescura,
// invalidación exacta o por comodín y contadores de aciertos/fallos.
type Store struct {
	ttl     time.Duration
	entries sync.Map // map[string]*entry
	group   singleflight.Group
	log     *logger.Logger
	prop    *Propagator
	origin  string // identifica esta instancia en los mensajes de propagación

	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configura el Store.
type Option func(*Store)

// WithLogger fija el logger del caché.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithPropagator conecta la propagación de invalidaciones entre instancias.
// El Store toma posesión del propagador: Close() también lo cierra.
func WithPropagator(p *Propagator) Option {
	return func(s *Store) { s.prop = p }
}

// NewStore crea el caché con la ventana de frescura dada (DefaultTTL si
// ttl <= 0) y arranca el janitor de limpieza. Con propagador, arranca también
// la suscripción a invalidaciones remotas.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:    ttl,
		log:    logger.Nop(),
		origin: uuid.New().String(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.janitor()
	if s.prop != nil {
		go s.prop.run(s)
	}
	return s
}

// get devuelve (valor, fresco, existe) descartando entradas con expiración dura.
func (s *Store) get(k Key) (any, bool, bool) {
	v, ok := s.entries.Load(k.String())
	if !ok {
		s.misses.Add(1)
		return nil, false, false
	}
	e := v.(*entry)
	if e.hardExpired(s.ttl) {
		s.entries.Delete(k.String())
		s.misses.Add(1)
		return nil, false, false
	}
	s.hits.Add(1)
	return e.value, e.fresh(s.ttl), true
}

// set guarda un valor. Los resultados ausentes (nil o puntero nil) no se cachean.
func (s *Store) set(k Key, v any) {
	if isNilValue(v) {
		return
	}
	s.entries.Store(k.String(), &entry{value: v, fetchedAt: time.Now()})
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

// Invalidate marca el slot como obsoleto: la próxima lectura lo sirve mientras
// dispara el refresco en segundo plano. Nunca falla; la propagación es best-effort.
func (s *Store) Invalidate(k Key) {
	s.markStale(k.String())
	s.publish(Message{Op: OpInvalidate, Entity: k.Entity, Kind: k.Kind, Discriminant: k.Discriminant})
}

// InvalidateKind marca como obsoletos todos los slots de un tipo de una entidad
// (comodín; se usa con KindList tras cada mutación porque los listados se
// discriminan por filtro).
func (s *Store) InvalidateKind(entity, kind string) {
	s.markStaleKind(entity, kind)
	s.publish(Message{Op: OpInvalidateKind, Entity: entity, Kind: kind})
}

// Evict elimina el slot por completo; la próxima lectura va al origen.
func (s *Store) Evict(k Key) {
	s.entries.Delete(k.String())
	s.publish(Message{Op: OpEvict, Entity: k.Entity, Kind: k.Kind, Discriminant: k.Discriminant})
}

func (s *Store) markStale(key string) {
	if v, ok := s.entries.Load(key); ok {
		e := v.(*entry)
		s.entries.Store(key, &entry{value: e.value, fetchedAt: e.fetchedAt, stale: true})
	}
}

func (s *Store) markStaleKind(entity, kind string) {
	prefix := entity + ":" + kind
	s.entries.Range(func(k, v any) bool {
		ks := k.(string)
		if ks == prefix || strings.HasPrefix(ks, prefix+":") {
			e := v.(*entry)
			s.entries.Store(ks, &entry{value: e.value, fetchedAt: e.fetchedAt, stale: true})
		}
		return true
	})
}

func (s *Store) publish(msg Message) {
	if s.prop == nil {
		return
	}
	msg.Origin = s.origin
	go s.prop.publish(msg)
}

// applyRemote aplica una invalidación recibida por el canal de propagación:
// solo local, sin republicar, y descartando los mensajes de esta instancia.
func (s *Store) applyRemote(msg Message) {
	if msg.Origin == s.origin {
		return
	}
	k := Key{Entity: msg.Entity, Kind: msg.Kind, Discriminant: msg.Discriminant}
	switch msg.Op {
	case OpInvalidate:
		s.markStale(k.String())
	case OpInvalidateKind:
		s.markStaleKind(msg.Entity, msg.Kind)
	case OpEvict:
		s.entries.Delete(k.String())
	default:
		s.log.Warn().Str("op", msg.Op).Msg("mensaje de invalidación con operación desconocida")
	}
}

// refreshAsync refresca el slot en segundo plano. singleflight deduplica
// refrescos y fallos concurrentes de la misma clave.
func (s *Store) refreshAsync(k Key, fetch func(context.Context) (any, error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("key", k.String()).Msg("pánico refrescando slot de caché")
			}
		}()
		_, _, _ = s.group.Do(k.String(), func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			v, err := fetch(ctx)
			if err != nil {
				s.log.Warn().Err(err).Str("key", k.String()).Msg("refresco de caché falló; se conserva el valor obsoleto")
				return nil, err
			}
			s.set(k, v)
			return v, nil
		})
	}()
}

func (s *Store) janitor() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *Store) cleanup() {
	removed := 0
	s.entries.Range(func(k, v any) bool {
		if v.(*entry).hardExpired(s.ttl) {
			s.entries.Delete(k)
			removed++
		}
		return true
	})
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("limpieza de slots con expiración dura")
	}
}

// Close detiene el janitor y cierra el propagador si lo hay.
func (s *Store) Close() error {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
		if s.prop != nil {
			return s.prop.Close()
		}
	}
	return nil
}

// Stats devuelve los contadores de aciertos y fallos.
func (s *Store) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Len cuenta los slots almacenados.
func (s *Store) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
