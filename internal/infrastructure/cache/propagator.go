package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/servigo/platform-api/pkg/config"
	"github.com/servigo/platform-api/pkg/logger"
)

// Operaciones que viajan en un Message.
const (
	OpInvalidate     = "invalidate"
	OpInvalidateKind = "invalidate_kind"
	OpEvict          = "evict"
)

// Message es la notificación de invalidación publicada en Redis. Origin
// identifica la instancia emisora, que ignora sus propios mensajes.
type Message struct {
	Origin       string `json:"origin"`
	Op           string `json:"op"`
	Entity       string `json:"entity"`
	Kind         string `json:"kind"`
	Discriminant string `json:"discriminant,omitempty"`
}

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 3 * time.Second
	closeTimeout   = 5 * time.Second
)

// Propagator publica y recibe mensajes de invalidación por un canal Pub/Sub.
// Es dueño de su cliente Redis; el Store que lo adopta lo cierra en Close().
type Propagator struct {
	client  *redis.Client
	channel string
	log     *logger.Logger

	mu       sync.Mutex
	cancelFn context.CancelFunc
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewPropagator conecta con Redis y verifica la conexión antes de devolver.
func NewPropagator(cfg config.RedisConfig, log *logger.Logger) (*Propagator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: conexión a redis: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}
	return &Propagator{
		client:  client,
		channel: cfg.Channel,
		log:     log,
		doneCh:  make(chan struct{}),
	}, nil
}

// publish serializa y publica el mensaje. Los errores se registran y se
// descartan: la invalidación local ya ocurrió.
func (p *Propagator) publish(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("pánico publicando invalidación")
		}
	}()

	data, err := json.Marshal(msg)
	if err != nil {
		p.log.Error().Err(err).Msg("no se pudo serializar el mensaje de invalidación")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", p.channel).Msg("no se pudo publicar la invalidación")
	}
}

// run se suscribe al canal y aplica al store local los mensajes de otras
// instancias. Corre en su propia goroutine hasta que se cierre el propagador.
func (p *Propagator) run(s *Store) {
	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.cancelFn = cancel
	p.mu.Unlock()

	pubsub := p.client.Subscribe(ctx, p.channel)
	defer pubsub.Close()
	defer p.markDone()

	if _, err := pubsub.Receive(ctx); err != nil {
		p.log.Error().Err(err).Str("channel", p.channel).Msg("no se pudo suscribir al canal de invalidaciones")
		return
	}
	p.log.Info().Str("channel", p.channel).Msg("suscrito al canal de invalidaciones")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				p.log.Warn().Msg("canal de invalidaciones cerrado")
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				p.log.Error().Err(err).Str("payload", m.Payload).Msg("mensaje de invalidación ilegible")
				continue
			}
			s.applyRemote(msg)
		}
	}
}

func (p *Propagator) markDone() {
	p.doneOnce.Do(func() { close(p.doneCh) })
}

// Close detiene la suscripción y cierra el cliente Redis.
func (p *Propagator) Close() error {
	p.mu.Lock()
	cancelFn := p.cancelFn
	p.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-p.doneCh:
		case <-time.After(closeTimeout):
			p.log.Warn().Msg("timeout esperando el cierre de la suscripción")
		}
	}
	return p.client.Close()
}
