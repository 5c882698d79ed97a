package afip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Ticket credenciales devueltas por LoginCms.
type Ticket struct {
	Token     string    `json:"token"`
	Sign      string    `json:"sign"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid indica si el ticket sigue vigente con un margen de seguridad.
func (t *Ticket) Valid(now time.Time) bool {
	return t != nil && t.Token != "" && now.Add(ticketMargin).Before(t.ExpiresAt)
}

const ticketMargin = 2 * time.Minute

// TicketCache guarda el ticket de acceso entre reinicios y entre réplicas.
type TicketCache interface {
	Get(ctx context.Context, key string) (*Ticket, error)
	Set(ctx context.Context, key string, t *Ticket) error
}

// TicketKey clave de cache por CUIT y servicio.
func TicketKey(cuit, service string) string {
	return fmt.Sprintf("afip:wsaa:%s:%s", cuit, service)
}

// MemoryTicketCache cache en proceso; se usa cuando Redis no está configurado.
type MemoryTicketCache struct {
	mu sync.Mutex
	m  map[string]Ticket
}

// NewMemoryTicketCache crea una cache vacía.
func NewMemoryTicketCache() *MemoryTicketCache {
	return &MemoryTicketCache{m: make(map[string]Ticket)}
}

func (c *MemoryTicketCache) Get(_ context.Context, key string) (*Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.m[key]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (c *MemoryTicketCache) Set(_ context.Context, key string, t *Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = *t
	return nil
}

// RedisTicketCache guarda el ticket serializado en JSON con TTL hasta su vencimiento.
type RedisTicketCache struct {
	rdb *redis.Client
}

// NewRedisTicketCache crea la cache sobre un cliente ya conectado.
func NewRedisTicketCache(rdb *redis.Client) *RedisTicketCache {
	return &RedisTicketCache{rdb: rdb}
}

func (c *RedisTicketCache) Get(ctx context.Context, key string) (*Ticket, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var t Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decodificar ticket: %w", err)
	}
	return &t, nil
}

func (c *RedisTicketCache) Set(ctx context.Context, key string, t *Ticket) error {
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
