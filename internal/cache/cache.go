package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// Stats is an informational snapshot of the cache backend.
type Stats struct {
	Status           string `json:"status"`
	ConnectedClients int64  `json:"connected_clients"`
	UsedMemory       string `json:"used_memory_human"`
	TotalConnections int64  `json:"total_connections_received"`
	UptimeSeconds    int64  `json:"uptime_in_seconds"`
}

// ResultCache holds ephemeral fetch results and momentum summaries in Redis.
//
// Cache availability is optional: when the backend is unreachable at
// construction time the cache runs disabled — gets report absent, sets and
// invalidations are silent no-ops. No method returns an error because of
// cache unavailability; callers always proceed as if the value were simply
// not cached.
type ResultCache struct {
	client      *redis.Client
	fetchTTL    time.Duration
	momentumTTL time.Duration
}

// New connects to Redis and returns a ResultCache. A failed ping does not
// fail construction; it yields a disabled cache.
func New(host string, port, db int, fetchTTL, momentumTTL time.Duration) *ResultCache {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port),
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] redis not reachable, cache disabled: %v", err)
		client.Close()
		return &ResultCache{fetchTTL: fetchTTL, momentumTTL: momentumTTL}
	}

	log.Printf("[INFO] redis connected: %s:%d db=%d", host, port, db)
	return &ResultCache{client: client, fetchTTL: fetchTTL, momentumTTL: momentumTTL}
}

// NewDisabled returns a cache that is permanently in degraded mode.
func NewDisabled() *ResultCache {
	return &ResultCache{}
}

// Enabled reports whether a backend connection is held.
func (c *ResultCache) Enabled() bool { return c.client != nil }

func fetchKey(symbol string) string    { return "stock:" + symbol }
func momentumKey(symbol string) string { return "momentum:" + symbol }

// FetchResult returns the cached fetch result for a symbol, or nil on miss.
func (c *ResultCache) FetchResult(ctx context.Context, symbol string) *model.FetchResult {
	if c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, fetchKey(symbol)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] cache get %s: %v", fetchKey(symbol), err)
		}
		return nil
	}
	var fr model.FetchResult
	if err := json.Unmarshal(data, &fr); err != nil {
		log.Printf("[WARN] cache decode %s: %v", fetchKey(symbol), err)
		return nil
	}
	return &fr
}

// SetFetchResult caches a fetch result with the fetch TTL.
func (c *ResultCache) SetFetchResult(ctx context.Context, symbol string, fr *model.FetchResult) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(fr)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, fetchKey(symbol), data, c.fetchTTL).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", fetchKey(symbol), err)
	}
}

// Momentum returns the cached momentum summary for a symbol, or nil on miss.
func (c *ResultCache) Momentum(ctx context.Context, symbol string) *model.MomentumSummary {
	if c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, momentumKey(symbol)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] cache get %s: %v", momentumKey(symbol), err)
		}
		return nil
	}
	var ms model.MomentumSummary
	if err := json.Unmarshal(data, &ms); err != nil {
		log.Printf("[WARN] cache decode %s: %v", momentumKey(symbol), err)
		return nil
	}
	return &ms
}

// SetMomentum caches a momentum summary with the momentum TTL.
func (c *ResultCache) SetMomentum(ctx context.Context, symbol string, ms *model.MomentumSummary) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(ms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, momentumKey(symbol), data, c.momentumTTL).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", momentumKey(symbol), err)
	}
}

// Invalidate removes both cached artifacts for a symbol.
func (c *ResultCache) Invalidate(ctx context.Context, symbol string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, fetchKey(symbol), momentumKey(symbol)).Err(); err != nil {
		log.Printf("[WARN] cache invalidate %s: %v", symbol, err)
		return
	}
	log.Printf("[INFO] invalidated cache for %s", symbol)
}

// DropMomentum removes only the momentum artifact, keeping the fetch result.
// Used after a fresh fetch: the fetch result was just written and is valid,
// but the derived momentum must be recomputed from the new prices.
func (c *ResultCache) DropMomentum(ctx context.Context, symbol string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, momentumKey(symbol)).Err(); err != nil {
		log.Printf("[WARN] cache drop momentum %s: %v", symbol, err)
	}
}

// CacheStats reports backend statistics from Redis INFO, or a disabled
// status when running degraded.
func (c *ResultCache) CacheStats(ctx context.Context) Stats {
	if c.client == nil {
		return Stats{Status: "disabled"}
	}
	stats := Stats{Status: "connected"}

	if v, err := c.client.Info(ctx, "clients").Result(); err == nil {
		stats.ConnectedClients = parseInfoInt(v, "connected_clients")
	}
	if v, err := c.client.Info(ctx, "memory").Result(); err == nil {
		stats.UsedMemory = parseInfoStr(v, "used_memory_human")
	}
	if v, err := c.client.Info(ctx, "stats").Result(); err == nil {
		stats.TotalConnections = parseInfoInt(v, "total_connections_received")
	}
	if v, err := c.client.Info(ctx, "server").Result(); err == nil {
		stats.UptimeSeconds = parseInfoInt(v, "uptime_in_seconds")
	}
	return stats
}

func (c *ResultCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
