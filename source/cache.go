package source

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"drawAuditor/config"
	"drawAuditor/game"
	"drawAuditor/logger"
)

// Cache stores encoded verification responses by game id. Get returns
// found=false with a nil error on a miss.
type Cache interface {
	Get(ctx context.Context, gameID string) (data []byte, found bool, err error)
	Set(ctx context.Context, gameID string, data []byte, ttl time.Duration) error
}

// Cached wraps a DataSource with a Cache. Draw lists whose seeds are all
// revealed are kept for RevealedDrawsTTL, lists still awaiting reveals only
// for PendingDrawsTTL.
type Cached struct {
	next  DataSource
	cache Cache
	log   *zap.SugaredLogger
}

func NewCached(next DataSource, cache Cache, log *zap.SugaredLogger) *Cached {
	if log == nil {
		log = logger.Nop()
	}
	return &Cached{next: next, cache: cache, log: log}
}

func (c *Cached) FetchDraws(ctx context.Context, gameID string) ([]game.Draw, error) {
	data, found, err := c.cache.Get(ctx, gameID)
	if err != nil {
		c.log.Warnf("⚠️  Cache read failed for game %s: %v", gameID, err)
	} else if found {
		draws, err := DecodeResponse(data)
		if err == nil {
			return draws, nil
		}
		c.log.Warnf("⚠️  Discarding unreadable cache entry for game %s: %v", gameID, err)
	}

	draws, err := c.next.FetchDraws(ctx, gameID)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodeResponse(draws)
	if err != nil {
		c.log.Warnf("⚠️  Failed to encode draws for game %s: %v", gameID, err)
		return draws, nil
	}
	if err := c.cache.Set(ctx, gameID, encoded, TTLFor(draws)); err != nil {
		c.log.Warnf("⚠️  Cache write failed for game %s: %v", gameID, err)
	}
	return draws, nil
}

// TTLFor picks the cache lifetime for a draw list.
func TTLFor(draws []game.Draw) time.Duration {
	if len(draws) == 0 {
		return config.PendingDrawsTTL
	}
	for _, d := range draws {
		if !d.Revealed() {
			return config.PendingDrawsTTL
		}
	}
	return config.RevealedDrawsTTL
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{c: gocache.New(config.PendingDrawsTTL, config.MemoryCacheCleanup)}
}

func (m *MemoryCache) Get(_ context.Context, gameID string) ([]byte, bool, error) {
	v, ok := m.c.Get(gameID)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, gameID string, data []byte, ttl time.Duration) error {
	m.c.Set(gameID, data, ttl)
	return nil
}
