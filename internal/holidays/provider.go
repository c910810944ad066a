// Package holidays serves the holiday calendar with an optional Redis cache
// in front of the database.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"turnero/internal/events"
	"turnero/internal/model"
)

const cachePrefix = "turnero:holidays:"

// Source is the persistent holiday store behind the cache.
type Source interface {
	ListHolidays(ctx context.Context, from, to string) ([]model.Holiday, error)
}

// Provider answers holiday lookups, caching per date range. A nil Redis
// client degrades to direct database reads.
type Provider struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewProvider builds a provider. rdb may be nil to disable caching.
func NewProvider(source Source, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *Provider {
	return &Provider{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "holidays").Logger(),
	}
}

// Watch invalidates the cache whenever the holiday table changes.
func (p *Provider) Watch(bus *events.Bus) {
	bus.Subscribe(events.TypeHolidayChanged, func(events.Event) {
		p.Invalidate(context.Background())
	})
}

// DateSet returns the holiday dates within [from, to] as a lookup set.
func (p *Provider) DateSet(ctx context.Context, from, to string) (map[string]struct{}, error) {
	holidays, err := p.Range(ctx, from, to)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return set, nil
}

// Range returns the holidays within [from, to], cached when possible.
func (p *Provider) Range(ctx context.Context, from, to string) ([]model.Holiday, error) {
	key := fmt.Sprintf("%s%s:%s", cachePrefix, from, to)

	var cached []model.Holiday
	if p.readCache(ctx, key, &cached) {
		return cached, nil
	}

	holidays, err := p.source.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	p.writeCache(ctx, key, holidays)
	return holidays, nil
}

// Invalidate drops every cached range.
func (p *Provider) Invalidate(ctx context.Context) {
	if p.rdb == nil {
		return
	}
	iter := p.rdb.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := p.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			p.logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		p.logger.Warn().Err(err).Msg("cache scan failed")
	}
}

func (p *Provider) readCache(ctx context.Context, key string, out *[]model.Holiday) bool {
	if p.rdb == nil || p.ttl <= 0 {
		return false
	}
	val, err := p.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (p *Provider) writeCache(ctx context.Context, key string, holidays []model.Holiday) {
	if p.rdb == nil || p.ttl <= 0 {
		return
	}
	data, err := json.Marshal(holidays)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
