package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"medlink-portal/internal/session"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Store is the storage behind the query cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key joins a resource name and its parameters into a cache key. Every part
// is escaped and terminated, so Key("slots") is a prefix of every
// Key("slots", ...) and of nothing else.
func Key(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(url.QueryEscape(p))
		b.WriteByte(':')
	}
	return b.String()
}

// Query caches backend reads by key. Concurrent misses for one key share a
// single fetch, but only between callers holding the same bearer token.
// Storage failures are logged and the fetch proceeds, so a broken cache
// degrades to direct backend calls.
type Query struct {
	store Store
	group singleflight.Group
	log   *logrus.Logger

	// gen counts invalidations. A fetch that started before an invalidation
	// must not write its result back.
	mu  sync.RWMutex
	gen uint64
}

func NewQuery(store Store, log *logrus.Logger) *Query {
	return &Query{store: store, log: log}
}

// Invalidate drops every entry under each of the given key prefixes.
func (q *Query) Invalidate(ctx context.Context, prefixes ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.gen++
	for _, prefix := range prefixes {
		if err := q.store.DeletePrefix(ctx, prefix); err != nil {
			q.log.WithField("prefix", prefix).Warnf("Failed to invalidate cache: %+v", err)
		}
	}
}

func (q *Query) generation() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.gen
}

// storeIfCurrent writes raw under key unless an invalidation ran since gen.
func (q *Query) storeIfCurrent(ctx context.Context, gen uint64, key string, raw []byte, ttl time.Duration) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.gen != gen {
		q.log.WithField("key", key).Debug("Skipping cache write after invalidation")
		return
	}
	if err := q.store.Set(ctx, key, raw, ttl); err != nil {
		q.log.WithField("key", key).Warnf("Failed to write cache: %+v", err)
	}
}

// flightKey scopes a shared fetch to the caller's token and to the current
// invalidation generation.
func flightKey(ctx context.Context, key string, gen uint64) string {
	sum := sha256.Sum256([]byte(session.TokenFromContext(ctx)))
	return key + "|" + hex.EncodeToString(sum[:8]) + "|" + strconv.FormatUint(gen, 10)
}

// Fetch returns the cached value under key, or calls fetch, stores the result
// for ttl and returns it. Errors are never cached. The shared fetch outlives
// a cancelled caller; each caller stops waiting when its own ctx is done.
func Fetch[T any](ctx context.Context, q *Query, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := q.store.Get(ctx, key); err != nil {
		q.log.WithField("key", key).Warnf("Failed to read cache: %+v", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		q.log.WithField("key", key).Warn("Discarding undecodable cache entry")
	}

	gen := q.generation()
	detached := context.WithoutCancel(ctx)
	ch := q.group.DoChan(flightKey(ctx, key, gen), func() (interface{}, error) {
		result, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(result); err != nil {
			q.log.WithField("key", key).Warnf("Failed to encode cache entry: %+v", err)
		} else {
			q.storeIfCurrent(detached, gen, key, raw, ttl)
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		result, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: unexpected value type %T for %s", res.Val, key)
		}
		return result, nil
	}
}
