// Package pagecache stores rendered public pages in Redis, keyed by the
// resolved city and the request URL.
package pagecache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
)

const (
	KeyPrefix = "page:"

	// FlashCookie is set by github.com/sujit-baniya/flash; pages rendered
	// with a pending flash message are never cached or served from cache.
	FlashCookie = "fiber-app-flash"

	HeaderStatus = "X-Page-Cache"

	invalidateTimeout = 10 * time.Second
)

// Store is the storage behind the cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) (int64, error)
}

type Cache struct {
	store Store
	ttl   time.Duration
	wg    sync.WaitGroup
}

// New returns a cache; a nil store or non-positive ttl disables it.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

func (pc *Cache) Enabled() bool {
	return pc != nil && pc.store != nil && pc.ttl > 0
}

// Key is the cache key of a page as seen from a city.
func Key(citySlug, originalURL string) string {
	if citySlug == "" {
		citySlug = "-"
	}
	return KeyPrefix + citySlug + ":" + originalURL
}

// Middleware serves cached HTML for anonymous GET requests and stores
// successful HTML responses. It must run after the city resolver.
func (pc *Cache) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !pc.Enabled() || c.Method() != fiber.MethodGet || usercontext.IsLoggedIn(c) || c.Cookies(FlashCookie) != "" {
			return c.Next()
		}

		key := Key(citycontext.FromCtx(c), c.OriginalURL())
		body, ok, err := pc.store.Get(c.Context(), key)
		if err != nil {
			log.Warnf("[PageCache] get %s: %v", key, err)
			return c.Next()
		}
		if ok {
			c.Set(HeaderStatus, "HIT")
			c.Type("html", "utf-8")
			return c.Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		if !strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMETextHTML) {
			return nil
		}
		if len(c.Response().Header.PeekCookie(FlashCookie)) > 0 {
			return nil
		}

		c.Set(HeaderStatus, "MISS")
		payload := append([]byte(nil), c.Response().Body()...)
		if err := pc.store.Set(c.Context(), key, payload, pc.ttl); err != nil {
			log.Warnf("[PageCache] set %s: %v", key, err)
		}
		return nil
	}
}

// Invalidate drops every cached page whose path starts with one of the
// given prefixes, in every city. It returns immediately; failures are
// logged.
func (pc *Cache) Invalidate(prefixes ...string) {
	if !pc.Enabled() || len(prefixes) == 0 {
		return
	}
	pc.wg.Add(1)
	go func() {
		defer pc.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		if _, err := pc.InvalidateNow(ctx, prefixes...); err != nil {
			log.Errorf("[PageCache] invalidate %v: %v", prefixes, err)
		}
	}()
}

// InvalidateNow is the synchronous form of Invalidate.
func (pc *Cache) InvalidateNow(ctx context.Context, prefixes ...string) (int64, error) {
	if !pc.Enabled() {
		return 0, nil
	}
	var total int64
	var errs []error
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		n, err := pc.store.DeleteMatching(ctx, KeyPrefix+"*:"+escapePattern(p)+"*")
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// Flush drops every cached page.
func (pc *Cache) Flush(ctx context.Context) (int64, error) {
	if !pc.Enabled() {
		return 0, nil
	}
	return pc.store.DeleteMatching(ctx, KeyPrefix+"*")
}

// Wait blocks until pending invalidations finished. Used on shutdown.
func (pc *Cache) Wait() {
	if pc != nil {
		pc.wg.Wait()
	}
}

func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	defaultMu    sync.RWMutex
	defaultCache *Cache
)

func SetDefault(pc *Cache) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCache = pc
}

// Default returns the process cache; it is disabled until SetDefault.
func Default() *Cache {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultCache == nil {
		return New(nil, 0)
	}
	return defaultCache
}

// RedisStore keeps pages in Redis.
type RedisStore struct {
	Client *redis.Client
}

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// DeleteMatching removes keys matching pattern using SCAN in batches.
func (s RedisStore) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	var cursor uint64
	var deleted int64
	for {
		keys, next, err := s.Client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := s.Client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
