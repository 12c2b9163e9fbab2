package pagecache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) DeleteMatching(_ context.Context, pattern string) (int64, error) {
	re := regexp.MustCompile(globToRegexp(pattern))
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		if re.MatchString(k) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

// globToRegexp converts the Redis MATCH syntax used by the cache.
func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			b.WriteString(".*")
		case r == '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

func newApp(pc *Cache, calls *int) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(citycontext.LocalsKey, "calgary")
		if c.Get("X-Test-Admin") != "" {
			usercontext.Set(c, usercontext.UserContext{IsLoggedIn: true, IsAdmin: true})
		}
		return c.Next()
	})
	app.Use(pc.Middleware())
	app.Get("/calgary/services/plumbing", func(c *fiber.Ctx) error {
		*calls++
		c.Type("html", "utf-8")
		return c.SendString("<h1>Plumbing</h1>")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusNotFound).SendString("nope")
	})
	return app
}

func get(t *testing.T, app *fiber.App, target string, header ...string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMiddlewareCachesHTML(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	app := newApp(New(store, time.Minute), &calls)

	resp, body := get(t, app, "/calgary/services/plumbing")
	assert.Equal(t, "MISS", resp.Header.Get(HeaderStatus))
	assert.Equal(t, "<h1>Plumbing</h1>", body)

	resp, body = get(t, app, "/calgary/services/plumbing")
	assert.Equal(t, "HIT", resp.Header.Get(HeaderStatus))
	assert.Equal(t, "<h1>Plumbing</h1>", body)
	assert.Equal(t, 1, calls)

	_, ok, _ := store.Get(context.Background(), Key("calgary", "/calgary/services/plumbing"))
	assert.True(t, ok)
}

func TestMiddlewareSkipsErrorsAndAdmins(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	app := newApp(New(store, time.Minute), &calls)

	get(t, app, "/missing")
	get(t, app, "/missing")
	assert.Equal(t, 2, calls)

	get(t, app, "/calgary/services/plumbing", "X-Test-Admin", "1")
	get(t, app, "/calgary/services/plumbing", "X-Test-Admin", "1")
	assert.Equal(t, 4, calls)
	assert.Empty(t, store.data)
}

func TestDisabledCachePassesThrough(t *testing.T) {
	calls := 0
	app := newApp(New(nil, time.Minute), &calls)
	get(t, app, "/calgary/services/plumbing")
	get(t, app, "/calgary/services/plumbing")
	assert.Equal(t, 2, calls)
}

func TestInvalidateNowByPrefix(t *testing.T) {
	store := newMemoryStore()
	pc := New(store, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Key("calgary", "/calgary/services"), []byte("grid"), 0))
	require.NoError(t, store.Set(ctx, Key("calgary", "/calgary/services/plumbing"), []byte("detail"), 0))
	require.NoError(t, store.Set(ctx, Key("edmonton", "/edmonton/services"), []byte("other"), 0))

	n, err := pc.InvalidateNow(ctx, "/calgary/services")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, store.data, 1)
}

func TestInvalidateIsAsync(t *testing.T) {
	store := newMemoryStore()
	pc := New(store, time.Minute)
	require.NoError(t, store.Set(context.Background(), Key("calgary", "/blog"), []byte("x"), 0))

	pc.Invalidate("/blog")
	pc.Wait()
	assert.Empty(t, store.data)
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, `/a\*b\?\[c\]`, escapePattern("/a*b?[c]"))
}

func TestDefaultIsDisabled(t *testing.T) {
	SetDefault(nil)
	assert.False(t, Default().Enabled())
	Default().Invalidate("/x")
}
