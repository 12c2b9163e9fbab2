package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

const maxCacheRows = 200

// ============================================================================
// ADMIN CACHE CONTROLLER - rendered page cache monitor
// ============================================================================

type AdminCacheController struct {
	base
	cacheRepo repository.CacheRepository
}

func NewAdminCacheController(repos *repository.Repositories) *AdminCacheController {
	return &AdminCacheController{base: base{repos: repos}, cacheRepo: repos.Cache}
}

// CacheEntry is one cached page.
type CacheEntry struct {
	Key  string
	City string
	Path string
	TTL  time.Duration
}

func splitCacheKey(key string) (city, path string) {
	rest := strings.TrimPrefix(key, pagecache.KeyPrefix)
	city, path, _ = strings.Cut(rest, ":")
	return city, path
}

// HandleAdminCache lists cached pages, optionally filtered by path prefix.
func (acc *AdminCacheController) HandleAdminCache(c *fiber.Ctx) error {
	prefix := strings.TrimSpace(c.Query("prefix"))
	pattern := pagecache.KeyPrefix + "*"
	if prefix != "" {
		pattern = pagecache.KeyPrefix + "*:" + prefix + "*"
	}

	keys, err := acc.cacheRepo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		return fail(c, "/admin", "Failed to read the page cache: "+err.Error())
	}

	total := len(keys)
	if len(keys) > maxCacheRows {
		keys = keys[:maxCacheRows]
	}
	entries := make([]CacheEntry, 0, len(keys))
	for _, key := range keys {
		ttl, err := acc.cacheRepo.GetTTL(key)
		if err != nil {
			continue
		}
		city, path := splitCacheKey(key)
		entries = append(entries, CacheEntry{Key: key, City: city, Path: path, TTL: ttl.Round(time.Second)})
	}

	return acc.render(c, fiber.StatusOK, "admin/cache", "Page cache", fiber.Map{
		"Entries": entries,
		"Total":   total,
		"Prefix":  prefix,
		"Enabled": pagecache.Default().Enabled(),
	})
}

// HandleAdminCacheDelete drops one cached page. HTMX swaps the row away.
func (acc *AdminCacheController) HandleAdminCacheDelete(c *fiber.Ctx) error {
	key := c.FormValue("key")
	if !strings.HasPrefix(key, pagecache.KeyPrefix) {
		return c.Status(fiber.StatusBadRequest).SendString("key is required")
	}
	deleted, err := acc.cacheRepo.DeleteKeys([]string{key})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("delete failed: %v", err))
	}
	if !isHTMX(c) {
		return succeed(c, "/admin/cache", fmt.Sprintf("%d cached page(s) removed", deleted))
	}
	return c.SendString("")
}

// HandleAdminCacheFlush drops every cached page.
func (acc *AdminCacheController) HandleAdminCacheFlush(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	n, err := pagecache.Default().Flush(ctx)
	if err != nil {
		return fail(c, "/admin/cache", "Failed to flush the page cache: "+err.Error())
	}
	return succeed(c, "/admin/cache", fmt.Sprintf("%d cached page(s) removed", n))
}
