package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/viewmodel"
	"github.com/ManuelReschke/LocalPros/views/partials"
)

const (
	layoutMain  = "layouts/main"
	layoutAdmin = "layouts/admin"
	perPage     = 20
)

// base carries what every controller needs to render a page.
type base struct {
	repos *repository.Repositories
}

func (b base) layout(c *fiber.Ctx, title string) viewmodel.Layout {
	uc := usercontext.GetUserContext(c)
	l := viewmodel.Layout{
		Page:          title,
		FromProtected: uc.IsLoggedIn,
		Username:      uc.Username,
		IsAdmin:       uc.IsAdmin,
		Msg:           flash.Get(c),
		CsrfToken:     csrfToken(c),
	}
	if b.repos == nil {
		return l
	}

	if b.repos.City != nil {
		cities, err := b.repos.City.GetAll()
		if err != nil {
			log.Warnf("[Layout] loading cities: %v", err)
		}
		resolved := citycontext.FromCtx(c)
		for i := range cities {
			ref := listing.CityRef(&cities[i])
			l.Cities = append(l.Cities, ref)
			if ref.Slug == resolved {
				current := ref
				l.City = &current
			}
		}
	}
	if b.repos.Page != nil {
		pages, err := b.repos.Page.GetFooter()
		if err != nil {
			log.Warnf("[Layout] loading footer pages: %v", err)
		}
		for _, p := range pages {
			l.FooterPages = append(l.FooterPages, viewmodel.PageLink{Title: p.Title, Slug: p.Slug})
		}
	}
	return l
}

// render executes view inside the main or admin layout.
func (b base) render(c *fiber.Ctx, status int, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	l := b.layout(c, title)
	if og, ok := data["OG"].(*viewmodel.OpenGraph); ok {
		l.OGViewModel = og
	}
	data["Layout"] = l

	layout := layoutMain
	if strings.HasPrefix(view, "admin/") {
		layout = layoutAdmin
	}
	return c.Status(status).Render(view, data, layout)
}

func (b base) notFound(c *fiber.Ctx, title, message string) error {
	return b.render(c, fiber.StatusNotFound, "errors/404", title, fiber.Map{"Message": message})
}

func csrfToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("csrf").(string); ok {
		return token
	}
	return ""
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// renderComponent writes a templ fragment as the response.
func renderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status)
	handler := adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))
	return handler(c)
}

// fail reports an admin error as a flash redirect, or as an alert fragment
// for HTMX requests.
func fail(c *fiber.Ctx, redirect, message string) error {
	if isHTMX(c) {
		c.Set("HX-Retarget", "#alerts")
		c.Set("HX-Reswap", "innerHTML")
		return renderComponent(c, fiber.StatusUnprocessableEntity, partials.Alert(partials.AlertError, message))
	}
	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}
	return flash.WithError(c, fm).Redirect(redirect)
}

func succeed(c *fiber.Ctx, redirect, message string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(redirect)
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formUint(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue(name)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func formInt(c *fiber.Ctx, name string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	if err != nil {
		return fallback
	}
	return v
}

func formChecked(c *fiber.Ctx, name string) bool {
	v := c.FormValue(name)
	return v == "on" || v == "true" || v == "1"
}

// formStrings reads a multi-valued form field, url-encoded or multipart.
func formStrings(c *fiber.Ctx, name string) []string {
	var values []string
	for _, v := range c.Request().PostArgs().PeekMulti(name) {
		values = append(values, string(v))
	}
	if len(values) > 0 {
		return values
	}
	if form, err := c.MultipartForm(); err == nil {
		values = append(values, form.Value[name]...)
	}
	return values
}

// formUints reads a multi-select of ids, skipping anything that is not one.
func formUints(c *fiber.Ctx, name string) []uint {
	var ids []uint
	for _, v := range formStrings(c, name) {
		if id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageCount(total int64) int {
	pages := int(total) / perPage
	if int(total)%perPage > 0 || pages == 0 {
		pages++
	}
	return pages
}

// GetClientIP returns the caller address, honouring Cloudflare and proxy headers.
func GetClientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return strings.TrimPrefix(c.IP(), "::ffff:")
}
