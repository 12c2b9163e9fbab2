package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

// AdminPageController manages the static pages behind /page/<slug>.
type AdminPageController struct {
	base
}

func NewAdminPageController(repos *repository.Repositories) *AdminPageController {
	return &AdminPageController{base: base{repos: repos}}
}

func (pc *AdminPageController) HandleAdminPages(c *fiber.Ctx) error {
	pages, err := pc.repos.Page.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load pages: "+err.Error())
	}
	return pc.render(c, fiber.StatusOK, "admin/pages", "Pages", fiber.Map{"Pages": pages})
}

func (pc *AdminPageController) HandleAdminPageCreate(c *fiber.Ctx) error {
	return pc.render(c, fiber.StatusOK, "admin/page_form", "New page", fiber.Map{
		"Page":   &models.Page{IsActive: true, ShowInFooter: true},
		"IsEdit": false,
	})
}

func pageFromForm(c *fiber.Ctx, page *models.Page) {
	page.Title = strings.TrimSpace(c.FormValue("title"))
	page.Slug = models.NormalizeSlug(c.FormValue("slug"))
	if page.Slug == "" {
		page.Slug = models.NormalizeSlug(page.Title)
	}
	page.Content = c.FormValue("content")
	page.IsActive = formChecked(c, "is_active")
	page.ShowInFooter = formChecked(c, "show_in_footer")
	page.SortOrder = formInt(c, "sort_order", 0)
}

// invalidatePage drops the cached copies a page change affects. Footer
// links render on every page, so a change visible there flushes everything.
func invalidatePage(before, after *models.Page) {
	footer := func(p *models.Page) bool { return p != nil && p.IsActive && p.ShowInFooter }
	if footer(before) || footer(after) {
		pagecache.Default().Invalidate("/")
		return
	}
	var prefixes []string
	for _, p := range []*models.Page{before, after} {
		if p != nil {
			prefixes = append(prefixes, "/page/"+p.Slug)
		}
	}
	pagecache.Default().Invalidate(prefixes...)
}

func (pc *AdminPageController) HandleAdminPageStore(c *fiber.Ctx) error {
	page := &models.Page{}
	pageFromForm(c, page)
	if page.Validate() != nil {
		return fail(c, "/admin/pages/create", "Title, slug and content are required")
	}

	taken, err := pc.repos.Page.SlugTaken(page.Slug, 0)
	if err != nil {
		return fail(c, "/admin/pages/create", "Failed to check slug: "+err.Error())
	}
	if taken {
		return fail(c, "/admin/pages/create", "A page with this slug already exists")
	}

	if err := pc.repos.Page.Create(page); err != nil {
		return fail(c, "/admin/pages/create", "Failed to create page: "+err.Error())
	}
	invalidatePage(nil, page)
	return succeed(c, "/admin/pages", "Page created")
}

func (pc *AdminPageController) HandleAdminPageEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/pages")
	}
	page, err := pc.repos.Page.GetByID(id)
	if err != nil {
		return fail(c, "/admin/pages", "Page not found")
	}
	return pc.render(c, fiber.StatusOK, "admin/page_form", "Edit page", fiber.Map{
		"Page":   page,
		"IsEdit": true,
	})
}

func (pc *AdminPageController) HandleAdminPageUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/pages")
	}
	page, err := pc.repos.Page.GetByID(id)
	if err != nil {
		return fail(c, "/admin/pages", "Page not found")
	}

	back := fmt.Sprintf("/admin/pages/edit/%d", id)
	before := *page
	pageFromForm(c, page)
	if page.Validate() != nil {
		return fail(c, back, "Title, slug and content are required")
	}

	if page.Slug != before.Slug {
		taken, err := pc.repos.Page.SlugTaken(page.Slug, id)
		if err != nil {
			return fail(c, back, "Failed to check slug: "+err.Error())
		}
		if taken {
			return fail(c, back, "Another page already uses this slug")
		}
	}

	if err := pc.repos.Page.Update(page); err != nil {
		return fail(c, back, "Failed to update page: "+err.Error())
	}
	invalidatePage(&before, page)
	return succeed(c, "/admin/pages", "Page updated")
}

func (pc *AdminPageController) HandleAdminPageDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/pages")
	}
	page, err := pc.repos.Page.GetByID(id)
	if err != nil {
		return fail(c, "/admin/pages", "Page not found")
	}
	if err := pc.repos.Page.Delete(id); err != nil {
		return fail(c, "/admin/pages", "Failed to delete page: "+err.Error())
	}
	invalidatePage(page, nil)
	return succeed(c, "/admin/pages", "Page deleted")
}
