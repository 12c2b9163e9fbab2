package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

// AdminCatalogController manages the city directory and the service catalog.
type AdminCatalogController struct {
	base
}

func NewAdminCatalogController(repos *repository.Repositories) *AdminCatalogController {
	return &AdminCatalogController{base: base{repos: repos}}
}

// ============================================================================
// Cities
// ============================================================================

func (ac *AdminCatalogController) HandleCities(c *fiber.Ctx) error {
	cities, err := ac.repos.City.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load cities: "+err.Error())
	}
	return ac.render(c, fiber.StatusOK, "admin/cities", "Cities", fiber.Map{"Cities": cities})
}

func (ac *AdminCatalogController) HandleCityCreate(c *fiber.Ctx) error {
	return ac.render(c, fiber.StatusOK, "admin/city_form", "New city", fiber.Map{
		"City":   models.City{},
		"IsEdit": false,
	})
}

func cityFromForm(c *fiber.Ctx, city *models.City) {
	city.Name = strings.TrimSpace(c.FormValue("name"))
	city.Slug = models.NormalizeSlug(c.FormValue("slug"))
	if city.Slug == "" {
		city.Slug = models.NormalizeSlug(city.Name)
	}
	city.RegionCode = strings.ToUpper(strings.TrimSpace(c.FormValue("region_code")))
	city.Country = strings.TrimSpace(c.FormValue("country"))
}

func (ac *AdminCatalogController) HandleCityStore(c *fiber.Ctx) error {
	city := &models.City{}
	cityFromForm(c, city)
	if err := city.Validate(); err != nil {
		return fail(c, "/admin/cities/create", "Name and slug are required (2-150 characters)")
	}

	exists, err := ac.repos.City.SlugTaken(city.Slug, 0)
	if err != nil {
		return fail(c, "/admin/cities/create", "Failed to check slug: "+err.Error())
	}
	if exists {
		return fail(c, "/admin/cities/create", "A city with this slug already exists")
	}

	if err := ac.repos.City.Create(city); err != nil {
		return fail(c, "/admin/cities/create", "Failed to create city: "+err.Error())
	}
	pagecache.Default().Invalidate("/")
	return succeed(c, "/admin/cities", "City created")
}

func (ac *AdminCatalogController) HandleCityEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/cities")
	}
	city, err := ac.repos.City.GetByID(id)
	if err != nil {
		return fail(c, "/admin/cities", "City not found")
	}
	return ac.render(c, fiber.StatusOK, "admin/city_form", "Edit city", fiber.Map{
		"City":   city,
		"IsEdit": true,
	})
}

func (ac *AdminCatalogController) HandleCityUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/cities")
	}
	city, err := ac.repos.City.GetByID(id)
	if err != nil {
		return fail(c, "/admin/cities", "City not found")
	}

	back := fmt.Sprintf("/admin/cities/edit/%d", id)
	oldSlug := city.Slug
	cityFromForm(c, city)
	if err := city.Validate(); err != nil {
		return fail(c, back, "Name and slug are required (2-150 characters)")
	}

	if city.Slug != oldSlug {
		exists, err := ac.repos.City.SlugTaken(city.Slug, id)
		if err != nil {
			return fail(c, back, "Failed to check slug: "+err.Error())
		}
		if exists {
			return fail(c, back, "A city with this slug already exists")
		}
	}

	if err := ac.repos.City.Update(city); err != nil {
		return fail(c, back, "Failed to update city: "+err.Error())
	}
	pagecache.Default().Invalidate("/")
	return succeed(c, "/admin/cities", "City updated")
}

// HandleCityDelete removes the city with its slots and their assignments.
func (ac *AdminCatalogController) HandleCityDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/cities")
	}
	city, err := ac.repos.City.GetByID(id)
	if err != nil {
		return fail(c, "/admin/cities", "City not found")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if err := ac.repos.City.Delete(ctx, id); err != nil {
		return fail(c, "/admin/cities", "Failed to delete city: "+err.Error())
	}

	log.Infof("[Admin] city %q deleted with its slots", city.Slug)
	pagecache.Default().Invalidate("/")
	return succeed(c, "/admin/cities", "City deleted")
}

// ============================================================================
// Services
// ============================================================================

func (ac *AdminCatalogController) HandleServices(c *fiber.Ctx) error {
	services, err := ac.repos.Service.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load services: "+err.Error())
	}
	return ac.render(c, fiber.StatusOK, "admin/services", "Services", fiber.Map{"Services": services})
}

func (ac *AdminCatalogController) HandleServiceCreate(c *fiber.Ctx) error {
	return ac.render(c, fiber.StatusOK, "admin/service_form", "New service", fiber.Map{
		"Service": models.Service{},
		"IsEdit":  false,
	})
}

func serviceFromForm(c *fiber.Ctx, service *models.Service) {
	service.Name = strings.TrimSpace(c.FormValue("name"))
	service.Slug = models.NormalizeSlug(c.FormValue("slug"))
	if service.Slug == "" {
		service.Slug = models.NormalizeSlug(service.Name)
	}
	service.Order = formInt(c, "order", 0)
	service.Description = htmlsanitize.Sanitize(c.FormValue("description"))
}

func (ac *AdminCatalogController) HandleServiceStore(c *fiber.Ctx) error {
	service := &models.Service{}
	serviceFromForm(c, service)
	if err := service.Validate(); err != nil {
		return fail(c, "/admin/services/create", "Name and slug are required (2-150 characters)")
	}

	exists, err := ac.repos.Service.SlugTaken(service.Slug, 0)
	if err != nil {
		return fail(c, "/admin/services/create", "Failed to check slug: "+err.Error())
	}
	if exists {
		return fail(c, "/admin/services/create", "A service with this slug already exists")
	}

	if err := ac.repos.Service.Create(service); err != nil {
		return fail(c, "/admin/services/create", "Failed to create service: "+err.Error())
	}
	return succeed(c, "/admin/services", "Service created")
}

func (ac *AdminCatalogController) HandleServiceEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/services")
	}
	service, err := ac.repos.Service.GetByID(id)
	if err != nil {
		return fail(c, "/admin/services", "Service not found")
	}
	return ac.render(c, fiber.StatusOK, "admin/service_form", "Edit service", fiber.Map{
		"Service": service,
		"IsEdit":  true,
	})
}

func (ac *AdminCatalogController) HandleServiceUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/services")
	}
	service, err := ac.repos.Service.GetByID(id)
	if err != nil {
		return fail(c, "/admin/services", "Service not found")
	}

	back := fmt.Sprintf("/admin/services/edit/%d", id)
	oldSlug := service.Slug
	serviceFromForm(c, service)
	if err := service.Validate(); err != nil {
		return fail(c, back, "Name and slug are required (2-150 characters)")
	}
	if service.Slug != oldSlug {
		exists, err := ac.repos.Service.SlugTaken(service.Slug, id)
		if err != nil {
			return fail(c, back, "Failed to check slug: "+err.Error())
		}
		if exists {
			return fail(c, back, "A service with this slug already exists")
		}
	}

	if err := ac.repos.Service.Update(service); err != nil {
		return fail(c, back, "Failed to update service: "+err.Error())
	}
	pagecache.Default().Invalidate("/")
	return succeed(c, "/admin/services", "Service updated")
}

func (ac *AdminCatalogController) HandleServiceDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/services")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if err := ac.repos.Service.Delete(ctx, id); err != nil {
		return fail(c, "/admin/services", "Failed to delete service: "+err.Error())
	}
	pagecache.Default().Invalidate("/")
	return succeed(c, "/admin/services", "Service deleted")
}
