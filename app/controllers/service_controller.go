package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
	"github.com/ManuelReschke/LocalPros/internal/pkg/viewmodel"
)

// ServiceController serves the public city and service pages.
type ServiceController struct {
	base
	composer *listing.Composer
}

func NewServiceController(repos *repository.Repositories, images imagehost.Resolver) *ServiceController {
	return &ServiceController{
		base: base{repos: repos},
		composer: &listing.Composer{
			Cities:      repos.City,
			Slots:       repos.Slot,
			Assignments: repos.Assignment,
			Images:      images,
		},
	}
}

// HandleHome shows the city picker with the resolved city preselected.
func (sc *ServiceController) HandleHome(c *fiber.Ctx) error {
	return sc.render(c, fiber.StatusOK, "public/home", "Local pros in your city", fiber.Map{
		"ResolvedPath": listing.GridPath(citycontext.FromCtx(c)),
	})
}

// HandleServicesRedirect sends /services and /services/<service> to the
// resolved city.
func (sc *ServiceController) HandleServicesRedirect(c *fiber.Ctx) error {
	target := listing.GridPath(citycontext.FromCtx(c))
	if service := models.NormalizeSlug(c.Params("service")); service != "" {
		target = listing.DetailPath(citycontext.FromCtx(c), service)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// canonicalCity redirects mixed-case city segments to their lowercase form.
func canonicalCity(c *fiber.Ctx) (string, bool) {
	raw := c.Params("city")
	slug := strings.ToLower(strings.TrimSpace(raw))
	return slug, raw == slug
}

func (sc *ServiceController) cityNotFound(c *fiber.Ctx, slug string) error {
	return sc.render(c, fiber.StatusNotFound, "public/city_not_found", "Coming soon", fiber.Map{
		"Slug": slug,
	})
}

// HandleCityServices renders the service grid of one city.
func (sc *ServiceController) HandleCityServices(c *fiber.Ctx) error {
	slug, canonical := canonicalCity(c)
	if !canonical {
		return c.Redirect(listing.GridPath(slug), fiber.StatusMovedPermanently)
	}

	city, err := sc.composer.City(slug)
	if err != nil {
		return err
	}
	if city == nil {
		return sc.cityNotFound(c, slug)
	}

	grid, err := sc.composer.Grid(city)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Local services in %s", city.Name)
	return sc.render(c, fiber.StatusOK, "public/city_services", title, fiber.Map{
		"Grid": grid,
		"OG":   openGraph(c, title, fmt.Sprintf("Trusted local professionals in %s.", city.Name), ""),
	})
}

// HandleServiceDetail renders the listing of one service in one city.
func (sc *ServiceController) HandleServiceDetail(c *fiber.Ctx) error {
	slug, canonical := canonicalCity(c)
	serviceSlug := models.NormalizeSlug(c.Params("service"))
	if !canonical || serviceSlug != c.Params("service") {
		return c.Redirect(listing.DetailPath(slug, serviceSlug), fiber.StatusMovedPermanently)
	}

	city, err := sc.composer.City(slug)
	if err != nil {
		return err
	}
	if city == nil {
		return sc.cityNotFound(c, slug)
	}

	detail, err := sc.composer.Detail(city, serviceSlug)
	if err != nil {
		return err
	}
	if detail == nil {
		log.Debugf("[Services] %s not offered in %s", serviceSlug, city.Slug)
		return sc.render(c, fiber.StatusNotFound, "public/service_not_offered", "Not offered here yet", fiber.Map{
			"City":        listing.CityRef(city),
			"ServiceSlug": serviceSlug,
		})
	}

	title := fmt.Sprintf("%s in %s", detail.ServiceName, city.Name)
	data := fiber.Map{
		"Detail":   detail,
		"ClaimURL": fmt.Sprintf("/contact?city=%s&service=%s", city.Slug, serviceSlug),
	}
	if detail.Listing != nil {
		data["OG"] = openGraph(c, title, detail.Listing.Summary, detail.Listing.HeroImageURL)
	} else {
		data["OG"] = openGraph(c, title, fmt.Sprintf("Become the featured %s expert in %s.", strings.ToLower(detail.ServiceName), city.Name), "")
	}
	return sc.render(c, fiber.StatusOK, "public/service_detail", title, data)
}

func openGraph(c *fiber.Ctx, title, description, image string) *viewmodel.OpenGraph {
	domain := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	return &viewmodel.OpenGraph{
		Title:       title,
		Description: description,
		URL:         domain + c.Path(),
		Image:       image,
	}
}
