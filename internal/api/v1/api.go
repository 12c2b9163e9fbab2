package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong is the ping response.
type Pong struct {
	Ping string `json:"ping"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type City struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	RegionCode string `json:"region_code"`
}

type ServiceCard struct {
	ServiceName string `json:"service_name"`
	ServiceSlug string `json:"service_slug"`
	Href        string `json:"href"`
	CompanyName string `json:"company_name,omitempty"`
	HasProvider bool   `json:"has_provider"`
	IsFeatured  bool   `json:"is_featured"`
}

type CityServices struct {
	City     City          `json:"city"`
	Services []ServiceCard `json:"services"`
}

type GalleryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Listing struct {
	CompanyID       uint           `json:"company_id"`
	DisplayName     string         `json:"display_name"`
	IsFeatured      bool           `json:"is_featured"`
	URL             string         `json:"url,omitempty"`
	Tagline         string         `json:"tagline,omitempty"`
	Summary         string         `json:"summary"`
	LogoURL         string         `json:"logo_url"`
	HeroImageURL    string         `json:"hero_image_url"`
	Gallery         []GalleryImage `json:"gallery"`
	ServicesOffered []string       `json:"services_offered"`
}

type ServiceListing struct {
	City        City     `json:"city"`
	ServiceName string   `json:"service_name"`
	ServiceSlug string   `json:"service_slug"`
	ContentHTML string   `json:"content_html"`
	Vacant      bool     `json:"vacant"`
	Listing     *Listing `json:"listing"`
}

// ServerInterface lists the v1 operations.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /cities)
	ListCities(c *fiber.Ctx) error
	// (GET /cities/{city}/services)
	ListCityServices(c *fiber.Ctx, city string) error
	// (GET /cities/{city}/services/{service})
	GetServiceListing(c *fiber.Ctx, city string, service string) error
}

// ServerInterfaceWrapper extracts path parameters for the handlers.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return w.Handler.GetPing(c)
}

func (w *ServerInterfaceWrapper) ListCities(c *fiber.Ctx) error {
	return w.Handler.ListCities(c)
}

func (w *ServerInterfaceWrapper) ListCityServices(c *fiber.Ctx) error {
	return w.Handler.ListCityServices(c, c.Params("city"))
}

func (w *ServerInterfaceWrapper) GetServiceListing(c *fiber.Ctx) error {
	return w.Handler.GetServiceListing(c, c.Params("city"), c.Params("service"))
}

// RegisterHandlers mounts the v1 operations on router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", wrapper.GetPing)
	router.Get("/cities", wrapper.ListCities)
	router.Get("/cities/:city/services", wrapper.ListCityServices)
	router.Get("/cities/:city/services/:service", wrapper.GetServiceListing)
}
