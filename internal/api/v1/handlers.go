package apiv1

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
	"github.com/ManuelReschke/LocalPros/internal/pkg/viewmodel"
)

type CityLister interface {
	GetAll() ([]models.City, error)
}

// APIServer implements the ServerInterface on top of the listing composer.
type APIServer struct {
	cities   CityLister
	composer *listing.Composer
}

func NewAPIServer(repos *repository.Repositories, images imagehost.Resolver) *APIServer {
	return &APIServer{
		cities: repos.City,
		composer: &listing.Composer{
			Cities:      repos.City,
			Slots:       repos.Slot,
			Assignments: repos.Assignment,
			Images:      images,
		},
	}
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(Error{Error: "not_found", Message: message})
}

func toCity(ref viewmodel.CityRef) City {
	return City{Name: ref.Name, Slug: ref.Slug, RegionCode: ref.RegionCode}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

func (s *APIServer) ListCities(c *fiber.Ctx) error {
	cities, err := s.cities.GetAll()
	if err != nil {
		return err
	}
	out := make([]City, 0, len(cities))
	for i := range cities {
		out = append(out, toCity(listing.CityRef(&cities[i])))
	}
	return c.JSON(out)
}

func (s *APIServer) ListCityServices(c *fiber.Ctx, city string) error {
	found, err := s.composer.City(strings.ToLower(city))
	if err != nil {
		return err
	}
	if found == nil {
		return notFound(c, "city not found")
	}

	grid, err := s.composer.Grid(found)
	if err != nil {
		return err
	}
	out := CityServices{City: toCity(grid.City), Services: make([]ServiceCard, 0, len(grid.Cards))}
	for _, card := range grid.Cards {
		out.Services = append(out.Services, ServiceCard(card))
	}
	return c.JSON(out)
}

func (s *APIServer) GetServiceListing(c *fiber.Ctx, city string, service string) error {
	found, err := s.composer.City(strings.ToLower(city))
	if err != nil {
		return err
	}
	if found == nil {
		return notFound(c, "city not found")
	}

	detail, err := s.composer.Detail(found, strings.ToLower(service))
	if err != nil {
		return err
	}
	if detail == nil {
		return notFound(c, "service not offered in this city")
	}

	out := ServiceListing{
		City:        toCity(detail.City),
		ServiceName: detail.ServiceName,
		ServiceSlug: detail.ServiceSlug,
		ContentHTML: string(detail.ContentHTML),
		Vacant:      detail.IsVacant(),
	}
	if l := detail.Listing; l != nil {
		out.Listing = &Listing{
			CompanyID:       l.CompanyID,
			DisplayName:     l.DisplayName,
			IsFeatured:      l.IsFeatured,
			URL:             l.URL,
			Tagline:         l.Tagline,
			Summary:         l.Summary,
			LogoURL:         l.LogoURL,
			HeroImageURL:    l.HeroImageURL,
			Gallery:         make([]GalleryImage, 0, len(l.Gallery)),
			ServicesOffered: make([]string, 0, len(l.ServicesOffered)),
		}
		for _, g := range l.Gallery {
			out.Listing.Gallery = append(out.Listing.Gallery, GalleryImage(g))
		}
		for _, f := range l.ServicesOffered {
			out.Listing.ServicesOffered = append(out.Listing.ServicesOffered, string(f))
		}
	}
	return c.JSON(out)
}
