package listing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/viewmodel"
)

type CityFinder interface {
	GetBySlug(slug string) (*models.City, error)
}

type SlotFinder interface {
	GetByServiceSlugAndCity(serviceSlug string, cityID uint) (*models.ServiceCitySlot, error)
	GetByCity(cityID uint) ([]models.ServiceCitySlot, error)
}

type AssignmentFinder interface {
	GetBySlot(slotID uint) ([]models.CompanyListing, error)
	GetBySlots(slotIDs []uint) ([]models.CompanyListing, error)
}

// Composer loads the records behind the public service pages. Missing
// cities and slots are reported as nil results, never as errors.
type Composer struct {
	Cities      CityFinder
	Slots       SlotFinder
	Assignments AssignmentFinder
	Images      imagehost.Resolver
}

// City returns the city for slug, or nil when no such city exists.
func (c *Composer) City(slug string) (*models.City, error) {
	if slug == "" {
		return nil, nil
	}
	city, err := c.Cities.GetBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return city, err
}

// Detail composes the service page for a verified city. It returns nil
// when the service is not offered there.
func (c *Composer) Detail(city *models.City, serviceSlug string) (*viewmodel.ServiceDetail, error) {
	slot, err := c.Slots.GetByServiceSlugAndCity(serviceSlug, city.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	assignments, err := c.Assignments.GetBySlot(slot.ID)
	if err != nil {
		return nil, err
	}
	return ComposeDetail(city, slot, assignments, c.Images), nil
}

// Grid composes the service grid of a verified city.
func (c *Composer) Grid(city *models.City) (viewmodel.CityGrid, error) {
	slots, err := c.Slots.GetByCity(city.ID)
	if err != nil {
		return viewmodel.CityGrid{}, err
	}
	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	assignments, err := c.Assignments.GetBySlots(ids)
	if err != nil {
		return viewmodel.CityGrid{}, err
	}
	return ComposeCityGrid(city, slots, assignments), nil
}
