// Package listing shapes slots and their company assignments into the
// public service pages.
package listing

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/jsonlist"
	"github.com/ManuelReschke/LocalPros/internal/pkg/viewmodel"
)

const (
	MaxGalleryDisplay         = 5
	MaxServicesOfferedDisplay = 6
)

// ComposeDetail builds the detail view of a slot. A nil slot means the
// service is not offered in the city and yields nil.
func ComposeDetail(city *models.City, slot *models.ServiceCitySlot, assignments []models.CompanyListing, images imagehost.Resolver) *viewmodel.ServiceDetail {
	if slot == nil || city == nil {
		return nil
	}

	detail := &viewmodel.ServiceDetail{
		City:        CityRef(city),
		ServiceName: slot.Service.Name,
		ServiceSlug: slot.Service.Slug,
		SlotID:      slot.ID,
	}
	if slot.HasContentOverride() {
		detail.ContentHTML = htmlsanitize.PrepareForDisplay(*slot.ContentHTML)
	} else {
		detail.ContentHTML = htmlsanitize.PrepareForDisplay(slot.Service.Description)
	}

	ordered := OrderAssignments(assignments)
	if len(ordered) > 0 {
		detail.Listing = composeListing(&ordered[0], slot.Service.Name, city.Name, images)
	}
	return detail
}

func composeListing(a *models.CompanyListing, serviceName, cityName string, images imagehost.Resolver) *viewmodel.CompanyListing {
	c := &a.Company
	name := a.ResolvedDisplayName()

	summary := strings.TrimSpace(c.CompanySummary)
	if summary == "" {
		summary = fmt.Sprintf("%s provides %s services in %s.", name, serviceName, cityName)
	}

	return &viewmodel.CompanyListing{
		CompanyID:       c.ID,
		DisplayName:     name,
		IsFeatured:      a.IsFeatured,
		URL:             strings.TrimSpace(c.URL),
		Tagline:         strings.TrimSpace(c.Tagline),
		Summary:         summary,
		LogoURL:         images.Resolve(c.LogoPublicID, c.LogoURL, imagehost.PlaceholderLogo),
		HeroImageURL:    images.Resolve(c.HeroImagePublicID, c.HeroImageURL, imagehost.PlaceholderHero),
		Gallery:         composeGallery(c, name, images),
		ServicesOffered: composeServicesOffered(c),
	}
}

func composeGallery(c *models.Company, name string, images imagehost.Resolver) []viewmodel.GalleryImage {
	// Malformed JSON renders as an empty gallery.
	stored, _ := jsonlist.Decode[models.GalleryImage](c.GalleryImages)
	ordered := FeaturedFirst(stored, c.GalleryFeaturedIndex)

	out := make([]viewmodel.GalleryImage, 0, MaxGalleryDisplay)
	for _, img := range ordered {
		if len(out) == MaxGalleryDisplay {
			break
		}
		u := images.Resolve(img.PublicID, img.URL, "")
		if u == "" {
			continue
		}
		out = append(out, viewmodel.GalleryImage{
			URL: u,
			Alt: fmt.Sprintf("%s photo %d", name, len(out)+1),
		})
	}
	return out
}

func composeServicesOffered(c *models.Company) []template.HTML {
	stored, _ := jsonlist.Decode[string](c.ServicesOffered)

	out := make([]template.HTML, 0, MaxServicesOfferedDisplay)
	for _, fragment := range stored {
		if len(out) == MaxServicesOfferedDisplay {
			break
		}
		html := htmlsanitize.PrepareForDisplay(fragment)
		if strings.TrimSpace(string(html)) == "" {
			continue
		}
		out = append(out, html)
	}
	return out
}

// FeaturedFirst moves the item at featured to the front and keeps the
// relative order of the rest. Out of range indexes leave items unchanged.
func FeaturedFirst[T any](items []T, featured int) []T {
	out := make([]T, 0, len(items))
	if featured <= 0 || featured >= len(items) {
		return append(out, items...)
	}
	out = append(out, items[featured])
	out = append(out, items[:featured]...)
	return append(out, items[featured+1:]...)
}

// OrderAssignments sorts featured first, then oldest first, then by id.
func OrderAssignments(assignments []models.CompanyListing) []models.CompanyListing {
	out := make([]models.CompanyListing, len(assignments))
	copy(out, assignments)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// ComposeCityGrid builds the service grid of a city. Slots arrive in
// service display order; featured placements move ahead of the rest.
func ComposeCityGrid(city *models.City, slots []models.ServiceCitySlot, assignments []models.CompanyListing) viewmodel.CityGrid {
	bySlot := make(map[uint][]models.CompanyListing, len(slots))
	for _, a := range assignments {
		bySlot[a.ServiceCitySlotID] = append(bySlot[a.ServiceCitySlotID], a)
	}

	cards := make([]viewmodel.ServiceCard, 0, len(slots))
	for _, slot := range slots {
		card := viewmodel.ServiceCard{
			ServiceName: slot.Service.Name,
			ServiceSlug: slot.Service.Slug,
			Href:        DetailPath(city.Slug, slot.Service.Slug),
		}
		if ordered := OrderAssignments(bySlot[slot.ID]); len(ordered) > 0 {
			card.HasProvider = true
			card.CompanyName = ordered[0].ResolvedDisplayName()
			card.IsFeatured = ordered[0].IsFeatured
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].IsFeatured && !cards[j].IsFeatured
	})

	return viewmodel.CityGrid{City: CityRef(city), Cards: cards}
}

func CityRef(city *models.City) viewmodel.CityRef {
	return viewmodel.CityRef{Name: city.Name, Slug: city.Slug, RegionCode: city.RegionCode}
}

// GridPath is the public URL of a city's service grid.
func GridPath(citySlug string) string {
	return "/" + citySlug + "/services"
}

// DetailPath is the public URL of a service page in a city.
func DetailPath(citySlug, serviceSlug string) string {
	return "/" + citySlug + "/services/" + serviceSlug
}
