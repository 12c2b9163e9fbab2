package viewmodel

import "html/template"

// ServiceDetail is the public page for one service in one city.
type ServiceDetail struct {
	City        CityRef
	ServiceName string
	ServiceSlug string
	SlotID      uint
	ContentHTML template.HTML
	// Listing is nil when the slot has no company yet.
	Listing *CompanyListing
}

func (d *ServiceDetail) IsVacant() bool {
	return d.Listing == nil
}

// CompanyListing is the company shown in a slot, fully resolved for display.
type CompanyListing struct {
	CompanyID       uint
	DisplayName     string
	IsFeatured      bool
	URL             string
	Tagline         string
	Summary         string
	LogoURL         string
	HeroImageURL    string
	Gallery         []GalleryImage
	ServicesOffered []template.HTML
}

type GalleryImage struct {
	URL string
	Alt string
}

// ServiceCard is one tile of a city's service grid.
type ServiceCard struct {
	ServiceName string
	ServiceSlug string
	Href        string
	CompanyName string
	HasProvider bool
	IsFeatured  bool
}

type CityGrid struct {
	City  CityRef
	Cards []ServiceCard
}
