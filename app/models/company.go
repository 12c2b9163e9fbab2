package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	MaxGalleryImages   = 5
	MaxServicesOffered = 6
)

var (
	ErrGalleryTooLarge         = errors.New("a company gallery holds at most 5 images")
	ErrTooManyServicesOffered  = errors.New("a company lists at most 6 offered services")
	ErrGalleryFeaturedOutRange = errors.New("featured gallery index is out of range")
)

// GalleryImage is one entry of a company gallery. PublicID is the image host
// identifier; URL is the raw stored URL used when no identifier resolves.
type GalleryImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

type Company struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"type:varchar(200);not null;index" json:"name" validate:"required,min=2,max=200"`
	URL                  string         `gorm:"type:varchar(255);not null;default:''" json:"url" validate:"omitempty,url,max=255"`
	Tagline              string         `gorm:"type:varchar(255);not null;default:''" json:"tagline" validate:"max=255"`
	CompanySummary       string         `gorm:"type:text" json:"company_summary"`
	LogoURL              string         `gorm:"type:varchar(500);not null;default:''" json:"logo_url" validate:"max=500"`
	LogoPublicID         string         `gorm:"type:varchar(255);not null;default:''" json:"logo_public_id" validate:"max=255"`
	HeroImageURL         string         `gorm:"type:varchar(500);not null;default:''" json:"hero_image_url" validate:"max=500"`
	HeroImagePublicID    string         `gorm:"type:varchar(255);not null;default:''" json:"hero_image_public_id" validate:"max=255"`
	GalleryImages        datatypes.JSON `json:"gallery_images"`
	GalleryFeaturedIndex int            `gorm:"not null;default:0" json:"gallery_featured_index" validate:"min=0"`
	ServicesOffered      datatypes.JSON `json:"services_offered"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// SetGallery stores the gallery in its canonical JSON array encoding.
// Entries without URL and public id are dropped.
func (c *Company) SetGallery(images []GalleryImage, featuredIndex int) error {
	clean := make([]GalleryImage, 0, len(images))
	for _, img := range images {
		img.URL = strings.TrimSpace(img.URL)
		img.PublicID = strings.TrimSpace(img.PublicID)
		if img.URL == "" && img.PublicID == "" {
			continue
		}
		clean = append(clean, img)
	}
	if len(clean) > MaxGalleryImages {
		return ErrGalleryTooLarge
	}
	if featuredIndex < 0 || (len(clean) > 0 && featuredIndex >= len(clean)) {
		return ErrGalleryFeaturedOutRange
	}
	if len(clean) == 0 {
		featuredIndex = 0
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	c.GalleryImages = datatypes.JSON(raw)
	c.GalleryFeaturedIndex = featuredIndex
	return nil
}

// SetServicesOffered stores the offered-services fragments as a JSON array.
// Blank fragments are dropped before the cap is checked.
func (c *Company) SetServicesOffered(fragments []string) error {
	clean := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f) == "" {
			continue
		}
		clean = append(clean, f)
	}
	if len(clean) > MaxServicesOffered {
		return ErrTooManyServicesOffered
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	c.ServicesOffered = datatypes.JSON(raw)
	return nil
}
