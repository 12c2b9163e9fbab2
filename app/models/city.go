package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// City anchors all city-scoped content. The slug is the routing key for
// every /<city>/services URL.
type City struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug       string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug" validate:"required,min=2,max=150"`
	RegionCode string    `gorm:"type:varchar(20);not null;default:''" json:"region_code" validate:"max=20"`
	RegionSlug string    `gorm:"type:varchar(20);not null;default:'';index" json:"region_slug"`
	Country    string    `gorm:"type:varchar(80);not null;default:''" json:"country" validate:"max=80"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (City) TableName() string {
	return "cities"
}

// BeforeSave keeps the slug normalized and the region slug derived.
func (c *City) BeforeSave(tx *gorm.DB) error {
	c.Slug = NormalizeSlug(c.Slug)
	c.RegionSlug = strings.ToLower(strings.TrimSpace(c.RegionCode))
	return nil
}

func (c *City) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
