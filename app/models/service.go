package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Service is an entry of the global service taxonomy, independent of any city.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug" validate:"required,min=2,max=150"`
	Order       int       `gorm:"column:sort_order;not null;default:0;index" json:"order"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeSave(tx *gorm.DB) error {
	s.Slug = NormalizeSlug(s.Slug)
	return nil
}

func (s *Service) Validate() error {
	v := validator.New()
	return v.Struct(s)
}
