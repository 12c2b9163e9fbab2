package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeadKindContact      = "contact"
	LeadKindListingClaim = "listing_claim"

	LeadStatusNew     = "new"
	LeadStatusHandled = "handled"
)

// Lead is an inbound enquiry from the contact form or a
// "become the featured expert" claim on a vacant listing.
type Lead struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Reference   string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Kind        string     `gorm:"type:varchar(20);not null;index" json:"kind" validate:"required,oneof=contact listing_claim"`
	Name        string     `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email       string     `gorm:"type:varchar(200);not null" json:"email" validate:"required,email,max=200"`
	Phone       string     `gorm:"type:varchar(40);not null;default:''" json:"phone" validate:"max=40"`
	CompanyName string     `gorm:"type:varchar(200);not null;default:''" json:"company_name" validate:"max=200"`
	Message     string     `gorm:"type:text" json:"message" validate:"max=5000"`
	CitySlug    string     `gorm:"type:varchar(100);not null;default:''" json:"city_slug"`
	ServiceSlug string     `gorm:"type:varchar(100);not null;default:''" json:"service_slug"`
	Status      string     `gorm:"type:varchar(20);not null;default:'new';index" json:"status" validate:"oneof=new handled"`
	HandledAt   *time.Time `json:"handled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.Reference == "" {
		l.Reference = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	return nil
}

func (l *Lead) Validate() error {
	v := validator.New()
	return v.Struct(l)
}

func (l *Lead) MarkHandled() {
	now := time.Now()
	l.Status = LeadStatusHandled
	l.HandledAt = &now
}
