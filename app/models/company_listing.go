package models

import (
	"strings"
	"time"
)

// CompanyListing binds one company to one service-city slot. The unique
// index on the slot id alone keeps a slot to a single company.
type CompanyListing struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	CompanyID         uint             `gorm:"not null;index:ux_company_listings_company_slot,unique,priority:1" json:"company_id"`
	ServiceCitySlotID uint             `gorm:"not null;index:ux_company_listings_company_slot,unique,priority:2;index:ux_company_listings_slot,unique" json:"service_city_slot_id"`
	DisplayName       *string          `gorm:"type:varchar(200)" json:"display_name,omitempty"`
	IsFeatured        bool             `gorm:"not null;default:false" json:"is_featured"`
	Company           Company          `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company"`
	Slot              *ServiceCitySlot `gorm:"foreignKey:ServiceCitySlotID;constraint:OnDelete:CASCADE" json:"slot,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CompanyListing) TableName() string {
	return "company_listings"
}

// ResolvedDisplayName returns the override if set, otherwise the company name.
func (l *CompanyListing) ResolvedDisplayName() string {
	if l.DisplayName != nil {
		if name := strings.TrimSpace(*l.DisplayName); name != "" {
			return name
		}
	}
	return l.Company.Name
}
