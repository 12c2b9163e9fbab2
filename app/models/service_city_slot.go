package models

import (
	"strings"
	"time"
)

// ServiceCitySlot states that a service is offered in a city. It is the unit
// of placement: at most one company listing may occupy a slot.
type ServiceCitySlot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceID   uint      `gorm:"not null;index:ux_service_city_slots_pair,unique,priority:1" json:"service_id"`
	CityID      uint      `gorm:"not null;index;index:ux_service_city_slots_pair,unique,priority:2" json:"city_id"`
	ContentHTML *string   `gorm:"type:text" json:"content_html,omitempty"`
	Service     Service   `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"service"`
	City        City      `gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE" json:"city"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ServiceCitySlot) TableName() string {
	return "service_city_slots"
}

// HasContentOverride reports whether the slot carries its own non-blank content.
func (s *ServiceCitySlot) HasContentOverride() bool {
	return s.ContentHTML != nil && strings.TrimSpace(*s.ContentHTML) != ""
}
