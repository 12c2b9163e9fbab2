package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Plan is a subscription template. Subscriptions copy its tier, interval and
// price when they reference it.
type Plan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(120);not null" json:"name" validate:"required,min=2,max=120"`
	Tier       string    `gorm:"type:varchar(32);not null;index" json:"tier" validate:"required,oneof=basic featured premium"`
	Interval   string    `gorm:"column:billing_interval;type:varchar(16);not null;default:'month'" json:"interval" validate:"required,oneof=month year"`
	Currency   string    `gorm:"type:varchar(3);not null;default:'CAD'" json:"currency" validate:"required,len=3"`
	PriceCents int64     `gorm:"not null;default:0" json:"price_cents" validate:"min=0"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// FormatPrice renders cents as a decimal amount, e.g. 4900 -> "49.00".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (p *Plan) PriceInput() string {
	return FormatPrice(p.PriceCents)
}

func (p *Plan) PriceLabel() string {
	return FormatPrice(p.PriceCents) + " " + p.Currency + " / " + p.Interval
}
