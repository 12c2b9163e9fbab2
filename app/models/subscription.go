package models

import "time"

const (
	SubscriptionTierBasic    = "basic"
	SubscriptionTierFeatured = "featured"
	SubscriptionTierPremium  = "premium"
)

const (
	SubscriptionIntervalMonth = "month"
	SubscriptionIntervalYear  = "year"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusPaused   = "paused"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription is one row of a company's subscription ledger. Rows are
// appended whenever a history-sensitive field changes; IsCurrent marks the
// single live row. CurrentCompanyID mirrors CompanyID on the current row and
// is NULL otherwise, so its unique index allows one current row per company.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CompanyID        uint       `gorm:"not null;index" json:"company_id"`
	Company          Company    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Tier             string     `gorm:"type:varchar(32);not null" json:"tier"`
	Interval         string     `gorm:"column:billing_interval;type:varchar(16);not null;default:'month'" json:"interval"`
	Status           string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	Currency         string     `gorm:"type:varchar(3);not null;default:'CAD'" json:"currency"`
	PriceCents       int64      `gorm:"not null;default:0" json:"price_cents"`
	PlanID           *uint      `gorm:"index" json:"plan_id,omitempty"`
	Plan             *Plan      `gorm:"foreignKey:PlanID;constraint:OnDelete:SET NULL" json:"plan,omitempty"`
	CustomLabel      string     `gorm:"type:varchar(120);not null;default:''" json:"custom_label"`
	IsCurrent        bool       `gorm:"not null;default:false;index" json:"is_current"`
	CurrentCompanyID *uint      `gorm:"uniqueIndex:ux_subscriptions_current" json:"-"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	EndedAt          *time.Time `gorm:"default:null" json:"ended_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Label returns the plan name when the row references a plan, otherwise the
// custom label.
func (s *Subscription) Label() string {
	if s.Plan != nil && s.Plan.Name != "" {
		return s.Plan.Name
	}
	return s.CustomLabel
}

func (s *Subscription) UsesPlan(planID uint) bool {
	return s.PlanID != nil && *s.PlanID == planID
}

func (s *Subscription) PriceInput() string {
	return FormatPrice(s.PriceCents)
}

func (s *Subscription) PriceLabel() string {
	return FormatPrice(s.PriceCents) + " " + s.Currency + " / " + s.Interval
}

// SameTerms reports whether two rows agree on every history-sensitive field.
func (s *Subscription) SameTerms(o *Subscription) bool {
	if s.Tier != o.Tier || s.Interval != o.Interval || s.Currency != o.Currency || s.PriceCents != o.PriceCents {
		return false
	}
	if s.CustomLabel != o.CustomLabel {
		return false
	}
	switch {
	case s.PlanID == nil && o.PlanID == nil:
		return true
	case s.PlanID == nil || o.PlanID == nil:
		return false
	default:
		return *s.PlanID == *o.PlanID
	}
}
