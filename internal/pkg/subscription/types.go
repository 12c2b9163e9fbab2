package subscription

import "errors"

var (
	ErrCompanyRequired  = errors.New("company is required")
	ErrInvalidTier      = errors.New("tier must be basic, featured or premium")
	ErrInvalidInterval  = errors.New("interval must be month or year")
	ErrInvalidStatus    = errors.New("unknown subscription status")
	ErrInvalidCurrency  = errors.New("currency must be a three letter code")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrLabelRequired    = errors.New("choose a plan or enter a custom label")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrNoCurrent        = errors.New("company has no current subscription")
	ErrConcurrentSwitch = errors.New("subscription changed concurrently, reload and try again")
)

// Input is an admin request to set a company's current subscription. When
// PlanID is set the plan's tier, interval, currency and price win over the
// other fields.
type Input struct {
	PlanID      *uint
	Tier        string
	Interval    string
	Status      string
	Currency    string
	PriceCents  int64
	CustomLabel string
}
