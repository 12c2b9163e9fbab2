// Package subscription keeps the per-company subscription ledger: one
// current row per company plus the closed rows before it.
package subscription

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// Change describes what SetCurrent did to the ledger.
type Change string

const (
	ChangeStarted       Change = "started"
	ChangeStatusUpdated Change = "status_updated"
	ChangeUpgraded      Change = "upgraded"
	ChangeDowngraded    Change = "downgraded"
	ChangeSwitched      Change = "switched"
)

// Service validates ledger changes and applies them through a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a subscription service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// SetCurrent records in as the company's current subscription. Unchanged
// terms only update the status; anything else closes the current row and
// opens a new one in the same transaction.
func (s *Service) SetCurrent(ctx context.Context, companyID uint, in Input) (*models.Subscription, Change, error) {
	if companyID == 0 {
		return nil, "", ErrCompanyRequired
	}
	next, err := s.build(in)
	if err != nil {
		return nil, "", err
	}

	sub, previous, created, err := s.repo.SwitchCurrent(ctx, companyID, next, s.now())
	if err != nil {
		return nil, "", err
	}

	change := describe(previous, sub, created)
	log.Infof("[Subscription] company=%d %s tier=%s status=%s", companyID, change, sub.Tier, sub.Status)
	return sub, change, nil
}

func (s *Service) build(in Input) (*models.Subscription, error) {
	status, ok := normalizeStatus(in.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	if in.PlanID != nil && *in.PlanID > 0 {
		plan, err := s.repo.GetPlan(*in.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		planID := plan.ID
		return &models.Subscription{
			Tier:       plan.Tier,
			Interval:   plan.Interval,
			Status:     status,
			Currency:   plan.Currency,
			PriceCents: plan.PriceCents,
			PlanID:     &planID,
			Plan:       plan,
		}, nil
	}

	label := strings.TrimSpace(in.CustomLabel)
	if label == "" {
		return nil, ErrLabelRequired
	}
	tier, ok := normalizeTier(in.Tier)
	if !ok {
		return nil, ErrInvalidTier
	}
	interval, ok := normalizeInterval(in.Interval)
	if !ok {
		return nil, ErrInvalidInterval
	}
	currency, ok := normalizeCurrency(in.Currency)
	if !ok {
		return nil, ErrInvalidCurrency
	}
	if in.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	return &models.Subscription{
		Tier:        tier,
		Interval:    interval,
		Status:      status,
		Currency:    currency,
		PriceCents:  in.PriceCents,
		CustomLabel: label,
	}, nil
}

func describe(previous, current *models.Subscription, created bool) Change {
	switch {
	case previous == nil:
		return ChangeStarted
	case !created:
		return ChangeStatusUpdated
	case OutranksTier(current.Tier, previous.Tier):
		return ChangeUpgraded
	case OutranksTier(previous.Tier, current.Tier):
		return ChangeDowngraded
	default:
		return ChangeSwitched
	}
}

// Cancel marks the current subscription canceled in place.
func (s *Service) Cancel(ctx context.Context, companyID uint) (*models.Subscription, error) {
	return s.repo.UpdateCurrentStatus(ctx, companyID, models.SubscriptionStatusCanceled)
}

// End closes the current subscription, leaving the company without one.
func (s *Service) End(ctx context.Context, companyID uint) error {
	return s.repo.EndCurrent(ctx, companyID, s.now())
}

// Current returns the company's current subscription or nil.
func (s *Service) Current(companyID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetCurrent(companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return sub, err
}

// History returns every ledger row of the company, newest first.
func (s *Service) History(companyID uint) ([]models.Subscription, error) {
	return s.repo.ListByCompany(companyID)
}
