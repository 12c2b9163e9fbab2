package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// Repository provides the DB operations used by the subscription service.
type Repository interface {
	GetPlan(id uint) (*models.Plan, error)
	GetCurrent(companyID uint) (*models.Subscription, error)
	ListByCompany(companyID uint) ([]models.Subscription, error)
	// SwitchCurrent makes next the company's current row. It updates the
	// status of the current row in place when the terms are unchanged and
	// reports whether a new row was written.
	SwitchCurrent(ctx context.Context, companyID uint, next *models.Subscription, now time.Time) (*models.Subscription, *models.Subscription, bool, error)
	UpdateCurrentStatus(ctx context.Context, companyID uint, status string) (*models.Subscription, error)
	EndCurrent(ctx context.Context, companyID uint, now time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetPlan(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetCurrent(companyID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Plan").
		Where("company_id = ? AND is_current = ?", companyID, true).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByCompany returns the ledger newest first.
func (r *gormRepository) ListByCompany(companyID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan").
		Where("company_id = ?", companyID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&subs).Error
	return subs, err
}

// lockCompany serializes ledger writes per company, including the first one
// when no current row exists yet.
func lockCompany(tx *gorm.DB, companyID uint) error {
	var company models.Company
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&company, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCompanyRequired
	}
	return err
}

func (r *gormRepository) SwitchCurrent(ctx context.Context, companyID uint, next *models.Subscription, now time.Time) (*models.Subscription, *models.Subscription, bool, error) {
	var previous *models.Subscription
	var result *models.Subscription
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			return err
		}

		var current models.Subscription
		err := tx.Where("company_id = ? AND is_current = ?", companyID, true).First(&current).Error
		switch {
		case err == nil:
			prev := current
			previous = &prev
			if current.SameTerms(next) {
				if err := tx.Model(&current).Update("status", next.Status).Error; err != nil {
					return err
				}
				current.Status = next.Status
				result = &current
				return nil
			}
			if err := tx.Model(&current).Updates(map[string]interface{}{
				"is_current":         false,
				"current_company_id": nil,
				"ended_at":           now,
			}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		id := companyID
		next.ID = 0
		next.CompanyID = companyID
		next.IsCurrent = true
		next.CurrentCompanyID = &id
		next.StartedAt = now
		next.EndedAt = nil
		if err := tx.Omit(clause.Associations).Create(next).Error; err != nil {
			return err
		}
		result = next
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, false, ErrConcurrentSwitch
		}
		return nil, nil, false, err
	}
	return result, previous, created, nil
}

func (r *gormRepository) UpdateCurrentStatus(ctx context.Context, companyID uint, status string) (*models.Subscription, error) {
	var current models.Subscription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			return err
		}
		if err := tx.Where("company_id = ? AND is_current = ?", companyID, true).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoCurrent
			}
			return err
		}
		if err := tx.Model(&current).Update("status", status).Error; err != nil {
			return err
		}
		current.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &current, nil
}

// EndCurrent closes the current row without opening another one.
func (r *gormRepository) EndCurrent(ctx context.Context, companyID uint, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID); err != nil {
			return err
		}
		res := tx.Model(&models.Subscription{}).
			Where("company_id = ? AND is_current = ?", companyID, true).
			Updates(map[string]interface{}{
				"is_current":         false,
				"current_company_id": nil,
				"ended_at":           now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoCurrent
		}
		return nil
	})
}
