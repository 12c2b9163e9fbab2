package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// ListingOrder is the deterministic order of assignments within a slot:
// featured first, then oldest first.
const ListingOrder = "company_listings.is_featured DESC, company_listings.created_at ASC, company_listings.id ASC"

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Assign places a company in a slot, or updates the display name and
// featured flag when the company already holds it. The slot row is locked
// for the duration of the check and write; the unique index on the slot id
// rejects anything that slips past a concurrent writer.
func (r *assignmentRepository) Assign(ctx context.Context, in AssignInput) (*models.CompanyListing, error) {
	var result models.CompanyListing
	displayName := normalizeDisplayName(in.DisplayName)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.ServiceCitySlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, in.SlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		var company models.Company
		if err := tx.Select("id", "name").First(&company, in.CompanyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompanyNotFound
			}
			return err
		}

		var existing []models.CompanyListing
		if err := tx.Preload("Company").Where("service_city_slot_id = ?", slot.ID).Order(ListingOrder).Find(&existing).Error; err != nil {
			return err
		}
		current, err := ExclusiveHolder(slot.ID, existing, in.CompanyID)
		if err != nil {
			return err
		}

		if current != nil {
			if err := tx.Model(current).Updates(map[string]interface{}{
				"display_name": displayName,
				"is_featured":  in.IsFeatured,
			}).Error; err != nil {
				return err
			}
			current.DisplayName = displayName
			current.IsFeatured = in.IsFeatured
			result = *current
			return nil
		}

		result = models.CompanyListing{
			CompanyID:         in.CompanyID,
			ServiceCitySlotID: slot.ID,
			DisplayName:       displayName,
			IsFeatured:        in.IsFeatured,
		}
		if err := tx.Omit(clause.Associations).Create(&result).Error; err != nil {
			return err
		}
		result.Company = company
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAssignmentConflict
		}
		return nil, err
	}
	return &result, nil
}

// Unassign removes the company from the slot. A missing assignment
// returns gorm.ErrRecordNotFound.
func (r *assignmentRepository) Unassign(ctx context.Context, companyID, slotID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.ServiceCitySlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		res := tx.Where("company_id = ? AND service_city_slot_id = ?", companyID, slotID).Delete(&models.CompanyListing{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ExclusiveHolder applies the one-company-per-slot rule to the slot's
// current assignments, given in ListingOrder. It returns the row to update
// when companyID already holds the slot, nil when the slot is vacant, and a
// *SlotOccupiedError when another company holds it.
func ExclusiveHolder(slotID uint, existing []models.CompanyListing, companyID uint) (*models.CompanyListing, error) {
	for _, e := range existing {
		if e.CompanyID != companyID {
			return nil, &SlotOccupiedError{SlotID: slotID, CompanyID: e.CompanyID, CompanyName: e.Company.Name}
		}
	}
	if len(existing) == 0 {
		return nil, nil
	}
	current := existing[0]
	return &current, nil
}

func (r *assignmentRepository) GetBySlot(slotID uint) ([]models.CompanyListing, error) {
	var listings []models.CompanyListing
	err := r.db.Preload("Company").Where("service_city_slot_id = ?", slotID).Order(ListingOrder).Find(&listings).Error
	return listings, err
}

// GetBySlots loads the assignments of many slots, each slot's rows in
// ListingOrder.
func (r *assignmentRepository) GetBySlots(slotIDs []uint) ([]models.CompanyListing, error) {
	var listings []models.CompanyListing
	if len(slotIDs) == 0 {
		return listings, nil
	}
	err := r.db.Preload("Company").Where("service_city_slot_id IN ?", slotIDs).Order(ListingOrder).Find(&listings).Error
	return listings, err
}

func (r *assignmentRepository) GetByCompany(companyID uint) ([]models.CompanyListing, error) {
	var listings []models.CompanyListing
	err := r.db.
		Preload("Slot.Service").
		Preload("Slot.City").
		Where("company_id = ?", companyID).
		Order("company_listings.created_at ASC").
		Find(&listings).Error
	return listings, err
}

func (r *assignmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.CompanyListing{}).Count(&count).Error
	return count, err
}

func normalizeDisplayName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
