package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

// Create inserts a slot. A second slot for the same service and city
// returns ErrDuplicatePair.
func (r *slotRepository) Create(slot *models.ServiceCitySlot) error {
	err := r.db.Create(slot).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePair
	}
	return err
}

func (r *slotRepository) GetByID(id uint) (*models.ServiceCitySlot, error) {
	var slot models.ServiceCitySlot
	err := r.db.Preload("Service").Preload("City").First(&slot, id).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByServiceSlugAndCity finds the slot offering the service in the city.
func (r *slotRepository) GetByServiceSlugAndCity(serviceSlug string, cityID uint) (*models.ServiceCitySlot, error) {
	var slot models.ServiceCitySlot
	err := r.db.
		Joins("JOIN services ON services.id = service_city_slots.service_id").
		Where("services.slug = ? AND service_city_slots.city_id = ?", models.NormalizeSlug(serviceSlug), cityID).
		Preload("Service").
		Preload("City").
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByCity lists the city's slots in service display order.
func (r *slotRepository) GetByCity(cityID uint) ([]models.ServiceCitySlot, error) {
	var slots []models.ServiceCitySlot
	err := r.db.
		Joins("JOIN services ON services.id = service_city_slots.service_id").
		Where("service_city_slots.city_id = ?", cityID).
		Order("services.sort_order ASC").
		Order("services.name ASC").
		Preload("Service").
		Find(&slots).Error
	return slots, err
}

// GetAll lists slots for the admin table, optionally filtered by city.
func (r *slotRepository) GetAll(cityID uint) ([]models.ServiceCitySlot, error) {
	var slots []models.ServiceCitySlot
	q := r.db.
		Joins("JOIN cities ON cities.id = service_city_slots.city_id").
		Joins("JOIN services ON services.id = service_city_slots.service_id").
		Preload("Service").
		Preload("City")
	if cityID > 0 {
		q = q.Where("service_city_slots.city_id = ?", cityID)
	}
	err := q.Order("cities.name ASC").Order("services.sort_order ASC").Order("services.name ASC").Find(&slots).Error
	return slots, err
}

func (r *slotRepository) UpdateContent(id uint, contentHTML *string) error {
	res := r.db.Model(&models.ServiceCitySlot{}).Where("id = ?", id).Update("content_html", contentHTML)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the slot and its assignment.
func (r *slotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_city_slot_id = ?", id).Delete(&models.CompanyListing{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ServiceCitySlot{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *slotRepository) PairExists(serviceID, cityID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ServiceCitySlot{}).Where("service_id = ? AND city_id = ?", serviceID, cityID).Count(&count).Error
	return count > 0, err
}

func (r *slotRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ServiceCitySlot{}).Count(&count).Error
	return count, err
}
