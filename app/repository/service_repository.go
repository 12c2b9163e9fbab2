package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

func (r *serviceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) GetBySlug(slug string) (*models.Service, error) {
	var service models.Service
	err := r.db.Where("slug = ?", models.NormalizeSlug(slug)).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// GetAll lists services in display order
func (r *serviceRepository) GetAll() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Order("sort_order ASC").Order("name ASC").Find(&services).Error
	return services, err
}

func (r *serviceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}

// Delete removes the service with every slot offering it and their
// assignments.
func (r *serviceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slotIDs := tx.Model(&models.ServiceCitySlot{}).Select("id").Where("service_id = ?", id)
		if err := tx.Where("service_city_slot_id IN (?)", slotIDs).Delete(&models.CompanyListing{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceCitySlot{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Service{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *serviceRepository) SlugTaken(slug string, exceptID uint) (bool, error) {
	return slugTaken(r.db, &models.Service{}, slug, exceptID)
}

func (r *serviceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Service{}).Count(&count).Error
	return count, err
}
