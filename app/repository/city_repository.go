package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type cityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) Create(city *models.City) error {
	return r.db.Create(city).Error
}

func (r *cityRepository) GetByID(id uint) (*models.City, error) {
	var city models.City
	err := r.db.First(&city, id).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// GetBySlug looks up a city by its lowercase slug
func (r *cityRepository) GetBySlug(slug string) (*models.City, error) {
	var city models.City
	err := r.db.Where("slug = ?", models.NormalizeSlug(slug)).First(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *cityRepository) GetAll() ([]models.City, error) {
	var cities []models.City
	err := r.db.Order("name ASC").Find(&cities).Error
	return cities, err
}

func (r *cityRepository) GetByIDs(ids []uint) ([]models.City, error) {
	var cities []models.City
	if len(ids) == 0 {
		return cities, nil
	}
	err := r.db.Where("id IN ?", ids).Order("name ASC").Find(&cities).Error
	return cities, err
}

func (r *cityRepository) Update(city *models.City) error {
	return r.db.Save(city).Error
}

// Delete removes the city together with its slots, their assignments and
// its blog scoping rows. Posts scoped only to this city stay scoped and
// drop out of every listing.
func (r *cityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slotIDs := tx.Model(&models.ServiceCitySlot{}).Select("id").Where("city_id = ?", id)
		if err := tx.Where("service_city_slot_id IN (?)", slotIDs).Delete(&models.CompanyListing{}).Error; err != nil {
			return err
		}
		if err := tx.Where("city_id = ?", id).Delete(&models.ServiceCitySlot{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM blog_post_cities WHERE city_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.City{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *cityRepository) SlugTaken(slug string, exceptID uint) (bool, error) {
	return slugTaken(r.db, &models.City{}, slug, exceptID)
}

func (r *cityRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.City{}).Count(&count).Error
	return count, err
}
