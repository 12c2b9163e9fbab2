package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create stores the post and its city scope. No city ids means global.
func (r *blogRepository) Create(post *models.BlogPost, cityIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		post.Cities = nil
		post.VisibilityScope = models.VisibilityFromCityIDs(cityIDs).Scope()
		if err := tx.Omit("Cities").Create(post).Error; err != nil {
			return err
		}
		return replaceCities(tx, post, cityIDs)
	})
}

func (r *blogRepository) GetByID(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("Cities").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) GetPublishedBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("Cities").
		Where("slug = ? AND status = ?", slug, models.BlogStatusPublished).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublishedForCity lists published posts that are global or scoped to
// the city, newest first.
func (r *blogRepository) GetPublishedForCity(cityID uint, offset, limit int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	inCity := r.db.Table("blog_post_cities").Select("blog_post_id").Where("city_id = ?", cityID)

	err := r.db.Preload("Cities").
		Where("status = ?", models.BlogStatusPublished).
		Where(r.db.Where("visibility = ?", models.BlogVisibilityGlobal).Or("id IN (?)", inCity)).
		Order("published_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *blogRepository) GetAll(offset, limit int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.Preload("Cities").Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// Update saves the post fields and replaces its city scope.
func (r *blogRepository) Update(post *models.BlogPost, cityIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		post.VisibilityScope = models.VisibilityFromCityIDs(cityIDs).Scope()
		if err := tx.Omit("Cities").Save(post).Error; err != nil {
			return err
		}
		return replaceCities(tx, post, cityIDs)
	})
}

func (r *blogRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_post_cities WHERE blog_post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogPost{}, id).Error
	})
}

func (r *blogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.BlogPost{}).Count(&count).Error
	return count, err
}

func (r *blogRepository) SlugTaken(slug string, exceptID uint) (bool, error) {
	return slugTaken(r.db, &models.BlogPost{}, slug, exceptID)
}

// replaceCities links the selected cities. Ids that no longer exist are
// dropped; the post keeps its scoped visibility even if none remain.
func replaceCities(tx *gorm.DB, post *models.BlogPost, cityIDs []uint) error {
	visibility := models.VisibilityFromCityIDs(cityIDs)
	if visibility.IsGlobal() {
		post.Cities = nil
		return tx.Model(post).Association("Cities").Clear()
	}
	var cities []models.City
	if err := tx.Where("id IN ?", visibility.CityIDs()).Find(&cities).Error; err != nil {
		return err
	}
	if err := tx.Model(post).Association("Cities").Replace(cities); err != nil {
		return err
	}
	post.Cities = cities
	return nil
}
