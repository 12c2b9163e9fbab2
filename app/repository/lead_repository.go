package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

func (r *leadRepository) GetByID(id uint) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.First(&lead, id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads newest first; an empty status lists all.
func (r *leadRepository) List(status string, offset, limit int) ([]models.Lead, error) {
	var leads []models.Lead
	q := r.db.Order("created_at DESC").Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Offset(offset).Limit(limit).Find(&leads).Error
	return leads, err
}

func (r *leadRepository) MarkHandled(id uint) error {
	res := r.db.Model(&models.Lead{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     models.LeadStatusHandled,
		"handled_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *leadRepository) CountByStatus(status string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Lead{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}
