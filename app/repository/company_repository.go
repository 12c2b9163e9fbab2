package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

func (r *companyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetAll() ([]models.Company, error) {
	var companies []models.Company
	err := r.db.Order("name ASC").Find(&companies).Error
	return companies, err
}

// Search matches the company name, case-insensitively
func (r *companyRepository) Search(query string) ([]models.Company, error) {
	var companies []models.Company
	q := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := r.db.Where("LOWER(name) LIKE ?", q).Order("name ASC").Limit(50).Find(&companies).Error
	return companies, err
}

func (r *companyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// Delete removes the company with its listings and subscription history.
func (r *companyRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.CompanyListing{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Company{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *companyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Company{}).Count(&count).Error
	return count, err
}
