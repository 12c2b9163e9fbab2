package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// FooterOrder sorts pages for the footer and the admin list.
const FooterOrder = "sort_order ASC, title ASC, id ASC"

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

func (r *pageRepository) GetByID(id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPublishedBySlug finds an active page; the slug is normalized first so
// /page/About resolves like /page/about.
func (r *pageRepository) GetPublishedBySlug(slug string) (*models.Page, error) {
	var page models.Page
	err := r.db.Where("slug = ? AND is_active = ?", models.NormalizeSlug(slug), true).First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetAll() ([]models.Page, error) {
	var pages []models.Page
	err := r.db.Order(FooterOrder).Find(&pages).Error
	return pages, err
}

// GetFooter lists the active pages flagged for the site footer.
func (r *pageRepository) GetFooter() ([]models.Page, error) {
	var pages []models.Page
	err := r.db.Select("id", "title", "slug", "sort_order").
		Where("is_active = ? AND show_in_footer = ?", true, true).
		Order(FooterOrder).
		Find(&pages).Error
	return pages, err
}

func (r *pageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

func (r *pageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Page{}, id).Error
}

func (r *pageRepository) SlugTaken(slug string, exceptID uint) (bool, error) {
	return slugTaken(r.db, &models.Page{}, slug, exceptID)
}
