package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Page is a static content page such as /page/about or /page/privacy.
// Inactive pages answer 404; ShowInFooter adds an active page to the site
// footer, ordered by SortOrder.
type Page struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Slug         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,min=1,max=255"`
	Content      string    `gorm:"type:text;not null" json:"content" validate:"required,min=1"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	ShowInFooter bool      `gorm:"not null;default:true" json:"show_in_footer"`
	SortOrder    int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Page) TableName() string {
	return "pages"
}

func (p *Page) BeforeSave(tx *gorm.DB) error {
	p.Slug = NormalizeSlug(p.Slug)
	return nil
}

func (p *Page) Validate() error {
	v := validator.New()
	return v.Struct(p)
}
