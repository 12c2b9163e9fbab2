package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"

	BlogVisibilityGlobal = "global"
	BlogVisibilityScoped = "scoped"
)

// BlogPost is an article shown on the public blog. VisibilityScope says
// whether it shows everywhere or only in the linked cities; a scoped post
// whose cities were all deleted shows nowhere.
type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	Slug        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,min=3,max=255"`
	Excerpt     string     `gorm:"type:varchar(500);not null;default:''" json:"excerpt" validate:"max=500"`
	ContentHTML string     `gorm:"column:content_html;type:text" json:"content_html" validate:"required"`
	Category    string     `gorm:"type:varchar(100);not null;default:'';index" json:"category" validate:"max=100"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status" validate:"oneof=draft published archived"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	AuthorID    *uint      `gorm:"index" json:"author_id,omitempty"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Cities      []City     `gorm:"many2many:blog_post_cities;constraint:OnDelete:CASCADE" json:"cities"`
	// VisibilityScope is BlogVisibilityGlobal or BlogVisibilityScoped.
	VisibilityScope string    `gorm:"column:visibility;type:varchar(10);not null;default:'global';index" json:"visibility"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

func (b *BlogPost) BeforeSave(tx *gorm.DB) error {
	b.Slug = NormalizeSlug(b.Slug)
	if b.VisibilityScope != BlogVisibilityScoped {
		b.VisibilityScope = BlogVisibilityGlobal
	}
	if b.Status == BlogStatusPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	return nil
}

func (b *BlogPost) Validate() error {
	v := validator.New()
	return v.Struct(b)
}

func (b *BlogPost) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// Visibility returns the post's stored visibility with its linked cities.
func (b *BlogPost) Visibility() Visibility {
	if b.VisibilityScope != BlogVisibilityScoped {
		return GlobalVisibility()
	}
	ids := make([]uint, 0, len(b.Cities))
	for _, c := range b.Cities {
		ids = append(ids, c.ID)
	}
	v := VisibilityFromCityIDs(ids)
	v.scoped = true
	return v
}

// Visibility is either global or scoped to a set of cities. A scoped
// visibility may lose all of its cities; it then includes none.
type Visibility struct {
	scoped  bool
	cityIDs []uint
}

// GlobalVisibility is visible in every city.
func GlobalVisibility() Visibility {
	return Visibility{}
}

// ScopedVisibility is visible only in the given cities. An empty list is
// the same as GlobalVisibility.
func ScopedVisibility(cityIDs ...uint) Visibility {
	return VisibilityFromCityIDs(cityIDs)
}

// VisibilityFromCityIDs reads an admin selection: no cities means global.
func VisibilityFromCityIDs(cityIDs []uint) Visibility {
	seen := make(map[uint]struct{}, len(cityIDs))
	ids := make([]uint, 0, len(cityIDs))
	for _, id := range cityIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Visibility{}
	}
	return Visibility{scoped: true, cityIDs: ids}
}

func (v Visibility) IsGlobal() bool {
	return !v.scoped
}

// Scope is the stored form of the variant.
func (v Visibility) Scope() string {
	if v.scoped {
		return BlogVisibilityScoped
	}
	return BlogVisibilityGlobal
}

// CityIDs returns the scoped city ids, nil for global visibility.
func (v Visibility) CityIDs() []uint {
	if v.IsGlobal() {
		return nil
	}
	out := make([]uint, len(v.cityIDs))
	copy(out, v.cityIDs)
	return out
}

// Includes reports whether a post with this visibility shows in the city.
func (v Visibility) Includes(cityID uint) bool {
	if v.IsGlobal() {
		return true
	}
	for _, id := range v.cityIDs {
		if id == cityID {
			return true
		}
	}
	return false
}
