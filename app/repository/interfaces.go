package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// UserRepository defines the interface for back-office accounts
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	TouchLastLogin(id uint, at time.Time) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// CityRepository defines the interface for the city directory
type CityRepository interface {
	Create(city *models.City) error
	GetByID(id uint) (*models.City, error)
	GetBySlug(slug string) (*models.City, error)
	GetAll() ([]models.City, error)
	GetByIDs(ids []uint) ([]models.City, error)
	Update(city *models.City) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(slug string, exceptID uint) (bool, error)
	Count() (int64, error)
}

// ServiceRepository defines the interface for the service catalog
type ServiceRepository interface {
	Create(service *models.Service) error
	GetByID(id uint) (*models.Service, error)
	GetBySlug(slug string) (*models.Service, error)
	GetAll() ([]models.Service, error)
	Update(service *models.Service) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(slug string, exceptID uint) (bool, error)
	Count() (int64, error)
}

// SlotRepository defines the interface for service-city slots
type SlotRepository interface {
	Create(slot *models.ServiceCitySlot) error
	GetByID(id uint) (*models.ServiceCitySlot, error)
	GetByServiceSlugAndCity(serviceSlug string, cityID uint) (*models.ServiceCitySlot, error)
	GetByCity(cityID uint) ([]models.ServiceCitySlot, error)
	GetAll(cityID uint) ([]models.ServiceCitySlot, error)
	UpdateContent(id uint, contentHTML *string) error
	Delete(ctx context.Context, id uint) error
	PairExists(serviceID, cityID uint) (bool, error)
	Count() (int64, error)
}

// AssignmentRepository defines the interface for company listings. Assign
// enforces that a slot is held by at most one company.
type AssignmentRepository interface {
	Assign(ctx context.Context, in AssignInput) (*models.CompanyListing, error)
	Unassign(ctx context.Context, companyID, slotID uint) error
	GetBySlot(slotID uint) ([]models.CompanyListing, error)
	GetBySlots(slotIDs []uint) ([]models.CompanyListing, error)
	GetByCompany(companyID uint) ([]models.CompanyListing, error)
	Count() (int64, error)
}

// CompanyRepository defines the interface for company records
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetAll() ([]models.Company, error)
	Search(query string) ([]models.Company, error)
	Update(company *models.Company) error
	Delete(id uint) error
	Count() (int64, error)
}

// PlanRepository defines the interface for subscription plan templates
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetAll() ([]models.Plan, error)
	GetActive() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// BlogRepository defines the interface for blog posts
type BlogRepository interface {
	Create(post *models.BlogPost, cityIDs []uint) error
	GetByID(id uint) (*models.BlogPost, error)
	GetPublishedBySlug(slug string) (*models.BlogPost, error)
	GetPublishedForCity(cityID uint, offset, limit int) ([]models.BlogPost, error)
	GetAll(offset, limit int) ([]models.BlogPost, error)
	Update(post *models.BlogPost, cityIDs []uint) error
	Delete(id uint) error
	Count() (int64, error)
	SlugTaken(slug string, exceptID uint) (bool, error)
}

// PageRepository defines the interface for page-related operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetPublishedBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetFooter() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
	SlugTaken(slug string, exceptID uint) (bool, error)
}

// LeadRepository defines the interface for inbound leads
type LeadRepository interface {
	Create(lead *models.Lead) error
	GetByID(id uint) (*models.Lead, error)
	List(status string, offset, limit int) ([]models.Lead, error)
	MarkHandled(id uint) error
	CountByStatus(status string) (int64, error)
}

// CacheRepository defines the interface for inspecting the page cache
type CacheRepository interface {
	FindKeysByPatterns(patterns []string) ([]string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKeys(keys []string) (int64, error)
}

// AssignInput is the admin request to place a company in a slot.
type AssignInput struct {
	CompanyID   uint
	SlotID      uint
	DisplayName *string
	IsFeatured  bool
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	City       CityRepository
	Service    ServiceRepository
	Slot       SlotRepository
	Assignment AssignmentRepository
	Company    CompanyRepository
	Plan       PlanRepository
	Blog       BlogRepository
	Page       PageRepository
	Lead       LeadRepository
	Cache      CacheRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		City:       NewCityRepository(db),
		Service:    NewServiceRepository(db),
		Slot:       NewSlotRepository(db),
		Assignment: NewAssignmentRepository(db),
		Company:    NewCompanyRepository(db),
		Plan:       NewPlanRepository(db),
		Blog:       NewBlogRepository(db),
		Page:       NewPageRepository(db),
		Lead:       NewLeadRepository(db),
		Cache:      NewCacheRepository(),
	}
}
