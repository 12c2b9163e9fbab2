package controllers

import (
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/database"
	"github.com/ManuelReschke/LocalPros/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagestore"
	"github.com/ManuelReschke/LocalPros/internal/pkg/mail"
	"github.com/ManuelReschke/LocalPros/internal/pkg/subscription"
)

// Dependencies are the services controllers share besides the repositories.
type Dependencies struct {
	Images   imagehost.Resolver
	Uploader imagestore.Uploader // nil when uploads are disabled
	Captcha  *hcaptcha.Verifier
	Ledger   *subscription.Service
	Notifier *mail.LeadNotifier // nil when lead mails are disabled
}

// Controllers holds one instance of every controller.
type Controllers struct {
	Service      *ServiceController
	Blog         *BlogController
	Page         *PageController
	Lead         *LeadController
	Auth         *AuthController
	OAuth        *OAuthController
	Admin        *AdminController
	Catalog      *AdminCatalogController
	Slot         *AdminSlotController
	Company      *AdminCompanyController
	Subscription *AdminSubscriptionController
	AdminBlog    *AdminBlogController
	AdminPage    *AdminPageController
	AdminLead    *AdminLeadController
	AdminCache   *AdminCacheController
}

func NewControllers(repos *repository.Repositories, deps Dependencies) *Controllers {
	if deps.Ledger == nil {
		deps.Ledger = subscription.NewServiceFromDB(database.GetDB())
	}
	return &Controllers{
		Service:      NewServiceController(repos, deps.Images),
		Blog:         NewBlogController(repos),
		Page:         NewPageController(repos),
		Lead:         NewLeadController(repos, deps.Captcha, deps.Notifier),
		Auth:         NewAuthController(repos),
		OAuth:        NewOAuthController(repos),
		Admin:        NewAdminController(repos),
		Catalog:      NewAdminCatalogController(repos),
		Slot:         NewAdminSlotController(repos),
		Company:      NewAdminCompanyController(repos, deps.Uploader),
		Subscription: NewAdminSubscriptionController(repos, deps.Ledger),
		AdminBlog:    NewAdminBlogController(repos),
		AdminPage:    NewAdminPageController(repos),
		AdminLead:    NewAdminLeadController(repos),
		AdminCache:   NewAdminCacheController(repos),
	}
}

// Global controller set used by the router
var controllers *Controllers

// InitializeControllers builds the global controllers from the global
// repository factory.
func InitializeControllers(deps Dependencies) {
	controllers = NewControllers(repository.GetGlobalRepositories(), deps)
}

// Get returns the global controllers, building them with default
// dependencies on first use.
func Get() *Controllers {
	if controllers == nil {
		InitializeControllers(Dependencies{
			Images:  imagehost.NewFromEnv(),
			Captcha: hcaptcha.NewFromEnv(),
		})
	}
	return controllers
}
