package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin, csrfProtection())
	adminGroup.Get("/", h.ctrl.Admin.HandleDashboard)

	// Cities and services
	cat := h.ctrl.Catalog
	adminGroup.Get("/cities", cat.HandleCities)
	adminGroup.Get("/cities/create", cat.HandleCityCreate)
	adminGroup.Post("/cities/store", cat.HandleCityStore)
	adminGroup.Get("/cities/edit/:id", cat.HandleCityEdit)
	adminGroup.Post("/cities/update/:id", cat.HandleCityUpdate)
	adminGroup.Post("/cities/delete/:id", cat.HandleCityDelete)
	adminGroup.Get("/services", cat.HandleServices)
	adminGroup.Get("/services/create", cat.HandleServiceCreate)
	adminGroup.Post("/services/store", cat.HandleServiceStore)
	adminGroup.Get("/services/edit/:id", cat.HandleServiceEdit)
	adminGroup.Post("/services/update/:id", cat.HandleServiceUpdate)
	adminGroup.Post("/services/delete/:id", cat.HandleServiceDelete)

	// Slots and assignments
	sc := h.ctrl.Slot
	adminGroup.Get("/slots", sc.HandleSlots)
	adminGroup.Post("/slots/store", sc.HandleSlotStore)
	adminGroup.Get("/slots/edit/:id", sc.HandleSlotEdit)
	adminGroup.Post("/slots/update/:id", sc.HandleSlotUpdate)
	adminGroup.Post("/slots/delete/:id", sc.HandleSlotDelete)
	adminGroup.Post("/slots/:id/assign", sc.HandleAssign)
	adminGroup.Post("/slots/:id/unassign", sc.HandleUnassign)

	// Companies
	cc := h.ctrl.Company
	adminGroup.Get("/companies", cc.HandleCompanies)
	adminGroup.Get("/companies/create", cc.HandleCompanyCreate)
	adminGroup.Post("/companies/store", cc.HandleCompanyStore)
	adminGroup.Get("/companies/edit/:id", cc.HandleCompanyEdit)
	adminGroup.Post("/companies/update/:id", cc.HandleCompanyUpdate)
	adminGroup.Post("/companies/delete/:id", cc.HandleCompanyDelete)
	adminGroup.Post("/companies/:id/upload", cc.HandleCompanyUpload)

	// Plans and subscriptions
	sub := h.ctrl.Subscription
	adminGroup.Get("/plans", sub.HandlePlans)
	adminGroup.Get("/plans/create", sub.HandlePlanCreate)
	adminGroup.Post("/plans/store", sub.HandlePlanStore)
	adminGroup.Get("/plans/edit/:id", sub.HandlePlanEdit)
	adminGroup.Post("/plans/update/:id", sub.HandlePlanUpdate)
	adminGroup.Post("/plans/delete/:id", sub.HandlePlanDelete)
	adminGroup.Get("/companies/:id/subscription", sub.HandleCompanySubscription)
	adminGroup.Post("/companies/:id/subscription", sub.HandleSetSubscription)
	adminGroup.Post("/companies/:id/subscription/cancel", sub.HandleCancelSubscription)
	adminGroup.Post("/companies/:id/subscription/end", sub.HandleEndSubscription)

	// Blog
	bc := h.ctrl.AdminBlog
	adminGroup.Get("/blog", bc.HandlePosts)
	adminGroup.Get("/blog/create", bc.HandlePostCreate)
	adminGroup.Post("/blog/store", bc.HandlePostStore)
	adminGroup.Get("/blog/edit/:id", bc.HandlePostEdit)
	adminGroup.Post("/blog/update/:id", bc.HandlePostUpdate)
	adminGroup.Post("/blog/delete/:id", bc.HandlePostDelete)

	// Static pages
	pc := h.ctrl.AdminPage
	adminGroup.Get("/pages", pc.HandleAdminPages)
	adminGroup.Get("/pages/create", pc.HandleAdminPageCreate)
	adminGroup.Post("/pages/store", pc.HandleAdminPageStore)
	adminGroup.Get("/pages/edit/:id", pc.HandleAdminPageEdit)
	adminGroup.Post("/pages/update/:id", pc.HandleAdminPageUpdate)
	adminGroup.Post("/pages/delete/:id", pc.HandleAdminPageDelete)

	// Leads
	adminGroup.Get("/leads", h.ctrl.AdminLead.HandleLeads)
	adminGroup.Post("/leads/:id/handled", h.ctrl.AdminLead.HandleLeadHandled)

	// Page cache
	adminGroup.Get("/cache", h.ctrl.AdminCache.HandleAdminCache)
	adminGroup.Post("/cache/delete", h.ctrl.AdminCache.HandleAdminCacheDelete)
	adminGroup.Post("/cache/flush", h.ctrl.AdminCache.HandleAdminCacheFlush)
}
