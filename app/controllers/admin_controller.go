package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/cache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

const (
	adminWriteTimeout = 15 * time.Second
	uploadTimeout     = 60 * time.Second

	dashboardStatsKey = "admin:dashboard:stats"
	dashboardStatsTTL = time.Minute
)

// AdminController renders the back office dashboard
type AdminController struct {
	base
}

func NewAdminController(repos *repository.Repositories) *AdminController {
	return &AdminController{base: base{repos: repos}}
}

// DashboardStats are the headline counts of the dashboard.
type DashboardStats struct {
	Cities      int64 `json:"cities"`
	Services    int64 `json:"services"`
	Slots       int64 `json:"slots"`
	Assignments int64 `json:"assignments"`
	Companies   int64 `json:"companies"`
	Posts       int64 `json:"posts"`
	NewLeads    int64 `json:"new_leads"`
	Users       int64 `json:"users"`
}

// VacantSlots is the number of slots without a company.
func (s DashboardStats) VacantSlots() int64 {
	if s.Assignments >= s.Slots {
		return 0
	}
	return s.Slots - s.Assignments
}

func (ac *AdminController) collectStats() (DashboardStats, error) {
	var s DashboardStats
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&s.Cities, ac.repos.City.Count},
		{&s.Services, ac.repos.Service.Count},
		{&s.Slots, ac.repos.Slot.Count},
		{&s.Assignments, ac.repos.Assignment.Count},
		{&s.Companies, ac.repos.Company.Count},
		{&s.Posts, ac.repos.Blog.Count},
		{&s.Users, ac.repos.User.Count},
		{&s.NewLeads, func() (int64, error) { return ac.repos.Lead.CountByStatus(models.LeadStatusNew) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return s, err
		}
		*c.dst = n
	}
	return s, nil
}

// stats serves the counts from the cache server for a minute.
func (ac *AdminController) stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	if found, err := cache.GetJSON(ctx, dashboardStatsKey, &s); err == nil && found {
		return s, nil
	}

	s, err := ac.collectStats()
	if err != nil {
		return s, err
	}
	if err := cache.SetJSON(ctx, dashboardStatsKey, s, dashboardStatsTTL); err != nil {
		log.Warnf("[Admin] caching dashboard stats: %v", err)
	}
	return s, nil
}

// HandleDashboard renders the admin dashboard
func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	stats, err := ac.stats(c.UserContext())
	if err != nil {
		return ac.render(c, fiber.StatusInternalServerError, "errors/500", "Error", fiber.Map{
			"Message": "Failed to load dashboard: " + err.Error(),
		})
	}

	recentLeads, err := ac.repos.Lead.List(models.LeadStatusNew, 0, 5)
	if err != nil {
		log.Warnf("[Admin] loading recent leads: %v", err)
	}

	return ac.render(c, fiber.StatusOK, "admin/dashboard", "Dashboard", fiber.Map{
		"Stats":        stats,
		"RecentLeads":  recentLeads,
		"CacheEnabled": pagecache.Default().Enabled(),
	})
}
