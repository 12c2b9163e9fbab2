package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/views/partials"
)

type AdminLeadController struct {
	base
}

func NewAdminLeadController(repos *repository.Repositories) *AdminLeadController {
	return &AdminLeadController{base: base{repos: repos}}
}

// HandleLeads lists enquiries, new ones by default.
func (lc *AdminLeadController) HandleLeads(c *fiber.Ctx) error {
	status := c.Query("status", models.LeadStatusNew)
	if status != models.LeadStatusNew && status != models.LeadStatusHandled {
		status = models.LeadStatusNew
	}
	page := pageParam(c)

	total, err := lc.repos.Lead.CountByStatus(status)
	if err != nil {
		return fail(c, "/admin", "Failed to count leads: "+err.Error())
	}
	leads, err := lc.repos.Lead.List(status, (page-1)*perPage, perPage)
	if err != nil {
		return fail(c, "/admin", "Failed to load leads: "+err.Error())
	}

	return lc.render(c, fiber.StatusOK, "admin/leads", "Leads", fiber.Map{
		"Leads":      leads,
		"Status":     status,
		"Page":       page,
		"TotalPages": pageCount(total),
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
	})
}

func (lc *AdminLeadController) HandleLeadHandled(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/leads")
	}
	if err := lc.repos.Lead.MarkHandled(id); err != nil {
		if isNotFound(err) {
			return fail(c, "/admin/leads", "Lead not found")
		}
		return fail(c, "/admin/leads", "Failed to update lead: "+err.Error())
	}
	if isHTMX(c) {
		return renderComponent(c, fiber.StatusOK, partials.Alert(partials.AlertSuccess, "Marked as handled"))
	}
	return succeed(c, "/admin/leads", "Lead marked as handled")
}
