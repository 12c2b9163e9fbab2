package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/placement"
	"github.com/ManuelReschke/LocalPros/views/partials"
)

// AdminSlotController manages service-city slots and who occupies them.
type AdminSlotController struct {
	base
	placement *placement.Service
}

func NewAdminSlotController(repos *repository.Repositories) *AdminSlotController {
	return &AdminSlotController{
		base:      base{repos: repos},
		placement: placement.NewService(repos.Assignment, repos.Slot, pagecache.Default()),
	}
}

// SlotRow is one line of the admin slot table.
type SlotRow struct {
	Slot     models.ServiceCitySlot
	Occupant *partials.AssignmentRow
}

func (sc *AdminSlotController) HandleSlots(c *fiber.Ctx) error {
	cityID := uint(c.QueryInt("city", 0))
	slots, err := sc.repos.Slot.GetAll(cityID)
	if err != nil {
		return fail(c, "/admin", "Failed to load slots: "+err.Error())
	}

	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	assignments, err := sc.repos.Assignment.GetBySlots(ids)
	if err != nil {
		return fail(c, "/admin", "Failed to load assignments: "+err.Error())
	}
	occupants := make(map[uint]*partials.AssignmentRow, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if _, seen := occupants[a.ServiceCitySlotID]; seen {
			continue
		}
		occupants[a.ServiceCitySlotID] = occupantRow(a, csrfToken(c))
	}

	rows := make([]SlotRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, SlotRow{Slot: s, Occupant: occupants[s.ID]})
	}

	cities, err := sc.repos.City.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load cities: "+err.Error())
	}
	services, err := sc.repos.Service.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load services: "+err.Error())
	}
	companies, err := sc.repos.Company.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load companies: "+err.Error())
	}

	return sc.render(c, fiber.StatusOK, "admin/slots", "Slots", fiber.Map{
		"Rows":       rows,
		"Cities":     cities,
		"Services":   services,
		"Companies":  companies,
		"CityFilter": cityID,
	})
}

func occupantRow(a *models.CompanyListing, token string) *partials.AssignmentRow {
	row := &partials.AssignmentRow{
		SlotID:      a.ServiceCitySlotID,
		CompanyID:   a.CompanyID,
		CompanyName: a.Company.Name,
		IsFeatured:  a.IsFeatured,
		CsrfToken:   token,
	}
	if a.DisplayName != nil {
		row.DisplayName = *a.DisplayName
	}
	return row
}

func (sc *AdminSlotController) HandleSlotStore(c *fiber.Ctx) error {
	slot := &models.ServiceCitySlot{
		ServiceID:   formUint(c, "service_id"),
		CityID:      formUint(c, "city_id"),
		ContentHTML: htmlsanitize.SanitizePtr(optionalString(c.FormValue("content_html"))),
	}
	if slot.ServiceID == 0 || slot.CityID == 0 {
		return fail(c, "/admin/slots", "Choose a service and a city")
	}

	if err := sc.repos.Slot.Create(slot); err != nil {
		if errors.Is(err, repository.ErrDuplicatePair) {
			return fail(c, "/admin/slots", "This service is already offered in that city")
		}
		return fail(c, "/admin/slots", "Failed to create slot: "+err.Error())
	}

	if created, err := sc.repos.Slot.GetByID(slot.ID); err == nil {
		sc.placement.RefreshSlot(created)
	}
	return succeed(c, "/admin/slots", "Slot created")
}

func (sc *AdminSlotController) HandleSlotEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/slots")
	}
	slot, err := sc.repos.Slot.GetByID(id)
	if err != nil {
		return fail(c, "/admin/slots", "Slot not found")
	}
	assignments, err := sc.repos.Assignment.GetBySlot(id)
	if err != nil {
		return fail(c, "/admin/slots", "Failed to load assignment: "+err.Error())
	}
	companies, err := sc.repos.Company.GetAll()
	if err != nil {
		return fail(c, "/admin/slots", "Failed to load companies: "+err.Error())
	}

	var occupant *partials.AssignmentRow
	var current *models.CompanyListing
	if len(assignments) > 0 {
		current = &assignments[0]
		occupant = occupantRow(current, csrfToken(c))
	}

	content := ""
	if slot.ContentHTML != nil {
		content = *slot.ContentHTML
	}
	return sc.render(c, fiber.StatusOK, "admin/slot_form", "Edit slot", fiber.Map{
		"Slot":       slot,
		"Content":    content,
		"Occupant":   occupant,
		"Assignment": current,
		"Companies":  companies,
	})
}

// HandleSlotUpdate saves the slot's content override. Blank content falls
// back to the service description.
func (sc *AdminSlotController) HandleSlotUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/slots")
	}
	slot, err := sc.repos.Slot.GetByID(id)
	if err != nil {
		return fail(c, "/admin/slots", "Slot not found")
	}

	content := htmlsanitize.SanitizePtr(optionalString(c.FormValue("content_html")))
	if err := sc.repos.Slot.UpdateContent(id, content); err != nil {
		return fail(c, fmt.Sprintf("/admin/slots/edit/%d", id), "Failed to update slot: "+err.Error())
	}
	sc.placement.RefreshSlot(slot)
	return succeed(c, fmt.Sprintf("/admin/slots/edit/%d", id), "Slot updated")
}

func (sc *AdminSlotController) HandleSlotDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/slots")
	}
	slot, err := sc.repos.Slot.GetByID(id)
	if err != nil {
		return fail(c, "/admin/slots", "Slot not found")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if err := sc.repos.Slot.Delete(ctx, id); err != nil {
		return fail(c, "/admin/slots", "Failed to delete slot: "+err.Error())
	}
	sc.placement.RefreshSlot(slot)
	return succeed(c, "/admin/slots", "Slot deleted")
}

func assignmentMessage(err error) string {
	var occupied *repository.SlotOccupiedError
	switch {
	case errors.As(err, &occupied):
		return "This slot is already assigned to " + occupantName(occupied) + ". Unassign it first."
	case errors.Is(err, repository.ErrAssignmentConflict):
		return "Another change to this slot happened at the same time. Reload and try again."
	case errors.Is(err, repository.ErrSlotNotFound):
		return "Slot not found"
	case errors.Is(err, repository.ErrCompanyNotFound):
		return "Company not found"
	default:
		return "Failed to assign company: " + err.Error()
	}
}

func occupantName(e *repository.SlotOccupiedError) string {
	if e.CompanyName != "" {
		return e.CompanyName
	}
	return fmt.Sprintf("company #%d", e.CompanyID)
}

// HandleAssign places a company in the slot, or updates its display name
// and featured flag when it already holds the slot.
func (sc *AdminSlotController) HandleAssign(c *fiber.Ctx) error {
	slotID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/slots")
	}
	back := fmt.Sprintf("/admin/slots/edit/%d", slotID)
	companyID := formUint(c, "company_id")
	if companyID == 0 {
		return fail(c, back, "Choose a company")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	assignment, err := sc.placement.Assign(ctx, repository.AssignInput{
		CompanyID:   companyID,
		SlotID:      slotID,
		DisplayName: optionalString(c.FormValue("display_name")),
		IsFeatured:  formChecked(c, "is_featured"),
	})
	if err != nil {
		if !errors.Is(err, repository.ErrSlotOccupied) {
			log.Warnf("[Admin] assign company=%d slot=%d: %v", companyID, slotID, err)
		}
		return fail(c, back, assignmentMessage(err))
	}

	if isHTMX(c) {
		if company, err := sc.repos.Company.GetByID(companyID); err == nil {
			assignment.Company = *company
		}
		return renderComponent(c, fiber.StatusOK, partials.SlotOccupant(slotID, occupantRow(assignment, csrfToken(c))))
	}
	return succeed(c, back, "Company assigned")
}

func (sc *AdminSlotController) HandleUnassign(c *fiber.Ctx) error {
	slotID, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/slots")
	}
	back := fmt.Sprintf("/admin/slots/edit/%d", slotID)

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if err := sc.placement.Unassign(ctx, formUint(c, "company_id"), slotID); err != nil {
		if isNotFound(err) {
			return fail(c, back, "This company does not hold the slot")
		}
		return fail(c, back, "Failed to unassign company: "+err.Error())
	}

	if isHTMX(c) {
		return renderComponent(c, fiber.StatusOK, partials.SlotOccupant(slotID, nil))
	}
	return succeed(c, back, "Company unassigned")
}
