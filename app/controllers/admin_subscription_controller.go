package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/subscription"
)

// AdminSubscriptionController manages plans and the per-company
// subscription ledger.
type AdminSubscriptionController struct {
	base
	ledger *subscription.Service
}

func NewAdminSubscriptionController(repos *repository.Repositories, ledger *subscription.Service) *AdminSubscriptionController {
	return &AdminSubscriptionController{base: base{repos: repos}, ledger: ledger}
}

var errInvalidPrice = errors.New("price must be a positive amount such as 49.99")

// parsePriceCents turns "49.99" into 4999.
func parsePriceCents(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errInvalidPrice
	}
	return int64(math.Round(v * 100)), nil
}

// ============================================================================
// Plans
// ============================================================================

func (sc *AdminSubscriptionController) HandlePlans(c *fiber.Ctx) error {
	plans, err := sc.repos.Plan.GetAll()
	if err != nil {
		return fail(c, "/admin", "Failed to load plans: "+err.Error())
	}
	return sc.render(c, fiber.StatusOK, "admin/plans", "Plans", fiber.Map{"Plans": plans})
}

func (sc *AdminSubscriptionController) HandlePlanCreate(c *fiber.Ctx) error {
	return sc.render(c, fiber.StatusOK, "admin/plan_form", "New plan", fiber.Map{
		"Plan":   &models.Plan{Currency: subscription.DefaultCurrency, Interval: models.SubscriptionIntervalMonth, IsActive: true},
		"IsEdit": false,
	})
}

func planFromForm(c *fiber.Ctx, plan *models.Plan) error {
	plan.Name = strings.TrimSpace(c.FormValue("name"))
	plan.Tier = strings.ToLower(strings.TrimSpace(c.FormValue("tier")))
	plan.Interval = strings.ToLower(strings.TrimSpace(c.FormValue("interval")))
	plan.Currency = strings.ToUpper(strings.TrimSpace(c.FormValue("currency")))
	plan.IsActive = formChecked(c, "is_active")
	price, err := parsePriceCents(c.FormValue("price"))
	if err != nil {
		return err
	}
	plan.PriceCents = price
	if err := plan.Validate(); err != nil {
		return errors.New("name, tier, interval and a three letter currency are required")
	}
	return nil
}

func (sc *AdminSubscriptionController) HandlePlanStore(c *fiber.Ctx) error {
	plan := &models.Plan{}
	if err := planFromForm(c, plan); err != nil {
		return fail(c, "/admin/plans/create", "Invalid plan: "+err.Error())
	}
	if err := sc.repos.Plan.Create(plan); err != nil {
		return fail(c, "/admin/plans/create", "Failed to create plan: "+err.Error())
	}
	return succeed(c, "/admin/plans", "Plan created")
}

func (sc *AdminSubscriptionController) HandlePlanEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/plans")
	}
	plan, err := sc.repos.Plan.GetByID(id)
	if err != nil {
		return fail(c, "/admin/plans", "Plan not found")
	}
	return sc.render(c, fiber.StatusOK, "admin/plan_form", "Edit plan", fiber.Map{
		"Plan":   plan,
		"IsEdit": true,
	})
}

// HandlePlanUpdate edits the template only; existing subscriptions keep the
// terms they copied.
func (sc *AdminSubscriptionController) HandlePlanUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/plans")
	}
	plan, err := sc.repos.Plan.GetByID(id)
	if err != nil {
		return fail(c, "/admin/plans", "Plan not found")
	}
	back := fmt.Sprintf("/admin/plans/edit/%d", id)
	if err := planFromForm(c, plan); err != nil {
		return fail(c, back, "Invalid plan: "+err.Error())
	}
	if err := sc.repos.Plan.Update(plan); err != nil {
		return fail(c, back, "Failed to update plan: "+err.Error())
	}
	return succeed(c, "/admin/plans", "Plan updated")
}

func (sc *AdminSubscriptionController) HandlePlanDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/plans")
	}
	if err := sc.repos.Plan.Delete(id); err != nil {
		return fail(c, "/admin/plans", "Failed to delete plan: "+err.Error())
	}
	return succeed(c, "/admin/plans", "Plan deleted")
}

// ============================================================================
// Company subscriptions
// ============================================================================

func subscriptionsPath(companyID uint) string {
	return fmt.Sprintf("/admin/companies/%d/subscription", companyID)
}

func (sc *AdminSubscriptionController) HandleCompanySubscription(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	company, err := sc.repos.Company.GetByID(id)
	if err != nil {
		return fail(c, "/admin/companies", "Company not found")
	}
	current, err := sc.ledger.Current(id)
	if err != nil {
		return fail(c, "/admin/companies", "Failed to load subscription: "+err.Error())
	}
	history, err := sc.ledger.History(id)
	if err != nil {
		return fail(c, "/admin/companies", "Failed to load subscription history: "+err.Error())
	}
	plans, err := sc.repos.Plan.GetActive()
	if err != nil {
		return fail(c, "/admin/companies", "Failed to load plans: "+err.Error())
	}

	return sc.render(c, fiber.StatusOK, "admin/company_subscription", "Subscription", fiber.Map{
		"Company":  company,
		"Current":  current,
		"History":  history,
		"Plans":    plans,
		"Tiers":    []string{models.SubscriptionTierBasic, models.SubscriptionTierFeatured, models.SubscriptionTierPremium},
		"Statuses": []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing, models.SubscriptionStatusPastDue, models.SubscriptionStatusPaused, models.SubscriptionStatusCanceled},
	})
}

func subscriptionMessage(err error) string {
	switch {
	case errors.Is(err, subscription.ErrConcurrentSwitch):
		return "Another change to this subscription happened at the same time. Reload and try again."
	case errors.Is(err, subscription.ErrNoCurrent):
		return "The company has no current subscription"
	case errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, subscription.ErrLabelRequired),
		errors.Is(err, subscription.ErrInvalidTier),
		errors.Is(err, subscription.ErrInvalidInterval),
		errors.Is(err, subscription.ErrInvalidStatus),
		errors.Is(err, subscription.ErrInvalidCurrency),
		errors.Is(err, subscription.ErrNegativePrice):
		return err.Error()
	default:
		return "Failed to save subscription: " + err.Error()
	}
}

// HandleSetSubscription records the posted terms as the company's current
// subscription.
func (sc *AdminSubscriptionController) HandleSetSubscription(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	back := subscriptionsPath(id)

	price, err := parsePriceCents(c.FormValue("price"))
	if err != nil {
		return fail(c, back, err.Error())
	}
	in := subscription.Input{
		Tier:        c.FormValue("tier"),
		Interval:    c.FormValue("interval"),
		Status:      c.FormValue("status"),
		Currency:    c.FormValue("currency"),
		PriceCents:  price,
		CustomLabel: c.FormValue("custom_label"),
	}
	if planID := formUint(c, "plan_id"); planID > 0 {
		in.PlanID = &planID
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	_, change, err := sc.ledger.SetCurrent(ctx, id, in)
	if err != nil {
		return fail(c, back, subscriptionMessage(err))
	}
	return succeed(c, back, "Subscription "+strings.ReplaceAll(string(change), "_", " "))
}

func (sc *AdminSubscriptionController) HandleCancelSubscription(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if _, err := sc.ledger.Cancel(ctx, id); err != nil {
		return fail(c, subscriptionsPath(id), subscriptionMessage(err))
	}
	return succeed(c, subscriptionsPath(id), "Subscription canceled")
}

func (sc *AdminSubscriptionController) HandleEndSubscription(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), adminWriteTimeout)
	defer cancel()
	if err := sc.ledger.End(ctx, id); err != nil {
		return fail(c, subscriptionsPath(id), subscriptionMessage(err))
	}
	return succeed(c, subscriptionsPath(id), "Subscription ended")
}
