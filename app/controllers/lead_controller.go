package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
	"github.com/ManuelReschke/LocalPros/internal/pkg/mail"
)

// CaptchaVerifier checks the bot protection token of a form post.
type CaptchaVerifier interface {
	Enabled() bool
	Verify(token string) (bool, error)
}

// LeadNotifier is told about every stored lead.
type LeadNotifier interface {
	Notify(lead *models.Lead)
}

// LeadController handles the contact form and listing claims.
type LeadController struct {
	base
	captcha  CaptchaVerifier
	notifier LeadNotifier
	siteKey  string
	validate *validator.Validate
}

func NewLeadController(repos *repository.Repositories, captcha *hcaptcha.Verifier, notifier *mail.LeadNotifier) *LeadController {
	lc := &LeadController{
		base:     base{repos: repos},
		validate: validator.New(),
	}
	if captcha != nil {
		lc.captcha = captcha
		lc.siteKey = captcha.SiteKey
	}
	if notifier != nil {
		lc.notifier = notifier
	}
	return lc
}

type leadForm struct {
	Name        string `form:"name" validate:"required,min=2,max=150"`
	Email       string `form:"email" validate:"required,email,max=200"`
	Phone       string `form:"phone" validate:"max=40"`
	CompanyName string `form:"company_name" validate:"max=200"`
	Message     string `form:"message" validate:"max=5000"`
	CitySlug    string `form:"city"`
	ServiceSlug string `form:"service"`
}

func (f *leadForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.Message = strings.TrimSpace(f.Message)
	f.CitySlug = models.NormalizeSlug(f.CitySlug)
	f.ServiceSlug = models.NormalizeSlug(f.ServiceSlug)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check your input."
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter your %s.", field)
	case "email":
		return "Please enter a valid email address."
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// HandleContact renders the contact form. With ?city= and ?service= it
// becomes the "become the featured expert" claim form for that listing.
func (lc *LeadController) HandleContact(c *fiber.Ctx) error {
	city := models.NormalizeSlug(c.Query("city"))
	service := models.NormalizeSlug(c.Query("service"))

	data := fiber.Map{
		"City":           city,
		"Service":        service,
		"IsClaim":        city != "" && service != "",
		"Action":         "/contact",
		"CaptchaSiteKey": "",
	}
	if lc.captcha != nil && lc.captcha.Enabled() {
		data["CaptchaSiteKey"] = lc.siteKey
	}
	if data["IsClaim"].(bool) {
		data["Action"] = listing.DetailPath(city, service) + "/claim"
	}

	title := "Contact us"
	if data["IsClaim"].(bool) {
		title = "Become the featured expert"
	}
	return lc.render(c, fiber.StatusOK, "public/contact", title, data)
}

// HandleContactPost stores a general enquiry.
func (lc *LeadController) HandleContactPost(c *fiber.Ctx) error {
	return lc.store(c, models.LeadKindContact, "/contact")
}

// HandleClaimPost stores a claim for the listing named in the path.
func (lc *LeadController) HandleClaimPost(c *fiber.Ctx) error {
	city := models.NormalizeSlug(c.Params("city"))
	service := models.NormalizeSlug(c.Params("service"))
	back := fmt.Sprintf("/contact?city=%s&service=%s", city, service)
	return lc.store(c, models.LeadKindListingClaim, back, func(f *leadForm) {
		f.CitySlug = city
		f.ServiceSlug = service
	})
}

func (lc *LeadController) store(c *fiber.Ctx, kind, back string, override ...func(*leadForm)) error {
	fm := fiber.Map{"type": "error"}

	var form leadForm
	if err := c.BodyParser(&form); err != nil {
		fm["message"] = "Could not read the form."
		return flash.WithError(c, fm).Redirect(back)
	}
	for _, fn := range override {
		fn(&form)
	}
	form.normalize()

	if err := lc.validate.Struct(&form); err != nil {
		fm["message"] = validationMessage(err)
		return flash.WithError(c, fm).Redirect(back)
	}

	if lc.captcha != nil && lc.captcha.Enabled() {
		if ok, err := lc.captcha.Verify(c.FormValue("h-captcha-response")); !ok {
			log.Infof("[Lead] captcha rejected from %s: %v", GetClientIP(c), err)
			fm["message"] = "Please complete the captcha."
			return flash.WithError(c, fm).Redirect(back)
		}
	}

	lead := &models.Lead{
		Kind:        kind,
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		CompanyName: form.CompanyName,
		Message:     form.Message,
		CitySlug:    form.CitySlug,
		ServiceSlug: form.ServiceSlug,
		Status:      models.LeadStatusNew,
	}
	if err := lead.Validate(); err != nil {
		fm["message"] = validationMessage(err)
		return flash.WithError(c, fm).Redirect(back)
	}
	if err := lc.repos.Lead.Create(lead); err != nil {
		log.Errorf("[Lead] storing %s lead: %v", kind, err)
		fm["message"] = "Your message could not be sent. Please try again later."
		return flash.WithError(c, fm).Redirect(back)
	}

	log.Infof("[Lead] %s lead %s received (city=%s service=%s)", kind, lead.Reference, lead.CitySlug, lead.ServiceSlug)
	if lc.notifier != nil {
		lc.notifier.Notify(lead)
	}
	fm = fiber.Map{
		"type":    "success",
		"message": "Thanks! We will get back to you shortly.",
	}
	return flash.WithSuccess(c, fm).Redirect(back)
}

// HandleLeadRateLimited is the limiter's response for the lead forms.
func HandleLeadRateLimited(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "error",
		"message": "Too many submissions. Please wait a few minutes and try again.",
	}
	return flash.WithError(c, fm).Redirect("/contact")
}
