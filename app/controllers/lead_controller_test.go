package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

type recordingLeadRepo struct {
	repository.LeadRepository
	created []*models.Lead
	err     error
}

func (r *recordingLeadRepo) Create(lead *models.Lead) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, lead)
	return nil
}

type fixedCaptcha struct {
	ok     bool
	tokens []string
}

func (f *fixedCaptcha) Enabled() bool { return true }

func (f *fixedCaptcha) Verify(token string) (bool, error) {
	f.tokens = append(f.tokens, token)
	if !f.ok {
		return false, errors.New("invalid-input-response")
	}
	return true, nil
}

type recordingNotifier struct {
	leads []*models.Lead
}

func (n *recordingNotifier) Notify(lead *models.Lead) { n.leads = append(n.leads, lead) }

func newLeadTestApp(leads repository.LeadRepository, captcha CaptchaVerifier, notifier ...LeadNotifier) *fiber.App {
	lc := &LeadController{
		base:     base{repos: &repository.Repositories{Lead: leads}},
		validate: validator.New(),
	}
	if captcha != nil {
		lc.captcha = captcha
	}
	if len(notifier) > 0 {
		lc.notifier = notifier[0]
	}
	app := fiber.New()
	app.Post("/contact", lc.HandleContactPost)
	app.Post("/:city/services/:service/claim", lc.HandleClaimPost)
	return app
}

func postFormRequest(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func hasFlash(resp *http.Response) bool {
	for _, c := range resp.Cookies() {
		if c.Name == pagecache.FlashCookie && c.Value != "" {
			return true
		}
	}
	return false
}

func TestContactPostStoresLead(t *testing.T) {
	repo := &recordingLeadRepo{}
	notifier := &recordingNotifier{}
	app := newLeadTestApp(repo, nil, notifier)

	resp := postFormRequest(t, app, "/contact", url.Values{
		"name":    {"  Dana Smith "},
		"email":   {"Dana@Example.com"},
		"message": {"Do you serve Airdrie?"},
		"city":    {"Calgary"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))
	assert.True(t, hasFlash(resp))
	require.Len(t, repo.created, 1)

	lead := repo.created[0]
	assert.Equal(t, models.LeadKindContact, lead.Kind)
	assert.Equal(t, "Dana Smith", lead.Name)
	assert.Equal(t, "dana@example.com", lead.Email)
	assert.Equal(t, "calgary", lead.CitySlug)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, []*models.Lead{lead}, notifier.leads)
}

func TestContactPostRejectsInvalidEmail(t *testing.T) {
	repo := &recordingLeadRepo{}
	app := newLeadTestApp(repo, nil)

	resp := postFormRequest(t, app, "/contact", url.Values{
		"name":  {"Dana"},
		"email": {"not-an-email"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))
	assert.True(t, hasFlash(resp))
	assert.Empty(t, repo.created)
}

func TestClaimPostTakesListingFromPath(t *testing.T) {
	repo := &recordingLeadRepo{}
	app := newLeadTestApp(repo, nil)

	resp := postFormRequest(t, app, "/calgary/services/roofing/claim", url.Values{
		"name":         {"Sam Roofer"},
		"email":        {"sam@roofs.example"},
		"company_name": {"Sam's Roofs"},
		"city":         {"edmonton"},
		"service":      {"plumbing"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/contact?city=calgary&service=roofing", resp.Header.Get("Location"))
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.LeadKindListingClaim, repo.created[0].Kind)
	assert.Equal(t, "calgary", repo.created[0].CitySlug)
	assert.Equal(t, "roofing", repo.created[0].ServiceSlug)
}

func TestContactPostCaptcha(t *testing.T) {
	form := url.Values{
		"name":               {"Dana"},
		"email":              {"dana@example.com"},
		"h-captcha-response": {"token-1"},
	}

	repo := &recordingLeadRepo{}
	captcha := &fixedCaptcha{ok: false}
	postFormRequest(t, newLeadTestApp(repo, captcha), "/contact", form)
	assert.Equal(t, []string{"token-1"}, captcha.tokens)
	assert.Empty(t, repo.created)

	captcha.ok = true
	postFormRequest(t, newLeadTestApp(repo, captcha), "/contact", form)
	assert.Len(t, repo.created, 1)
}

func TestContactPostStorageFailure(t *testing.T) {
	repo := &recordingLeadRepo{err: errors.New("db down")}
	resp := postFormRequest(t, newLeadTestApp(repo, nil), "/contact", url.Values{
		"name":  {"Dana"},
		"email": {"dana@example.com"},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.True(t, hasFlash(resp))
}
