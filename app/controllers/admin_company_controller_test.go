package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagestore"
	"github.com/ManuelReschke/LocalPros/internal/pkg/jsonlist"
)

type stubCompanyRepo struct {
	repository.CompanyRepository
	company   models.Company
	updateErr error
	updates   int
}

func (r *stubCompanyRepo) GetByID(id uint) (*models.Company, error) {
	c := r.company
	return &c, nil
}

func (r *stubCompanyRepo) Update(company *models.Company) error {
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.company = *company
	return nil
}

func (r *stubAssignmentRepo) GetByCompany(companyID uint) ([]models.CompanyListing, error) {
	return nil, nil
}

type recordingUploader struct {
	stored  []string
	deleted []string
}

func (u *recordingUploader) Upload(_ context.Context, companyID uint, kind string, r io.Reader) (*imagestore.UploadResult, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("companies/%d/%s-abc.jpg", companyID, kind)
	u.stored = append(u.stored, key)
	return &imagestore.UploadResult{ObjectKey: key, URL: "https://cdn.example.com/" + key}, nil
}

func (u *recordingUploader) Delete(_ context.Context, objectKey string) error {
	u.deleted = append(u.deleted, objectKey)
	return nil
}

func newUploadTestApp(companies *stubCompanyRepo, uploader *recordingUploader) *fiber.App {
	repos := &repository.Repositories{Company: companies, Assignment: &stubAssignmentRepo{}}
	cc := NewAdminCompanyController(repos, uploader)
	app := fiber.New()
	app.Post("/admin/companies/:id/upload", cc.HandleCompanyUpload)
	return app
}

func postUpload(t *testing.T, app *fiber.App, kind string) (*http.Response, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("kind", kind))
	part, err := w.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/companies/7/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func TestCompanyUploadRemovesObjectWhenSaveFails(t *testing.T) {
	companies := &stubCompanyRepo{company: models.Company{ID: 7, Name: "Acme"}, updateErr: errors.New("db down")}
	uploader := &recordingUploader{}

	resp, body := postUpload(t, newUploadTestApp(companies, uploader), imagestore.KindHero)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Failed to save company")
	assert.Equal(t, []string{"companies/7/hero-abc.jpg"}, uploader.deleted)
}

func TestCompanyUploadAppendsToGallery(t *testing.T) {
	companies := &stubCompanyRepo{company: models.Company{ID: 7, Name: "Acme"}}
	require.NoError(t, companies.company.SetGallery([]models.GalleryImage{{URL: "https://x/a.jpg"}}, 0))
	uploader := &recordingUploader{}

	resp, _ := postUpload(t, newUploadTestApp(companies, uploader), imagestore.KindGallery)
	assert.Less(t, resp.StatusCode, 400)
	assert.Empty(t, uploader.deleted)

	gallery, err := jsonlist.Decode[models.GalleryImage](companies.company.GalleryImages)
	require.NoError(t, err)
	require.Len(t, gallery, 2)
	assert.Equal(t, "https://cdn.example.com/companies/7/gallery-abc.jpg", gallery[1].URL)
}

func TestAttachUploadRejectsOversizedGallery(t *testing.T) {
	companies := &stubCompanyRepo{}
	cc := NewAdminCompanyController(&repository.Repositories{Company: companies}, &recordingUploader{})

	full := make([]models.GalleryImage, models.MaxGalleryImages)
	for i := range full {
		full[i] = models.GalleryImage{URL: fmt.Sprintf("https://x/%d.jpg", i)}
	}
	err := cc.attachUpload(&models.Company{ID: 7}, imagestore.KindGallery, full, "https://x/new.jpg")
	assert.ErrorIs(t, err, models.ErrGalleryTooLarge)
	assert.Zero(t, companies.updates)
}
