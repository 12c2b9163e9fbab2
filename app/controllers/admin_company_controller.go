package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagestore"
	"github.com/ManuelReschke/LocalPros/internal/pkg/jsonlist"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

const maxUploadBytes = 10 << 20

// AdminCompanyController manages company profiles. Uploads are only offered
// when an image store is configured.
type AdminCompanyController struct {
	base
	images imagestore.Uploader
}

func NewAdminCompanyController(repos *repository.Repositories, images imagestore.Uploader) *AdminCompanyController {
	return &AdminCompanyController{base: base{repos: repos}, images: images}
}

// companyForm is the edit screen model with fixed gallery and services rows.
type companyForm struct {
	Company         *models.Company
	Gallery         []models.GalleryImage
	ServicesOffered []string
	Listings        []models.CompanyListing
}

func newCompanyForm(company *models.Company) companyForm {
	gallery, err := jsonlist.Decode[models.GalleryImage](company.GalleryImages)
	if err != nil {
		log.Warnf("[Admin] company %d has an unreadable gallery: %v", company.ID, err)
	}
	offered, err := jsonlist.Decode[string](company.ServicesOffered)
	if err != nil {
		log.Warnf("[Admin] company %d has unreadable services offered: %v", company.ID, err)
	}
	for len(gallery) < models.MaxGalleryImages {
		gallery = append(gallery, models.GalleryImage{})
	}
	for len(offered) < models.MaxServicesOffered {
		offered = append(offered, "")
	}
	return companyForm{Company: company, Gallery: gallery, ServicesOffered: offered}
}

// companyPaths lists the public pages that show the company.
func companyPaths(listings []models.CompanyListing) []string {
	seen := map[string]bool{}
	var paths []string
	for _, l := range listings {
		if l.Slot == nil || l.Slot.City.Slug == "" || seen[l.Slot.City.Slug] {
			continue
		}
		seen[l.Slot.City.Slug] = true
		paths = append(paths, listing.GridPath(l.Slot.City.Slug))
	}
	return paths
}

func (cc *AdminCompanyController) refreshCompany(companyID uint) {
	listings, err := cc.repos.Assignment.GetByCompany(companyID)
	if err != nil {
		log.Warnf("[Admin] loading listings of company %d: %v", companyID, err)
		return
	}
	pagecache.Default().Invalidate(companyPaths(listings)...)
}

func (cc *AdminCompanyController) HandleCompanies(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	var (
		companies []models.Company
		err       error
	)
	if query != "" {
		companies, err = cc.repos.Company.Search(query)
	} else {
		companies, err = cc.repos.Company.GetAll()
	}
	if err != nil {
		return fail(c, "/admin", "Failed to load companies: "+err.Error())
	}
	return cc.render(c, fiber.StatusOK, "admin/companies", "Companies", fiber.Map{
		"Companies": companies,
		"Query":     query,
	})
}

func (cc *AdminCompanyController) HandleCompanyCreate(c *fiber.Ctx) error {
	return cc.render(c, fiber.StatusOK, "admin/company_form", "New company", fiber.Map{
		"Form":          newCompanyForm(&models.Company{}),
		"IsEdit":        false,
		"UploadEnabled": false,
	})
}

// companyFromForm applies the posted fields. Errors are user-facing.
func companyFromForm(c *fiber.Ctx, company *models.Company) error {
	company.Name = strings.TrimSpace(c.FormValue("name"))
	company.URL = strings.TrimSpace(c.FormValue("url"))
	company.Tagline = strings.TrimSpace(c.FormValue("tagline"))
	company.CompanySummary = strings.TrimSpace(c.FormValue("company_summary"))
	company.LogoURL = strings.TrimSpace(c.FormValue("logo_url"))
	company.LogoPublicID = strings.TrimSpace(c.FormValue("logo_public_id"))
	company.HeroImageURL = strings.TrimSpace(c.FormValue("hero_image_url"))
	company.HeroImagePublicID = strings.TrimSpace(c.FormValue("hero_image_public_id"))

	urls := formStrings(c, "gallery_url")
	ids := formStrings(c, "gallery_public_id")
	gallery := make([]models.GalleryImage, 0, len(urls))
	for i, u := range urls {
		img := models.GalleryImage{URL: u}
		if i < len(ids) {
			img.PublicID = ids[i]
		}
		gallery = append(gallery, img)
	}
	if err := company.SetGallery(gallery, formInt(c, "gallery_featured_index", 0)); err != nil {
		return err
	}

	var offered []string
	for _, f := range formStrings(c, "services_offered") {
		offered = append(offered, htmlsanitize.Sanitize(f))
	}
	if err := company.SetServicesOffered(offered); err != nil {
		return err
	}

	if err := company.Validate(); err != nil {
		return errors.New("name is required and the website must be a valid URL")
	}
	return nil
}

func (cc *AdminCompanyController) HandleCompanyStore(c *fiber.Ctx) error {
	company := &models.Company{}
	if err := companyFromForm(c, company); err != nil {
		return fail(c, "/admin/companies/create", "Invalid company: "+err.Error())
	}
	if err := cc.repos.Company.Create(company); err != nil {
		return fail(c, "/admin/companies/create", "Failed to create company: "+err.Error())
	}
	return succeed(c, fmt.Sprintf("/admin/companies/edit/%d", company.ID), "Company created")
}

func (cc *AdminCompanyController) HandleCompanyEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	company, err := cc.repos.Company.GetByID(id)
	if err != nil {
		return fail(c, "/admin/companies", "Company not found")
	}

	form := newCompanyForm(company)
	if form.Listings, err = cc.repos.Assignment.GetByCompany(id); err != nil {
		return fail(c, "/admin/companies", "Failed to load listings: "+err.Error())
	}
	return cc.render(c, fiber.StatusOK, "admin/company_form", "Edit company", fiber.Map{
		"Form":          form,
		"IsEdit":        true,
		"UploadEnabled": cc.images != nil,
	})
}

func (cc *AdminCompanyController) HandleCompanyUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	company, err := cc.repos.Company.GetByID(id)
	if err != nil {
		return fail(c, "/admin/companies", "Company not found")
	}

	back := fmt.Sprintf("/admin/companies/edit/%d", id)
	if err := companyFromForm(c, company); err != nil {
		return fail(c, back, "Invalid company: "+err.Error())
	}
	if err := cc.repos.Company.Update(company); err != nil {
		return fail(c, back, "Failed to update company: "+err.Error())
	}
	cc.refreshCompany(id)
	return succeed(c, back, "Company updated")
}

// HandleCompanyDelete removes the company, its listings and subscriptions.
func (cc *AdminCompanyController) HandleCompanyDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	listings, err := cc.repos.Assignment.GetByCompany(id)
	if err != nil {
		return fail(c, "/admin/companies", "Failed to load listings: "+err.Error())
	}
	if err := cc.repos.Company.Delete(id); err != nil {
		return fail(c, "/admin/companies", "Failed to delete company: "+err.Error())
	}
	pagecache.Default().Invalidate(companyPaths(listings)...)
	return succeed(c, "/admin/companies", "Company deleted")
}

// HandleCompanyUpload stores an uploaded logo, hero or gallery image and
// records its public URL on the company.
func (cc *AdminCompanyController) HandleCompanyUpload(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/companies")
	}
	back := fmt.Sprintf("/admin/companies/edit/%d", id)
	if cc.images == nil {
		return fail(c, back, "Image uploads are not configured")
	}
	company, err := cc.repos.Company.GetByID(id)
	if err != nil {
		return fail(c, "/admin/companies", "Company not found")
	}

	kind := c.FormValue("kind")
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, back, "Choose an image to upload")
	}
	if file.Size > maxUploadBytes {
		return fail(c, back, "The image is larger than 10 MB")
	}

	var gallery []models.GalleryImage
	if kind == imagestore.KindGallery {
		gallery, _ = jsonlist.Decode[models.GalleryImage](company.GalleryImages)
		if len(gallery) >= models.MaxGalleryImages {
			return fail(c, back, "The gallery is full, remove an image first")
		}
	}

	src, err := file.Open()
	if err != nil {
		return fail(c, back, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()
	result, err := cc.images.Upload(ctx, id, kind, src)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrNotAnImage):
			return fail(c, back, "The file is not a supported image")
		case errors.Is(err, imagestore.ErrInvalidKind):
			return fail(c, back, "Unknown image type")
		}
		log.Errorf("[Admin] upload for company %d: %v", id, err)
		return fail(c, back, "Upload failed, please try again")
	}

	if err := cc.attachUpload(company, kind, gallery, result.URL); err != nil {
		if delErr := cc.images.Delete(ctx, result.ObjectKey); delErr != nil {
			log.Warnf("[Admin] removing orphaned upload %s: %v", result.ObjectKey, delErr)
		}
		return fail(c, back, err.Error())
	}
	cc.refreshCompany(id)
	return succeed(c, back, "Image uploaded")
}

// attachUpload records an uploaded image URL on the company and saves it.
func (cc *AdminCompanyController) attachUpload(company *models.Company, kind string, gallery []models.GalleryImage, url string) error {
	switch kind {
	case imagestore.KindLogo:
		company.LogoURL, company.LogoPublicID = url, ""
	case imagestore.KindHero:
		company.HeroImageURL, company.HeroImagePublicID = url, ""
	case imagestore.KindGallery:
		gallery = append(gallery, models.GalleryImage{URL: url})
		featured := company.GalleryFeaturedIndex
		if featured >= len(gallery) || featured < 0 {
			featured = 0
		}
		if err := company.SetGallery(gallery, featured); err != nil {
			return err
		}
	}
	if err := cc.repos.Company.Update(company); err != nil {
		return fmt.Errorf("Failed to save company: %w", err)
	}
	return nil
}
