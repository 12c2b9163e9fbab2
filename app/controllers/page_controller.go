package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
)

type PageController struct {
	base
}

func NewPageController(repos *repository.Repositories) *PageController {
	return &PageController{base: base{repos: repos}}
}

// HandlePage renders an active static page such as /page/about.
func (pc *PageController) HandlePage(c *fiber.Ctx) error {
	page, err := pc.repos.Page.GetPublishedBySlug(c.Params("slug"))
	if isNotFound(err) {
		return pc.notFound(c, "Page not found", "The page you are looking for does not exist.")
	}
	if err != nil {
		return err
	}

	return pc.render(c, fiber.StatusOK, "public/page", page.Title, fiber.Map{
		"Title":   page.Title,
		"Content": htmlsanitize.PrepareForDisplay(page.Content),
	})
}
