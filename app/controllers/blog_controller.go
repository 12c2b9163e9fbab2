package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
)

// BlogController serves the public blog, scoped to the resolved city.
type BlogController struct {
	base
}

func NewBlogController(repos *repository.Repositories) *BlogController {
	return &BlogController{base: base{repos: repos}}
}

// HandleBlogIndex lists global posts plus posts scoped to the resolved
// city. Unknown cities only see global posts.
func (bc *BlogController) HandleBlogIndex(c *fiber.Ctx) error {
	var cityID uint
	city, err := bc.repos.City.GetBySlug(citycontext.FromCtx(c))
	switch {
	case err == nil:
		cityID = city.ID
	case !isNotFound(err):
		return err
	}

	page := pageParam(c)
	posts, err := bc.repos.Blog.GetPublishedForCity(cityID, (page-1)*perPage, perPage+1)
	if err != nil {
		return err
	}
	hasMore := len(posts) > perPage
	if hasMore {
		posts = posts[:perPage]
	}

	return bc.render(c, fiber.StatusOK, "public/blog_index", "Blog", fiber.Map{
		"Posts":    posts,
		"Page":     page,
		"HasMore":  hasMore,
		"PrevPage": page - 1,
		"NextPage": page + 1,
	})
}

// HandleBlogShow renders one published post.
func (bc *BlogController) HandleBlogShow(c *fiber.Ctx) error {
	post, err := bc.repos.Blog.GetPublishedBySlug(c.Params("slug"))
	if isNotFound(err) {
		return bc.notFound(c, "Post not found", "This article does not exist or is no longer published.")
	}
	if err != nil {
		return err
	}

	return bc.render(c, fiber.StatusOK, "public/blog_show", post.Title, fiber.Map{
		"Post":    post,
		"Content": htmlsanitize.PrepareForDisplay(post.ContentHTML),
		"OG":      openGraph(c, post.Title, post.Excerpt, ""),
	})
}
