package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/htmlsanitize"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
)

type AdminBlogController struct {
	base
}

func NewAdminBlogController(repos *repository.Repositories) *AdminBlogController {
	return &AdminBlogController{base: base{repos: repos}}
}

func (bc *AdminBlogController) HandlePosts(c *fiber.Ctx) error {
	page := pageParam(c)
	total, err := bc.repos.Blog.Count()
	if err != nil {
		return fail(c, "/admin", "Failed to count posts: "+err.Error())
	}
	posts, err := bc.repos.Blog.GetAll((page-1)*perPage, perPage)
	if err != nil {
		return fail(c, "/admin", "Failed to load posts: "+err.Error())
	}
	return bc.render(c, fiber.StatusOK, "admin/blog_posts", "Blog", fiber.Map{
		"Posts":      posts,
		"Page":       page,
		"TotalPages": pageCount(total),
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
	})
}

// postForm carries the post together with the city multi-select state.
type postForm struct {
	Post     *models.BlogPost
	Cities   []models.City
	Selected map[uint]bool
	Statuses []string
}

func (bc *AdminBlogController) newPostForm(post *models.BlogPost) (postForm, error) {
	cities, err := bc.repos.City.GetAll()
	if err != nil {
		return postForm{}, err
	}
	selected := map[uint]bool{}
	for _, id := range post.Visibility().CityIDs() {
		selected[id] = true
	}
	return postForm{
		Post:     post,
		Cities:   cities,
		Selected: selected,
		Statuses: []string{models.BlogStatusDraft, models.BlogStatusPublished, models.BlogStatusArchived},
	}, nil
}

func (bc *AdminBlogController) HandlePostCreate(c *fiber.Ctx) error {
	form, err := bc.newPostForm(&models.BlogPost{Status: models.BlogStatusDraft})
	if err != nil {
		return fail(c, "/admin/blog", "Failed to load cities: "+err.Error())
	}
	return bc.render(c, fiber.StatusOK, "admin/blog_form", "New post", fiber.Map{
		"Form":   form,
		"IsEdit": false,
	})
}

// postFromForm applies the posted fields and returns the selected cities.
// No selection means the post is visible in every city.
func postFromForm(c *fiber.Ctx, post *models.BlogPost) []uint {
	post.Title = strings.TrimSpace(c.FormValue("title"))
	post.Slug = models.NormalizeSlug(c.FormValue("slug"))
	if post.Slug == "" {
		post.Slug = models.NormalizeSlug(post.Title)
	}
	post.Excerpt = strings.TrimSpace(c.FormValue("excerpt"))
	post.ContentHTML = htmlsanitize.Sanitize(c.FormValue("content_html"))
	post.Category = strings.TrimSpace(c.FormValue("category"))
	post.Status = c.FormValue("status")
	if post.Status != models.BlogStatusPublished {
		post.PublishedAt = nil
	}
	return models.VisibilityFromCityIDs(formUints(c, "city_ids")).CityIDs()
}

func blogPaths(slugs ...string) []string {
	paths := []string{"/blog"}
	for _, s := range slugs {
		if s != "" {
			paths = append(paths, "/blog/"+s)
		}
	}
	return paths
}

func (bc *AdminBlogController) HandlePostStore(c *fiber.Ctx) error {
	post := &models.BlogPost{}
	cityIDs := postFromForm(c, post)
	if uid := usercontext.GetUserID(c); uid > 0 {
		post.AuthorID = &uid
	}
	if err := post.Validate(); err != nil {
		return fail(c, "/admin/blog/create", "Title, slug, content and a valid status are required")
	}

	exists, err := bc.repos.Blog.SlugTaken(post.Slug, 0)
	if err != nil {
		return fail(c, "/admin/blog/create", "Failed to check slug: "+err.Error())
	}
	if exists {
		return fail(c, "/admin/blog/create", "A post with this slug already exists")
	}

	if err := bc.repos.Blog.Create(post, cityIDs); err != nil {
		return fail(c, "/admin/blog/create", "Failed to create post: "+err.Error())
	}
	pagecache.Default().Invalidate(blogPaths(post.Slug)...)
	return succeed(c, "/admin/blog", "Post created")
}

func (bc *AdminBlogController) HandlePostEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/blog")
	}
	post, err := bc.repos.Blog.GetByID(id)
	if err != nil {
		return fail(c, "/admin/blog", "Post not found")
	}
	form, err := bc.newPostForm(post)
	if err != nil {
		return fail(c, "/admin/blog", "Failed to load cities: "+err.Error())
	}
	return bc.render(c, fiber.StatusOK, "admin/blog_form", "Edit post", fiber.Map{
		"Form":   form,
		"IsEdit": true,
	})
}

func (bc *AdminBlogController) HandlePostUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/blog")
	}
	post, err := bc.repos.Blog.GetByID(id)
	if err != nil {
		return fail(c, "/admin/blog", "Post not found")
	}

	back := fmt.Sprintf("/admin/blog/edit/%d", id)
	oldSlug := post.Slug
	cityIDs := postFromForm(c, post)
	if err := post.Validate(); err != nil {
		return fail(c, back, "Title, slug, content and a valid status are required")
	}
	if post.Slug != oldSlug {
		exists, err := bc.repos.Blog.SlugTaken(post.Slug, id)
		if err != nil {
			return fail(c, back, "Failed to check slug: "+err.Error())
		}
		if exists {
			return fail(c, back, "A post with this slug already exists")
		}
	}

	if err := bc.repos.Blog.Update(post, cityIDs); err != nil {
		return fail(c, back, "Failed to update post: "+err.Error())
	}
	pagecache.Default().Invalidate(blogPaths(oldSlug, post.Slug)...)
	return succeed(c, "/admin/blog", "Post updated")
}

func (bc *AdminBlogController) HandlePostDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/admin/blog")
	}
	post, err := bc.repos.Blog.GetByID(id)
	if err != nil {
		return fail(c, "/admin/blog", "Post not found")
	}
	if err := bc.repos.Blog.Delete(id); err != nil {
		return fail(c, "/admin/blog", "Failed to delete post: "+err.Error())
	}
	pagecache.Default().Invalidate(blogPaths(post.Slug)...)
	return succeed(c, "/admin/blog", "Post deleted")
}
