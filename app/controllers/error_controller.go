package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// ErrorHandler renders unhandled errors as the 404 or 500 page. API
// requests get a JSON body instead.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		msg := "internal server error"
		if code != fiber.StatusInternalServerError {
			msg = err.Error()
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	b := base{}
	switch {
	case code == fiber.StatusNotFound:
		return b.render(c, code, "errors/404", "Not found", fiber.Map{
			"Message": "The page you are looking for does not exist.",
		})
	case code < fiber.StatusInternalServerError:
		return b.render(c, code, "errors/500", "Error", fiber.Map{
			"Message": err.Error(),
		})
	}

	log.Errorf("[HTTP] %s %s: %v", c.Method(), c.OriginalURL(), err)
	if renderErr := b.render(c, code, "errors/500", "Error", fiber.Map{
		"Message": "Something went wrong on our side. Please try again later.",
	}); renderErr != nil {
		return c.Status(code).SendString("Internal Server Error")
	}
	return nil
}
