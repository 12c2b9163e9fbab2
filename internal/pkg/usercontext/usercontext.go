// Package usercontext carries the signed-in operator through a request.
package usercontext

import "github.com/gofiber/fiber/v2"

const localsKey = "USER_CONTEXT"

// UserContext is the decoded session of a request. The zero value is an
// anonymous visitor.
type UserContext struct {
	UserID     uint
	Username   string
	Role       string
	IsLoggedIn bool
	IsAdmin    bool
}

func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(localsKey).(UserContext); ok {
		return uc
	}
	return UserContext{}
}

func Set(c *fiber.Ctx, uc UserContext) {
	c.Locals(localsKey, uc)
}

func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns 0 for anonymous requests.
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
