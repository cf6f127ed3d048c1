package handlers

import (
	"novastock/internal/domain"
	applog "novastock/internal/log"
	"novastock/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LoadOperator exposes the signed-in operator to templates and log lines.
func LoadOperator(auth *services.OperatorAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u := auth.Operator(c.Cookies("sid")); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

// RequireOperator guards catalog mutations; anyone else is sent to /login.
func RequireOperator(auth *services.OperatorAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			return c.Next()
		}
		sid := c.Cookies("sid")
		u := auth.Operator(sid)
		if u == nil {
			if sid != "" {
				applog.Security(c, "access.denied", map[string]any{"sid": sid})
			}
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
