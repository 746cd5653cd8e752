package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/services"
)

// AttachUser puts the signed-in user of the session (if any) into Locals("user").
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies(sidCookie); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireAdmin sends visitors without a session to the admin sign-in and refuses non-admins.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(sidCookie)
		if sid == "" {
			return c.Redirect("/admin/login")
		}
		u, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil || u == nil {
			return c.Redirect("/admin/login")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid, "user_id": u.ID})
			return renderStatus(c, fiber.StatusForbidden, "notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdminToken guards the admin JSON API with a Bearer token.
func RequireAdminToken(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		u, err := auth.AdminFromToken(c.UserContext(), raw)
		if err != nil {
			applog.Security(c, "access.denied.api", map[string]any{"reason": err.Error()})
			if errors.Is(err, services.ErrNotAdmin) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
