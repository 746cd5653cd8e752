package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mymat/internal/theme"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	data["Theme"] = theme.Luxury
	data["Path"] = c.Path()
	return c.Render(tmpl, data)
}

// renderStatus renders tmpl with the given status code.
func renderStatus(c *fiber.Ctx, status int, tmpl string, data fiber.Map) error {
	c.Status(status)
	return render(c, tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return renderStatus(c, fiber.StatusNotFound, "notfound", fiber.Map{"Message": msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return renderStatus(c, fiber.StatusInternalServerError, "notfound", fiber.Map{"Message": msg})
}
