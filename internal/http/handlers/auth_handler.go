package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/log"
	"mymat/internal/services"
	"mymat/internal/validate"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, tmpl, email, reason string) error {
	log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
	return renderStatus(c, fiber.StatusUnauthorized, tmpl, fiber.Map{"Err": "Invalid email or password", "Email": email})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		return h.loginFailed(c, "login", email, "bad_format")
	}
	if !validate.Password(pass) {
		return h.loginFailed(c, "login", email, "bad_password_format")
	}
	if _, err := h.Auth.Login(c.UserContext(), sid, email, pass); err != nil {
		return h.loginFailed(c, "login", email, "bad_credentials")
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	name, email := c.FormValue("name"), c.FormValue("email")
	_, err := h.Auth.Signup(c.UserContext(), sid, name, email, c.FormValue("password"))
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Security(c, "validation.fail", map[string]any{"field": verr.Field, "form": "signup"})
		return renderStatus(c, fiber.StatusBadRequest, "login", fiber.Map{
			"SignupErr": verr.Msg, "Name": name, "Email": email, "Mode": "signup",
		})
	case errors.Is(err, services.ErrEmailTaken):
		return renderStatus(c, fiber.StatusConflict, "login", fiber.Map{
			"SignupErr": err.Error(), "Name": name, "Email": email, "Mode": "signup",
		})
	case err != nil:
		log.Error(c, "auth.signup.fail", err, nil)
		return serverError(c, "Could not create your account. Please try again.")
	}
	log.Audit(c, "auth.signup", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	_ = h.Auth.Logout(c.UserContext(), sid)
	expireSID(c, h.Secure)
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

func (h *AuthHandler) AdminLoginForm(c *fiber.Ctx) error {
	if currentUser(c).IsAdmin() {
		return c.Redirect("/admin")
	}
	return render(c, "admin/login", fiber.Map{"Err": ""})
}

// AdminLogin signs in and only lets admins through; other accounts are signed out again.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || pass == "" {
		return h.loginFailed(c, "admin/login", email, "bad_format")
	}
	u, err := h.Auth.Login(c.UserContext(), sid, email, pass)
	if err != nil {
		return h.loginFailed(c, "admin/login", email, "bad_credentials")
	}
	if !u.IsAdmin() {
		_ = h.Auth.Logout(c.UserContext(), sid)
		log.Security(c, "access.denied.admin", map[string]any{"email": email, "reason": "not_admin"})
		return renderStatus(c, fiber.StatusForbidden, "admin/login", fiber.Map{"Err": "This account has no admin access", "Email": email})
	}
	log.Audit(c, "admin.login.success", map[string]any{"email": email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	if sid := c.Cookies(sidCookie); sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
	}
	expireSID(c, h.Secure)
	log.Audit(c, "admin.logout", nil)
	return c.Redirect("/admin/login")
}
