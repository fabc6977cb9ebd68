package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id": user.ID, "email": user.Email, "role": user.Role, "cart_id": user.CartID,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, token, exp, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return respondError(c, err)
	}

	c.SetCookie(createCookie("accessToken", token, "/", exp))

	return c.JSON(http.StatusOK, echo.Map{
		"is_admin": user.Role == models.RoleAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(deleteCookie("accessToken", "/"))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func createCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
