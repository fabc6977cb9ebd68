package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type RecoveryHTTP struct {
	Svc *service.RecoveryService
}

func (h *RecoveryHTTP) Request(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recovery.request")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("recovery_request_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Request(ctx, req.Email); err != nil {
		l.Warn("recovery_request_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "recovery instructions sent",
	})
}

func (h *RecoveryHTTP) Reset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recovery.reset")

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("recovery_reset_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Reset(ctx, req.Token, req.NewPassword); err != nil {
		l.Warn("recovery_reset_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "password updated",
	})
}
