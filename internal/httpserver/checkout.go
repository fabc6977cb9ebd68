package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/middleware/auth"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type CheckoutHTTP struct {
	Svc   *service.CheckoutService
	Users service.UserStore
}

func (h *CheckoutHTTP) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tickets.purchase")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	receipt, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		l.Warn("purchase_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"status":  "success",
		"payload": receipt,
	})
}

func (h *CheckoutHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tickets.list")

	email, err := h.purchaserEmail(c)
	if err != nil {
		return err
	}

	tickets, err := h.Svc.TicketsByPurchaser(ctx, email)
	if err != nil {
		l.Error("tickets_list_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"payload": tickets,
	})
}

func (h *CheckoutHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tickets.get")

	email, err := h.purchaserEmail(c)
	if err != nil {
		return err
	}

	ticket, err := h.Svc.TicketByCode(ctx, c.Param("code"), email)
	if err != nil {
		l.Warn("ticket_get_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"payload": ticket,
	})
}

func (h *CheckoutHTTP) purchaserEmail(c echo.Context) (string, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return "", err
	}
	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return "", respondError(c, err)
	}
	return user.Email, nil
}
