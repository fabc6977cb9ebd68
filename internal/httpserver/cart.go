package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/middleware/auth"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.Get(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) ReplaceItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.replace")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Items []service.LineInput `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("replace_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ReplaceItems(ctx, userID, req.Items); err != nil {
		l.Warn("replace_cart_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	productID, err := paramUint(c, "productID")
	if err != nil {
		return err
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetQuantity(ctx, userID, productID, req.Quantity); err != nil {
		l.Warn("set_quantity_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	productID, err := paramUint(c, "productID")
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveItem(ctx, userID, productID); err != nil {
		l.Warn("remove_from_cart_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		l.Error("clear_cart_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}
