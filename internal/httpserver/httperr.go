package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// respondError maps service sentinels onto stable HTTP categories. Every
// failure gets a structured body; insufficient stock carries the per-item
// shortfall so the caller can act.
func respondError(c echo.Context, err error) error {
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.JSON(http.StatusBadRequest, errorBody{
			Status:  "error",
			Message: "insufficient stock for some products",
			Details: insufficient.Shortfalls,
		})
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, errorBody{Status: "error", Message: err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusNotFound, errorBody{Status: "error", Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody{Status: "error", Message: err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, errorBody{Status: "error", Message: err.Error()})
	case errors.Is(err, service.ErrStockRace):
		// Retryable: the caller may re-issue the checkout on fresh state.
		return c.JSON(http.StatusConflict, errorBody{Status: "error", Message: "a concurrent sale won the race, retry checkout"})
	case errors.Is(err, service.ErrTokenExpiredOrUsed), errors.Is(err, service.ErrSamePassword):
		return c.JSON(http.StatusBadRequest, errorBody{Status: "error", Message: err.Error()})
	case errors.Is(err, service.ErrExternalDependency):
		return c.JSON(http.StatusBadGateway, errorBody{Status: "error", Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorBody{Status: "error", Message: "internal error"})
	}
}
