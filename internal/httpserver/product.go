package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
	"github.com/ncastellano/ecommerce_backend/internal/util"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

type productRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Stock       uint     `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	items, total, limit, err := h.Svc.List(ctx, page, size)
	if err != nil {
		return respondError(c, err)
	}

	offset, _ := util.Calculate(page, size)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnails:  req.Thumbnails,
	}
	if err := h.Svc.Create(ctx, &product); err != nil {
		l.Warn("create_product_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.patch")

	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product := models.Product{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnails:  req.Thumbnails,
	}
	if err := h.Svc.Update(ctx, &product); err != nil {
		l.Warn("patch_product_error", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.delete")

	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_product_error", "error", err)
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
