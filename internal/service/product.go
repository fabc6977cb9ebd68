package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/util"
)

type ProductService struct {
	Stores StoreSet
	Events EventPublisher
}

func validateProduct(p *models.Product) error {
	if p.Title == "" {
		return fmt.Errorf("title required: %w", ErrValidation)
	}
	if p.Code == "" {
		return fmt.Errorf("code required: %w", ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	existing, err := s.Stores.Products.GetByCode(ctx, p.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("product code %q already exists: %w", p.Code, ErrConflict)
	}
	if err := s.Stores.Products.Create(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, p.ID, map[string]any{
		"type":      "product_created",
		"productID": p.ID,
		"title":     p.Title,
	})
	return nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.Stores.Products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, page, size int) ([]models.Product, int64, int, error) {
	offset, limit := util.Calculate(page, size)
	items, total, err := s.Stores.Products.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, limit, nil
}

func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if _, err := s.Stores.Products.GetByID(ctx, p.ID); err != nil {
		return err
	}
	if err := s.Stores.Products.Update(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, p.ID, map[string]any{
		"type":      "product_updated",
		"productID": p.ID,
		"title":     p.Title,
	})
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.Stores.Products.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *ProductService) publish(ctx context.Context, productID uint, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, "product_events", fmt.Sprint(productID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", "product_events", "error", err)
	}
}
