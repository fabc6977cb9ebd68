package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type TicketRepo struct {
	DB *gorm.DB
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TicketRepo) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var t models.Ticket
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("code = ?", code).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket %q: %w", code, service.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) ListByPurchaser(ctx context.Context, email string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("purchaser = ?", email).
		Order("purchase_datetime DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}
