package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type ProductRepo struct {
	DB *gorm.DB
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, service.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", code, service.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, service.ErrNotFound)
	}
	return nil
}

// DecrementStock subtracts qty in a single conditional update. The WHERE
// guard makes check and write one statement, so two concurrent checkouts
// can never jointly drive stock negative: the loser's update affects zero
// rows and is reported as a lost race.
func (r *ProductRepo) DecrementStock(ctx context.Context, id uint, qty uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrStockRace
	}
	return nil
}

func (r *ProductRepo) IncrementStock(ctx context.Context, id uint, qty uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, service.ErrNotFound)
	}
	return nil
}
