package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type CartRepo struct {
	DB *gorm.DB
}

func (r *CartRepo) GetByUserID(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %d: %w", userID, service.ErrNotFound)
		}
		return nil, err
	}
	return &cart, nil
}

// Items returns the lines in insertion order.
func (r *CartRepo) Items(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem merges quantity through an in-place expression update when the
// product already has a line, creating the line otherwise.
func (r *CartRepo) AddItem(ctx context.Context, cartID, productID uint, qty uint) (*models.CartItem, error) {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID uint) error {
	res := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", productID, service.ErrNotFound)
	}
	return nil
}

func (r *CartRepo) ReplaceItems(ctx context.Context, cartID uint, items []models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].CartID = cartID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetItemQuantity updates one line; zero deletes it.
func (r *CartRepo) SetItemQuantity(ctx context.Context, cartID, productID uint, qty uint) error {
	if qty == 0 {
		return r.RemoveItem(ctx, cartID, productID)
	}

	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", productID, service.ErrNotFound)
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, cartID uint) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
