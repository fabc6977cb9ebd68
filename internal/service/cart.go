package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
)

type CartLine struct {
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  uint    `json:"quantity"`
}

type CartView struct {
	CartID     uint       `json:"cart_id"`
	Items      []CartLine `json:"items"`
	Total      float64    `json:"total"`
	TotalItems uint       `json:"total_items"`
}

type LineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CartService struct {
	Stores StoreSet
	Events EventPublisher
}

func (s *CartService) cartFor(ctx context.Context, userID uint) (*models.Cart, error) {
	return s.Stores.Carts.GetByUserID(ctx, userID)
}

// Get returns the cart with a priced summary of its lines.
func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.Stores.Carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{CartID: cart.ID, Items: make([]CartLine, 0, len(items))}
	for _, it := range items {
		p, err := s.Stores.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		view.Items = append(view.Items, CartLine{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
		})
		view.Total += float64(it.Quantity) * p.Price
		view.TotalItems += it.Quantity
	}
	return view, nil
}

// AddItem merges quantity when the product is already in the cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, qty uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}
	if qty == 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Stores.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	item, err := s.Stores.Carts.AddItem(ctx, cart.ID, productID, qty)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Stores.Carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

// ReplaceItems swaps the whole line list. Every line must reference an
// existing product and carry a positive quantity, otherwise nothing changes.
func (s *CartService) ReplaceItems(ctx context.Context, userID uint, lines []LineInput) error {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return err
	}

	items := make([]models.CartItem, 0, len(lines))
	for i, line := range lines {
		if line.ProductID == 0 {
			return fmt.Errorf("item %d: product_id required: %w", i, ErrValidation)
		}
		if line.Quantity == 0 {
			return fmt.Errorf("item %d: quantity must be more than zero: %w", i, ErrValidation)
		}
		if _, err := s.Stores.Products.GetByID(ctx, line.ProductID); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, models.CartItem{
			CartID:    cart.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	if err := s.Stores.Carts.ReplaceItems(ctx, cart.ID, items); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "cart_replaced",
		"userID": userID,
		"items":  len(items),
	})
	return nil
}

// SetQuantity updates a single line. Zero removes the line instead of
// keeping an empty row.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uint, qty uint) error {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Stores.Carts.SetItemQuantity(ctx, cart.ID, productID, qty); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_quantity_set",
		"userID":    userID,
		"productID": productID,
		"quantity":  qty,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Stores.Carts.Clear(ctx, cart.ID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}

func (s *CartService) publish(ctx context.Context, userID uint, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, "cart_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", "cart_events", "error", err)
	}
}
