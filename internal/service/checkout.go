package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
)

// Receipt summarizes a completed purchase for the caller.
type Receipt struct {
	Code             string              `json:"code"`
	PurchaseDatetime time.Time           `json:"purchase_datetime"`
	Amount           float64             `json:"amount"`
	Purchaser        string              `json:"purchaser"`
	Items            []models.TicketItem `json:"items"`
	Status           string              `json:"status"`
}

type CheckoutService struct {
	Stores StoreSet
	Tx     TxRunner
	Events EventPublisher
}

// Checkout turns the user's cart into a Ticket. The cart lines are
// snapshotted once up front; stock validation, the frozen total and the
// ticket snapshot are computed from that snapshot only. Stock decrement,
// ticket persistence and cart clear run in one transaction, so a failure
// at any point leaves the system as if the purchase never happened.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (*Receipt, error) {
	l := logging.FromContext(ctx).With("service", "checkout", "user_id", userID)

	user, err := s.Stores.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.Stores.Carts.Items(ctx, user.CartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	ticketItems, amount, shortfalls, err := s.validateStock(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		l.Warn("checkout_insufficient_stock", "shortfalls", len(shortfalls))
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	ticket := &models.Ticket{
		Code:             newTicketCode(),
		PurchaseDatetime: time.Now().UTC(),
		Amount:           amount,
		Purchaser:        user.Email,
		Status:           models.TicketStatusCompleted,
		Items:            ticketItems,
	}

	txErr := s.Tx.WithinTx(ctx, func(tx StoreSet) error {
		for _, it := range items {
			if err := tx.Products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, ErrStockRace) {
					return fmt.Errorf("product %d: %w", it.ProductID, ErrStockRace)
				}
				return err
			}
		}
		if err := tx.Tickets.Create(ctx, ticket); err != nil {
			return fmt.Errorf("persist ticket after decrement: %v: %w", err, ErrInconsistentState)
		}
		if err := tx.Carts.Clear(ctx, user.CartID); err != nil {
			return fmt.Errorf("clear cart after decrement: %v: %w", err, ErrInconsistentState)
		}
		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrStockRace):
			l.Warn("checkout_race_lost", "error", txErr)
		case errors.Is(txErr, ErrInconsistentState):
			// The rollback restored stock; still loud, operators must know a
			// decremented checkout could not commit its ticket.
			l.Error("checkout_inconsistent", "ticket_code", ticket.Code, "error", txErr)
		default:
			l.Error("checkout_failed", "error", txErr)
		}
		return nil, txErr
	}

	s.publish(ctx, "ticket_events", fmt.Sprint(userID), map[string]any{
		"type":      "ticket_created",
		"userID":    userID,
		"code":      ticket.Code,
		"amount":    ticket.Amount,
		"purchaser": ticket.Purchaser,
	})

	l.Info("checkout_completed", "code", ticket.Code, "amount", ticket.Amount)
	return &Receipt{
		Code:             ticket.Code,
		PurchaseDatetime: ticket.PurchaseDatetime,
		Amount:           ticket.Amount,
		Purchaser:        ticket.Purchaser,
		Items:            ticket.Items,
		Status:           ticket.Status,
	}, nil
}

// validateStock checks every snapshot line against current stock and freezes
// unit prices. It has no side effects; the commit-time guarantee is the
// conditional decrement, this pass only produces early, detailed failures.
func (s *CheckoutService) validateStock(ctx context.Context, items []models.CartItem) ([]models.TicketItem, float64, []StockShortfall, error) {
	var (
		ticketItems []models.TicketItem
		amount      float64
		shortfalls  []StockShortfall
	)

	for _, it := range items {
		p, err := s.Stores.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				shortfalls = append(shortfalls, StockShortfall{
					ProductID: it.ProductID,
					Title:     "product not found",
					Requested: it.Quantity,
					Available: 0,
				})
				continue
			}
			return nil, 0, nil, err
		}
		if p.Stock < it.Quantity {
			shortfalls = append(shortfalls, StockShortfall{
				ProductID: p.ID,
				Title:     p.Title,
				Requested: it.Quantity,
				Available: p.Stock,
			})
			continue
		}
		amount += float64(it.Quantity) * p.Price
		ticketItems = append(ticketItems, models.TicketItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
	}

	return ticketItems, amount, shortfalls, nil
}

func (s *CheckoutService) TicketByCode(ctx context.Context, code, purchaser string) (*models.Ticket, error) {
	t, err := s.Stores.Tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if t.Purchaser != purchaser {
		return nil, fmt.Errorf("ticket %s: %w", code, ErrForbidden)
	}
	return t, nil
}

func (s *CheckoutService) TicketsByPurchaser(ctx context.Context, purchaser string) ([]models.Ticket, error) {
	return s.Stores.Tickets.ListByPurchaser(ctx, purchaser)
}

func (s *CheckoutService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", topic, "error", err)
	}
}

// newTicketCode keeps the legacy human-readable format: a TICKET prefix, the
// last six digits of the unix-millisecond clock and a random suffix. The
// unique index on tickets.code is the real uniqueness guarantee.
func newTicketCode() string {
	ts := time.Now().UnixMilli() % 1_000_000
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TICKET%06d%s", ts, suffix)
}
