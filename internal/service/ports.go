package service

import (
	"context"

	"github.com/ncastellano/ecommerce_backend/internal/models"
)

// ProductStore is the product seam the services depend on. DecrementStock is
// the atomic conditional update checkout relies on: it must subtract qty in a
// single statement guarded by `stock >= qty` and report ErrStockRace when the
// guard rejects the update.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	List(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	DecrementStock(ctx context.Context, id uint, qty uint) error
	IncrementStock(ctx context.Context, id uint, qty uint) error
}

type CartStore interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Cart, error)
	Items(ctx context.Context, cartID uint) ([]models.CartItem, error)
	AddItem(ctx context.Context, cartID, productID uint, qty uint) (*models.CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID uint) error
	ReplaceItems(ctx context.Context, cartID uint, items []models.CartItem) error
	SetItemQuantity(ctx context.Context, cartID, productID uint, qty uint) error
	Clear(ctx context.Context, cartID uint) error
}

type TicketStore interface {
	Create(ctx context.Context, t *models.Ticket) error
	GetByCode(ctx context.Context, code string) (*models.Ticket, error)
	ListByPurchaser(ctx context.Context, email string) ([]models.Ticket, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type RecoveryTokenStore interface {
	// Issue removes every prior token of the owning user and creates the new
	// one in the same transaction, so at most one valid token exists per user.
	Issue(ctx context.Context, t *models.RecoveryToken) error
	GetByToken(ctx context.Context, token string) (*models.RecoveryToken, error)
	MarkUsed(ctx context.Context, id uint) error
}

type StoreSet struct {
	Products ProductStore
	Carts    CartStore
	Tickets  TicketStore
	Users    UserStore
	Tokens   RecoveryTokenStore
}

// TxRunner executes fn against a store set bound to a single database
// transaction. An error from fn rolls the whole transaction back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(s StoreSet) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]any) error
}
