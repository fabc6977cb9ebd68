package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/service"
)

// Gorm bundles the gorm-backed store implementations behind the service
// ports and runs multi-store transactions.
type Gorm struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Gorm {
	return &Gorm{DB: db}
}

func (g *Gorm) Set() service.StoreSet {
	return service.StoreSet{
		Products: &ProductRepo{DB: g.DB},
		Carts:    &CartRepo{DB: g.DB},
		Tickets:  &TicketRepo{DB: g.DB},
		Users:    &UserRepo{DB: g.DB},
		Tokens:   &RecoveryTokenRepo{DB: g.DB},
	}
}

func (g *Gorm) WithinTx(ctx context.Context, fn func(s service.StoreSet) error) error {
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx).Set())
	})
}
