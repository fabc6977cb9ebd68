package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ncastellano/ecommerce_backend/internal/config"
	"github.com/ncastellano/ecommerce_backend/internal/hash"
	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/repo"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type testEnv struct {
	DB     *gorm.DB
	Stores service.StoreSet
	Tx     *repo.Gorm
	Events *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	g := repo.New(db)
	return &testEnv{
		DB:     db,
		Stores: g.Set(),
		Tx:     g,
		Events: &fakePublisher{},
	}
}

func (env *testEnv) checkout() *service.CheckoutService {
	return &service.CheckoutService{Stores: env.Stores, Tx: env.Tx, Events: env.Events}
}

func (env *testEnv) cart() *service.CartService {
	return &service.CartService{Stores: env.Stores, Events: env.Events}
}

func (env *testEnv) createUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	require.NoError(t, env.Stores.Users.Create(context.Background(), &u))
	return &u
}

func (env *testEnv) createProduct(t *testing.T, code string, price float64, stock uint) *models.Product {
	t.Helper()

	p := models.Product{
		Title:       "product " + code,
		Description: "test product",
		Code:        code,
		Price:       price,
		Stock:       stock,
	}
	require.NoError(t, env.Stores.Products.Create(context.Background(), &p))
	return &p
}

func (env *testEnv) addToCart(t *testing.T, cartID, productID uint, qty uint) {
	t.Helper()

	_, err := env.Stores.Carts.AddItem(context.Background(), cartID, productID, qty)
	require.NoError(t, err)
}

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, event map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event["type"] == eventType {
			out = append(out, e)
		}
	}
	return out
}
