package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellano/ecommerce_backend/internal/service"
)

func TestCartAddItemMergesQuantity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart1@example.com", "secret")
	p := env.createProduct(t, "C-1", 12.00, 50)

	item, err := svc.AddItem(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)

	item, err = svc.AddItem(ctx, user.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(5), item.Quantity)

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(5), view.TotalItems)
	assert.Equal(t, 60.00, view.Total)
}

func TestCartAddItemValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart2@example.com", "secret")
	p := env.createProduct(t, "C-2", 5.00, 10)

	tests := []struct {
		name      string
		productID uint
		qty       uint
		wantErr   error
	}{
		{name: "zero quantity", productID: p.ID, qty: 0, wantErr: service.ErrValidation},
		{name: "zero product", productID: 0, qty: 1, wantErr: service.ErrValidation},
		{name: "unknown product", productID: 9999, qty: 1, wantErr: service.ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, user.ID, tt.productID, tt.qty)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCartReplaceItems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart3@example.com", "secret")
	a := env.createProduct(t, "C-3A", 1.00, 10)
	b := env.createProduct(t, "C-3B", 2.00, 10)

	_, err := svc.AddItem(ctx, user.ID, a.ID, 7)
	require.NoError(t, err)

	err = svc.ReplaceItems(ctx, user.ID, []service.LineInput{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 4},
	})
	require.NoError(t, err)

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, uint(1), view.Items[0].Quantity)
	assert.Equal(t, uint(4), view.Items[1].Quantity)
}

func TestCartReplaceItemsRejectsUnknownProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart4@example.com", "secret")
	a := env.createProduct(t, "C-4", 1.00, 10)

	_, err := svc.AddItem(ctx, user.ID, a.ID, 2)
	require.NoError(t, err)

	err = svc.ReplaceItems(ctx, user.ID, []service.LineInput{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// the cart keeps its previous lines on a rejected replace
	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(2), view.Items[0].Quantity)
}

func TestCartReplaceItemsRejectsZeroQuantity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart5@example.com", "secret")
	a := env.createProduct(t, "C-5", 1.00, 10)

	err := svc.ReplaceItems(ctx, user.ID, []service.LineInput{
		{ProductID: a.ID, Quantity: 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCartSetQuantity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart6@example.com", "secret")
	p := env.createProduct(t, "C-6", 3.00, 10)

	_, err := svc.AddItem(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(ctx, user.ID, p.ID, 6))

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(6), view.Items[0].Quantity)

	// zero removes the line instead of keeping an empty row
	require.NoError(t, svc.SetQuantity(ctx, user.ID, p.ID, 0))

	view, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 0)
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := env.cart()
	ctx := context.Background()

	user := env.createUser(t, "cart7@example.com", "secret")
	a := env.createProduct(t, "C-7A", 1.00, 10)
	b := env.createProduct(t, "C-7B", 2.00, 10)

	_, err := svc.AddItem(ctx, user.ID, a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, b.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, user.ID))

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 0)
	assert.Zero(t, view.Total)
}
