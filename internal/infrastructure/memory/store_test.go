package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/memory"
)

func TestStore_Run_RollbackEnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pos := entity.NewStockPosition("prod", "wh", 0, 0, time.Now())

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos inventory.Repositories) error {
		require.NoError(t, repos.Positions.Create(ctx, pos))
		_, err := repos.Positions.GetByID(ctx, pos.ID)
		require.NoError(t, err, "la transacción ve sus propias escrituras")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Repositories().Positions.GetByID(ctx, pos.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Run_Commit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pos := entity.NewStockPosition("prod", "wh", 0, 0, time.Now())

	require.NoError(t, store.Run(ctx, func(repos inventory.Repositories) error {
		return repos.Positions.Create(ctx, pos)
	}))

	got, err := store.Repositories().Positions.GetByProductAndWarehouse(ctx, "prod", "wh")
	require.NoError(t, err)
	assert.Equal(t, pos.ID, got.ID)

	dup := entity.NewStockPosition("prod", "wh", 0, 0, time.Now())
	assert.ErrorIs(t, store.Repositories().Positions.Create(ctx, dup), domain.ErrDuplicatePosition)
}

func TestStore_Run_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(inventory.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Products
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "a", CompanyID: "c", SKU: "X"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Product{ID: "b", CompanyID: "c", SKU: "X"}), domain.ErrConflict)
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "c", CompanyID: "otra", SKU: "X"}))

	list, err := repo.ListByCompany(ctx, "c", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByCompanyAndSKU(ctx, "c", "Y")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
