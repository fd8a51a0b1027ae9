package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/application/dto"
	"github.com/jhoicas/Valuacion-api/internal/application/usecase"
	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/memory"
)

const (
	companyA = "company-a"
	companyB = "company-b"
)

func TestWarehouseUseCase_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewWarehouseUseCase(store.Repositories().Warehouses)

	wh, err := uc.Create(ctx, companyA, dto.CreateWarehouseRequest{Name: "Central"})
	require.NoError(t, err)
	assert.Equal(t, "FIFO", wh.ValuationMethod, "sin método se usa FIFO")

	wh, err = uc.Create(ctx, companyA, dto.CreateWarehouseRequest{Name: "Norte", ValuationMethod: "lifo"})
	require.NoError(t, err)
	assert.Equal(t, "LIFO", wh.ValuationMethod)

	_, err = uc.Create(ctx, companyA, dto.CreateWarehouseRequest{Name: "Sur", ValuationMethod: "PEPS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, companyA, dto.CreateWarehouseRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(ctx, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, "Norte", got.Name)

	list, err := uc.List(ctx, companyA, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	list, err = uc.List(ctx, companyB, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	uc := usecase.NewProductUseCase(store.Repositories().Products, store.Categories())

	catB, err := categories.Create(ctx, companyB, dto.CreateCategoryRequest{Name: "Otra", Code: "OTR"})
	require.NoError(t, err)

	cost := decimal.NewFromInt(7)
	p, err := uc.Create(ctx, companyA, dto.CreateProductRequest{SKU: "P-1", Name: "Tornillo", Price: decimal.NewFromInt(10), StandardCost: &cost})
	require.NoError(t, err)
	assert.True(t, p.StandardCost.Equal(cost))

	tests := []struct {
		name string
		in   dto.CreateProductRequest
		want error
	}{
		{"SKU duplicado", dto.CreateProductRequest{SKU: "P-1", Name: "Otro"}, domain.ErrConflict},
		{"sin nombre", dto.CreateProductRequest{SKU: "P-2"}, domain.ErrInvalidInput},
		{"precio negativo", dto.CreateProductRequest{SKU: "P-3", Name: "X", Price: decimal.NewFromInt(-1)}, domain.ErrInvalidInput},
		{"categoría inexistente", dto.CreateProductRequest{SKU: "P-4", Name: "X", CategoryID: "missing"}, domain.ErrNotFound},
		{"categoría de otra empresa", dto.CreateProductRequest{SKU: "P-5", Name: "X", CategoryID: catB.ID}, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, companyA, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = uc.Create(ctx, companyB, dto.CreateProductRequest{SKU: "P-1", Name: "Tornillo B"})
	assert.NoError(t, err, "el SKU es único por empresa")
}

func TestCategoryUseCase_Padre(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewCategoryUseCase(store.Categories())

	root, err := uc.Create(ctx, companyA, dto.CreateCategoryRequest{Name: "Herramientas", Code: "HER"})
	require.NoError(t, err)
	child, err := uc.Create(ctx, companyA, dto.CreateCategoryRequest{Name: "Eléctricas", Code: "HER-E", ParentID: root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, child.ParentID)

	_, err = uc.Create(ctx, companyB, dto.CreateCategoryRequest{Name: "X", Code: "X", ParentID: root.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, companyA, dto.CreateCategoryRequest{Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, companyA, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}
