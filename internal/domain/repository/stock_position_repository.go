package repository

import (
	"context"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

// StockPositionRepository define el puerto de persistencia para posiciones de stock (DIP).
// Las posiciones retiradas (DeletedAt != nil) no aparecen en los listados.
type StockPositionRepository interface {
	// Create inserta la posición; domain.ErrDuplicatePosition si el par producto/bodega ya existe.
	Create(ctx context.Context, position *entity.StockPosition) error
	GetByID(ctx context.Context, id string) (*entity.StockPosition, error)
	GetByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockPosition, error)
	// GetForUpdate obtiene la posición y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockPosition, error)
	// GetOrCreateForUpdate devuelve la posición del par (creándola con los datos de seed si no existe)
	// con la fila bloqueada.
	GetOrCreateForUpdate(ctx context.Context, seed *entity.StockPosition) (*entity.StockPosition, error)
	Update(ctx context.Context, position *entity.StockPosition) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockPosition, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockPosition, error)
}
