package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

const positionColumns = `id, product_id, warehouse_id, quantity, reserved_quantity, minimum_stock, maximum_stock,
		unit_cost, total_value, created_at, updated_at, deleted_at`

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

// Create inserta la posición; el par (product_id, warehouse_id) es único.
func (r *StockPositionRepo) Create(ctx context.Context, p *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ProductID, p.WarehouseID, p.Quantity, p.ReservedQuantity, p.MinimumStock, p.MaximumStock,
		p.UnitCost, p.TotalValue, p.CreatedAt, p.UpdatedAt, p.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePosition
		}
		return fmt.Errorf("insert stock position: %w", err)
	}
	return nil
}

// GetByID obtiene una posición por ID.
func (r *StockPositionRepo) GetByID(ctx context.Context, id string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE id = $1`
	p, err := scanPosition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock position: %w", notFound(err))
	}
	return p, nil
}

// GetByProductAndWarehouse obtiene la posición del par producto/bodega.
func (r *StockPositionRepo) GetByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2`
	p, err := scanPosition(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock position by pair: %w", notFound(err))
	}
	return p, nil
}

// GetForUpdate obtiene la posición y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockPositionRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE id = $1 FOR UPDATE`
	p, err := scanPosition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock position for update: %w", notFound(err))
	}
	return p, nil
}

// GetOrCreateForUpdate inserta la posición si el par no existe (ON CONFLICT DO NOTHING)
// y luego la bloquea. Dos primeras entradas concurrentes terminan sobre la misma fila.
func (r *StockPositionRepo) GetOrCreateForUpdate(ctx context.Context, seed *entity.StockPosition) (*entity.StockPosition, error) {
	insert := `
		INSERT INTO stock_positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(ctx, insert,
		seed.ID, seed.ProductID, seed.WarehouseID, seed.Quantity, seed.ReservedQuantity, seed.MinimumStock, seed.MaximumStock,
		seed.UnitCost, seed.TotalValue, seed.CreatedAt, seed.UpdatedAt, seed.DeletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock position: %w", err)
	}
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	p, err := scanPosition(r.q.QueryRow(ctx, query, seed.ProductID, seed.WarehouseID))
	if err != nil {
		return nil, fmt.Errorf("lock stock position: %w", notFound(err))
	}
	return p, nil
}

// Update persiste cantidades, reserva, umbrales, valuación cacheada y retiro lógico.
func (r *StockPositionRepo) Update(ctx context.Context, p *entity.StockPosition) error {
	query := `
		UPDATE stock_positions
		SET quantity = $2, reserved_quantity = $3, minimum_stock = $4, maximum_stock = $5,
		    unit_cost = $6, total_value = $7, updated_at = $8, deleted_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Quantity, p.ReservedQuantity, p.MinimumStock, p.MaximumStock,
		p.UnitCost, p.TotalValue, p.UpdatedAt, p.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse posiciones activas de una bodega.
func (r *StockPositionRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions
		WHERE warehouse_id = $1 AND deleted_at IS NULL ORDER BY created_at, id`
	return r.list(ctx, query, warehouseID)
}

// ListByProduct posiciones activas de un producto en todas las bodegas.
func (r *StockPositionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions
		WHERE product_id = $1 AND deleted_at IS NULL ORDER BY created_at, id`
	return r.list(ctx, query, productID)
}

func (r *StockPositionRepo) list(ctx context.Context, query string, arg string) ([]*entity.StockPosition, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPosition(row pgx.Row) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := row.Scan(
		&p.ID, &p.ProductID, &p.WarehouseID, &p.Quantity, &p.ReservedQuantity, &p.MinimumStock, &p.MaximumStock,
		&p.UnitCost, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
