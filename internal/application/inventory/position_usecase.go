package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// StockPositionUseCase alta, consulta, reservas y retiro de posiciones de stock.
// Las mutaciones se hacen con la fila bloqueada, igual que los movimientos.
type StockPositionUseCase struct {
	txRunner TxRunner
	reader   Repositories
	log      *logger.Logger
}

// NewStockPositionUseCase construye el caso de uso.
func NewStockPositionUseCase(txRunner TxRunner, reader Repositories, log *logger.Logger) *StockPositionUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &StockPositionUseCase{txRunner: txRunner, reader: reader, log: log}
}

// CreatePositionInput datos para crear una posición explícitamente.
type CreatePositionInput struct {
	ProductID    string
	WarehouseID  string
	MinimumStock int64
	MaximumStock int64
}

// Create crea una posición vacía. ErrDuplicatePosition si el par producto/bodega ya tiene una;
// el llamador debe buscarla en lugar de crearla.
func (uc *StockPositionUseCase) Create(ctx context.Context, in CreatePositionInput) (*entity.StockPosition, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validThresholds(in.MinimumStock, in.MaximumStock); err != nil {
		return nil, err
	}
	product, err := uc.reader.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	wh, err := uc.reader.Warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if product.CompanyID != wh.CompanyID {
		return nil, domain.ErrForbidden
	}

	pos := entity.NewStockPosition(in.ProductID, in.WarehouseID, in.MinimumStock, in.MaximumStock, time.Now())
	if err := uc.reader.Positions.Create(ctx, pos); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("position_id", pos.ID).
		Str("product_id", pos.ProductID).
		Str("warehouse_id", pos.WarehouseID).
		Msg("posición de stock creada")
	return pos, nil
}

// Get obtiene una posición por ID (incluye retiradas).
func (uc *StockPositionUseCase) Get(ctx context.Context, id string) (*entity.StockPosition, error) {
	return uc.reader.Positions.GetByID(ctx, id)
}

// Find obtiene la posición del par producto/bodega.
func (uc *StockPositionUseCase) Find(ctx context.Context, productID, warehouseID string) (*entity.StockPosition, error) {
	return uc.reader.Positions.GetByProductAndWarehouse(ctx, productID, warehouseID)
}

// Reserve intenta reservar quantity. Devuelve false sin cambios si no hay disponible suficiente.
func (uc *StockPositionUseCase) Reserve(ctx context.Context, positionID string, quantity int64) (bool, *entity.StockPosition, error) {
	if quantity <= 0 {
		return false, nil, domain.ErrInvalidQuantity
	}
	var (
		ok  bool
		pos *entity.StockPosition
	)
	err := uc.mutate(ctx, positionID, func(p *entity.StockPosition) bool {
		pos = p
		ok = p.Reserve(quantity)
		return ok
	})
	if err != nil {
		return false, nil, err
	}
	return ok, pos, nil
}

// Release libera hasta quantity de la reserva (se limita a lo reservado).
func (uc *StockPositionUseCase) Release(ctx context.Context, positionID string, quantity int64) (*entity.StockPosition, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var pos *entity.StockPosition
	err := uc.mutate(ctx, positionID, func(p *entity.StockPosition) bool {
		pos = p
		p.Release(quantity)
		return true
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// UpdateThresholds cambia mínimo y máximo de la posición (máximo 0 = sin límite).
func (uc *StockPositionUseCase) UpdateThresholds(ctx context.Context, positionID string, minimum, maximum int64) (*entity.StockPosition, error) {
	if err := validThresholds(minimum, maximum); err != nil {
		return nil, err
	}
	var pos *entity.StockPosition
	err := uc.mutate(ctx, positionID, func(p *entity.StockPosition) bool {
		pos = p
		p.MinimumStock = minimum
		p.MaximumStock = maximum
		return true
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// Remove retira lógicamente la posición. Solo se permite sin stock ni reservas;
// el ledger queda intacto y sigue referenciando la posición.
func (uc *StockPositionUseCase) Remove(ctx context.Context, positionID string) error {
	var conflict bool
	err := uc.mutate(ctx, positionID, func(p *entity.StockPosition) bool {
		if p.Quantity != 0 || p.ReservedQuantity != 0 {
			conflict = true
			return false
		}
		now := time.Now()
		p.DeletedAt = &now
		return true
	})
	if err != nil {
		return err
	}
	if conflict {
		return domain.ErrConflict
	}
	return nil
}

// History movimientos de la posición, más recientes primero.
func (uc *StockPositionUseCase) History(ctx context.Context, positionID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	pos, err := uc.reader.Positions.GetByID(ctx, positionID)
	if err != nil {
		return nil, err
	}
	return NewStockLedger(uc.reader.Ledger).History(ctx, pos, limit, offset)
}

// mutate bloquea la posición, aplica fn y persiste solo si fn devuelve true.
func (uc *StockPositionUseCase) mutate(ctx context.Context, positionID string, fn func(p *entity.StockPosition) bool) error {
	return uc.txRunner.Run(ctx, func(repos Repositories) error {
		pos, err := repos.Positions.GetForUpdate(ctx, positionID)
		if err != nil {
			return err
		}
		if pos.IsRemoved() {
			return domain.ErrNotFound
		}
		if !fn(pos) {
			return nil
		}
		pos.UpdatedAt = time.Now()
		return repos.Positions.Update(ctx, pos)
	})
}

func validThresholds(minimum, maximum int64) error {
	if minimum < 0 || maximum < 0 || (maximum > 0 && maximum < minimum) {
		return errors.Join(domain.ErrInvalidInput, errors.New("umbrales de stock inválidos"))
	}
	return nil
}
