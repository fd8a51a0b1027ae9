package inventory

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Valuacion-api/internal/domain/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

// StockLedger historial de movimientos por posición con contabilidad de remanentes por capa.
// No modifica StockPosition.Quantity: eso lo hace el ValuationEngine en la misma transacción.
type StockLedger struct {
	repo repository.LedgerRepository
	now  func() time.Time
}

// NewStockLedger construye el ledger sobre el repositorio indicado (pool o tx).
func NewStockLedger(repo repository.LedgerRepository) *StockLedger {
	return &StockLedger{repo: repo, now: time.Now}
}

// AppendInbound registra una entrada: abre una capa con RemainingQuantity = quantity.
func (l *StockLedger) AppendInbound(ctx context.Context, position *entity.StockPosition, quantity int64, unitCost decimal.Decimal, ref *entity.Reference, notes string) (*entity.LedgerEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	entry := l.newEntry(position, entity.DirectionIN, quantity, unitCost, ref, notes)
	entry.RemainingQuantity = quantity
	if err := l.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AppendOutbound registra una salida cerrada (RemainingQuantity = 0) al costo ya resuelto
// por el algoritmo de consumo.
func (l *StockLedger) AppendOutbound(ctx context.Context, position *entity.StockPosition, quantity int64, unitCost decimal.Decimal, ref *entity.Reference, notes string) (*entity.LedgerEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	entry := l.newEntry(position, entity.DirectionOUT, quantity, unitCost, ref, notes)
	if err := l.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// OpenInboundEntries capas IN con remanente, más antiguas primero (FIFO) o más nuevas primero (LIFO).
// Secuencia perezosa de un solo uso.
func (l *StockLedger) OpenInboundEntries(ctx context.Context, position *entity.StockPosition, order repository.LayerOrder) iter.Seq2[*entity.LedgerEntry, error] {
	return l.repo.OpenInbound(ctx, position.ID, order)
}

// DecrementRemaining consume amount de la capa y persiste el nuevo remanente.
// Consumir más de lo remanente es un bug del algoritmo: ErrOverConsumption.
func (l *StockLedger) DecrementRemaining(ctx context.Context, entry *entity.LedgerEntry, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidQuantity
	}
	if entry.Direction != entity.DirectionIN || amount > entry.RemainingQuantity {
		return fmt.Errorf("%w: capa %s remanente %d, consumo %d",
			domain.ErrOverConsumption, entry.ID, entry.RemainingQuantity, amount)
	}
	remaining := entry.RemainingQuantity - amount
	if err := l.repo.UpdateRemaining(ctx, entry.ID, remaining); err != nil {
		return err
	}
	entry.RemainingQuantity = remaining
	return nil
}

// History movimientos de la posición, más recientes primero.
func (l *StockLedger) History(ctx context.Context, position *entity.StockPosition, limit, offset int) ([]*entity.LedgerEntry, error) {
	return l.repo.ListByPosition(ctx, position.ID, limit, offset)
}

func (l *StockLedger) newEntry(position *entity.StockPosition, dir entity.Direction, quantity int64, unitCost decimal.Decimal, ref *entity.Reference, notes string) *entity.LedgerEntry {
	cost := unitCost.Round(entity.UnitCostPlaces)
	return &entity.LedgerEntry{
		ID:              uuid.New().String(),
		StockPositionID: position.ID,
		Direction:       dir,
		Quantity:        quantity,
		UnitCost:        cost,
		TotalCost:       domaininv.TotalCost(quantity, cost),
		Reference:       ref,
		Notes:           notes,
		CreatedAt:       l.now(),
	}
}
