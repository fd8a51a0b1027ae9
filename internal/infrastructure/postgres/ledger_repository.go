package postgres

import (
	"context"
	"fmt"
	"iter"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, seq, stock_position_id, type, quantity, unit_cost, total_cost,
		remaining_quantity, reference_type, reference_id, notes, created_at`

// LedgerRepo implementación del ledger (stock_transactions) sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta la entrada; seq (bigserial) la asigna la BD y define el orden FIFO/LIFO.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_transactions (id, stock_position_id, type, quantity, unit_cost, total_cost,
			remaining_quantity, reference_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	var refType, refID *string
	if e.Reference != nil {
		refType, refID = nullString(e.Reference.Type), nullString(e.Reference.ID)
	}
	err := r.q.QueryRow(ctx, query,
		e.ID, e.StockPositionID, string(e.Direction), e.Quantity, e.UnitCost, e.TotalCost,
		e.RemainingQuantity, refType, refID, nullString(e.Notes), e.CreatedAt,
	).Scan(&e.Sequence)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// OpenInbound recorre las capas IN abiertas mientras el consumidor pida más; al cortar
// la iteración se cierran las filas y la conexión queda libre para el resto de la tx.
func (r *LedgerRepo) OpenInbound(ctx context.Context, positionID string, order repository.LayerOrder) iter.Seq2[*entity.LedgerEntry, error] {
	direction := "ASC"
	if order == repository.NewestFirst {
		direction = "DESC"
	}
	query := `SELECT ` + ledgerColumns + ` FROM stock_transactions
		WHERE stock_position_id = $1 AND type = 'IN' AND remaining_quantity > 0
		ORDER BY seq ` + direction

	return func(yield func(*entity.LedgerEntry, error) bool) {
		rows, err := r.q.Query(ctx, query, positionID)
		if err != nil {
			yield(nil, fmt.Errorf("open inbound entries: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanLedgerEntry(rows)
			if err != nil {
				yield(nil, fmt.Errorf("scan stock transaction: %w", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("open inbound entries: %w", err))
		}
	}
}

// UpdateRemaining persiste el remanente de una capa IN. El CHECK de la tabla impide valores fuera de [0, quantity].
func (r *LedgerRepo) UpdateRemaining(ctx context.Context, entryID string, remaining int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_transactions SET remaining_quantity = $2 WHERE id = $1 AND type = 'IN'`,
		entryID, remaining)
	if err != nil {
		return fmt.Errorf("update remaining quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByPosition historial paginado, más recientes primero.
func (r *LedgerRepo) ListByPosition(ctx context.Context, positionID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_transactions
		WHERE stock_position_id = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, positionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var (
		e              entity.LedgerEntry
		dir            string
		refType, refID *string
		notes          *string
	)
	err := row.Scan(
		&e.ID, &e.Sequence, &e.StockPositionID, &dir, &e.Quantity, &e.UnitCost, &e.TotalCost,
		&e.RemainingQuantity, &refType, &refID, &notes, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Direction = entity.Direction(dir)
	e.Notes = derefString(notes)
	if refType != nil || refID != nil {
		e.Reference = &entity.Reference{Type: derefString(refType), ID: derefString(refID)}
	}
	return &e, nil
}
