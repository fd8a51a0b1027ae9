package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

// LayerOrder orden de recorrido de las capas abiertas.
type LayerOrder string

const (
	OldestFirst LayerOrder = "OLDEST_FIRST" // FIFO
	NewestFirst LayerOrder = "NEWEST_FIRST" // LIFO
)

// LedgerRepository define el puerto de persistencia del ledger de stock (stock_transactions).
type LedgerRepository interface {
	// Create inserta la entrada y asigna ID, Sequence y CreatedAt si vienen vacíos.
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// OpenInbound recorre de forma perezosa las entradas IN con remanente > 0 de la posición.
	// La secuencia es de un solo uso; invocar de nuevo para volver a consultar.
	OpenInbound(ctx context.Context, positionID string, order LayerOrder) iter.Seq2[*entity.LedgerEntry, error]
	UpdateRemaining(ctx context.Context, entryID string, remaining int64) error
	// ListByPosition historial de la posición, más recientes primero.
	ListByPosition(ctx context.Context, positionID string, limit, offset int) ([]*entity.LedgerEntry, error)
}
