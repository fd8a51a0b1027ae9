package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store persistencia en memoria para desarrollo y pruebas.
// Las transacciones se serializan con txMu y trabajan sobre una copia del estado que se
// publica solo en el commit: un error en fn deja el estado intacto y los lectores nunca
// ven escrituras a medio hacer.
type Store struct {
	txMu    sync.Mutex   // serializa escritores (equivale al bloqueo de fila, pero global)
	mu      sync.RWMutex // protege current
	current *state
}

type state struct {
	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product
	categories map[string]entity.Category
	positions  map[string]entity.StockPosition
	ledger     []entity.LedgerEntry // orden de inserción
	ledgerIdx  map[string]int
	seq        int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{current: &state{
		warehouses: map[string]entity.Warehouse{},
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		positions:  map[string]entity.StockPosition{},
		ledgerIdx:  map[string]int{},
	}}
}

func (s *state) clone() *state {
	return &state{
		warehouses: maps.Clone(s.warehouses),
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		positions:  maps.Clone(s.positions),
		ledger:     slices.Clone(s.ledger),
		ledgerIdx:  maps.Clone(s.ledgerIdx),
		seq:        s.seq,
	}
}

// view acceso al estado: el publicado (con locks) o la copia de una transacción en curso.
type view interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// committed vista sobre el estado publicado. Las escrituras fuera de transacción
// también toman txMu para no pisarse con un commit concurrente.
type committed struct{ s *Store }

func (c committed) read(fn func(st *state) error) error {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return fn(c.s.current)
}

func (c committed) write(fn func(st *state) error) error {
	c.s.txMu.Lock()
	defer c.s.txMu.Unlock()
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return fn(c.s.current)
}

// working vista sobre la copia de una transacción (un solo goroutine a la vez).
type working struct{ st *state }

func (w working) read(fn func(st *state) error) error  { return fn(w.st) }
func (w working) write(fn func(st *state) error) error { return fn(w.st) }

// Repositories repositorios sobre el estado publicado (lecturas sin bloqueo de fila).
func (s *Store) Repositories() inventory.Repositories {
	return repositoriesFor(committed{s})
}

// Categories repositorio de categorías sobre el estado publicado.
func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{v: committed{s}}
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	draft := s.current.clone()
	s.mu.RUnlock()

	if err := fn(repositoriesFor(working{draft})); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = draft
	s.mu.Unlock()
	return nil
}

func repositoriesFor(v view) inventory.Repositories {
	return inventory.Repositories{
		Positions:  &StockPositionRepo{v: v},
		Ledger:     &LedgerRepo{v: v},
		Warehouses: &WarehouseRepo{v: v},
		Products:   &ProductRepo{v: v},
	}
}
