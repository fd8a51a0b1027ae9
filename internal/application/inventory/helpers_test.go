package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/memory"
)

const companyID = "company-1"

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.StockThresholdEvent
	err    error
}

func (p *recordingPublisher) PublishStockThreshold(_ context.Context, ev inventory.StockThresholdEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []inventory.StockThresholdEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]inventory.StockThresholdEvent(nil), p.events...)
}

// recordingMetrics cuenta movimientos aceptados y rechazados.
type recordingMetrics struct {
	mu       sync.Mutex
	recorded int
	rejected map[string]int
}

func (m *recordingMetrics) MovementRecorded(entity.ValuationMethod, entity.Direction, int64, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded++
}

func (m *recordingMetrics) MovementRejected(_ entity.Direction, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[reason]++
}

type fixture struct {
	store     *memory.Store
	repos     inventory.Repositories
	engine    *inventory.ValuationEngine
	positions *inventory.StockPositionUseCase
	reports   *inventory.ReportingUseCase
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	pub := &recordingPublisher{}
	met := &recordingMetrics{}
	engine := inventory.NewValuationEngine(store, repos, pub, met, nil)
	return &fixture{
		store:     store,
		repos:     repos,
		engine:    engine,
		positions: inventory.NewStockPositionUseCase(store, repos, nil),
		reports:   inventory.NewReportingUseCase(engine, repos, store.Categories()),
		publisher: pub,
		metrics:   met,
	}
}

func (f *fixture) warehouse(t *testing.T, id string, method entity.ValuationMethod) *entity.Warehouse {
	t.Helper()
	return f.warehouseOf(t, companyID, id, method)
}

func (f *fixture) warehouseOf(t *testing.T, company, id string, method entity.ValuationMethod) *entity.Warehouse {
	t.Helper()
	now := time.Now()
	wh := &entity.Warehouse{ID: id, CompanyID: company, Name: id, ValuationMethod: method, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Warehouses.Create(context.Background(), wh))
	return wh
}

func (f *fixture) product(t *testing.T, id, categoryID string, standardCost *decimal.Decimal) *entity.Product {
	t.Helper()
	return f.productOf(t, companyID, id, categoryID, standardCost)
}

func (f *fixture) productOf(t *testing.T, company, id, categoryID string, standardCost *decimal.Decimal) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: id, CompanyID: company, CategoryID: categoryID, SKU: "SKU-" + id, Name: id,
		Price: decimal.NewFromInt(20), StandardCost: standardCost, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p
}

func (f *fixture) stockIn(t *testing.T, productID, warehouseID string, qty int64, cost string) *entity.LedgerEntry {
	t.Helper()
	entry, err := f.engine.RecordStockIn(context.Background(), inventory.StockInInput{
		CompanyID:   companyID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UnitCost:    decimal.RequireFromString(cost),
	})
	require.NoError(t, err)
	return entry
}

func (f *fixture) position(t *testing.T, productID, warehouseID string) *entity.StockPosition {
	t.Helper()
	pos, err := f.positions.Find(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return pos
}

// openRemaining Σ remanente de las capas IN abiertas de la posición.
func (f *fixture) openRemaining(t *testing.T, positionID string) int64 {
	t.Helper()
	var total int64
	for e, err := range f.repos.Ledger.OpenInbound(context.Background(), positionID, repository.OldestFirst) {
		require.NoError(t, err)
		total += e.RemainingQuantity
	}
	return total
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
