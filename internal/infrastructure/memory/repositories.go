package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

var (
	_ repository.StockPositionRepository = (*StockPositionRepo)(nil)
	_ repository.LedgerRepository        = (*LedgerRepo)(nil)
	_ repository.WarehouseRepository     = (*WarehouseRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
)

// StockPositionRepo posiciones en memoria.
type StockPositionRepo struct{ v view }

func (r *StockPositionRepo) Create(_ context.Context, p *entity.StockPosition) error {
	return r.v.write(func(st *state) error {
		if _, ok := findPosition(st, p.ProductID, p.WarehouseID); ok {
			return domain.ErrDuplicatePosition
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		st.positions[p.ID] = *p
		return nil
	})
}

func (r *StockPositionRepo) GetByID(_ context.Context, id string) (*entity.StockPosition, error) {
	var out *entity.StockPosition
	err := r.v.read(func(st *state) error {
		p, ok := st.positions[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *StockPositionRepo) GetByProductAndWarehouse(_ context.Context, productID, warehouseID string) (*entity.StockPosition, error) {
	var out *entity.StockPosition
	err := r.v.read(func(st *state) error {
		p, ok := findPosition(st, productID, warehouseID)
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el bloqueo lo da la serialización de Store.Run.
func (r *StockPositionRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockPosition, error) {
	return r.GetByID(ctx, id)
}

func (r *StockPositionRepo) GetOrCreateForUpdate(_ context.Context, seed *entity.StockPosition) (*entity.StockPosition, error) {
	var out *entity.StockPosition
	err := r.v.write(func(st *state) error {
		if p, ok := findPosition(st, seed.ProductID, seed.WarehouseID); ok {
			out = &p
			return nil
		}
		p := *seed
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		st.positions[p.ID] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *StockPositionRepo) Update(_ context.Context, p *entity.StockPosition) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.positions[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.positions[p.ID] = *p
		return nil
	})
}

func (r *StockPositionRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.StockPosition, error) {
	return r.list(func(p entity.StockPosition) bool { return p.WarehouseID == warehouseID })
}

func (r *StockPositionRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockPosition, error) {
	return r.list(func(p entity.StockPosition) bool { return p.ProductID == productID })
}

func (r *StockPositionRepo) list(match func(entity.StockPosition) bool) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	err := r.v.read(func(st *state) error {
		for _, p := range st.positions {
			if p.DeletedAt == nil && match(p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.StockPosition) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

func findPosition(st *state, productID, warehouseID string) (entity.StockPosition, bool) {
	for _, p := range st.positions {
		if p.ProductID == productID && p.WarehouseID == warehouseID {
			return p, true
		}
	}
	return entity.StockPosition{}, false
}

// LedgerRepo ledger en memoria; Sequence es un contador monótono.
type LedgerRepo struct{ v view }

func (r *LedgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	return r.v.write(func(st *state) error {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		st.seq++
		e.Sequence = st.seq
		st.ledgerIdx[e.ID] = len(st.ledger)
		st.ledger = append(st.ledger, *e)
		return nil
	})
}

// OpenInbound toma una foto de las capas abiertas al empezar a iterar y las entrega una a una.
func (r *LedgerRepo) OpenInbound(_ context.Context, positionID string, order repository.LayerOrder) iter.Seq2[*entity.LedgerEntry, error] {
	return func(yield func(*entity.LedgerEntry, error) bool) {
		var open []entity.LedgerEntry
		_ = r.v.read(func(st *state) error {
			for _, e := range st.ledger {
				if e.StockPositionID == positionID && e.IsOpen() {
					open = append(open, e)
				}
			}
			return nil
		})
		if order == repository.NewestFirst {
			slices.Reverse(open)
		}
		for i := range open {
			if !yield(&open[i], nil) {
				return
			}
		}
	}
}

func (r *LedgerRepo) UpdateRemaining(_ context.Context, entryID string, remaining int64) error {
	return r.v.write(func(st *state) error {
		i, ok := st.ledgerIdx[entryID]
		if !ok {
			return domain.ErrNotFound
		}
		st.ledger[i].RemainingQuantity = remaining
		return nil
	})
}

func (r *LedgerRepo) ListByPosition(_ context.Context, positionID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.v.read(func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			if st.ledger[i].StockPositionID == positionID {
				e := st.ledger[i]
				out = append(out, &e)
			}
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.read(func(st *state) error {
		w, ok := st.warehouses[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.CompanyID == companyID {
				out = append(out, &w)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Warehouse) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, limit, offset), err
}

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.products {
			if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
				return domain.ErrConflict
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.SKU == sku {
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	out, err := r.list(func(p entity.Product) bool { return p.CompanyID == companyID })
	return paginate(out, limit, offset), err
}

func (r *ProductRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	return r.list(func(p entity.Product) bool { return p.CategoryID == categoryID })
}

func (r *ProductRepo) list(match func(entity.Product) bool) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if match(p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Product) int { return cmp.Compare(a.SKU, b.SKU) })
	return out, err
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ v view }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.write(func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CategoryRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.read(func(st *state) error {
		for _, c := range st.categories {
			if c.CompanyID == companyID {
				out = append(out, &c)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Category) int { return cmp.Compare(a.Code, b.Code) })
	return paginate(out, limit, offset), err
}

func paginate[T any](items []T, limit, offset int) []T {
	offset = max(offset, 0)
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
