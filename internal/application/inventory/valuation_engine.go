package inventory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Valuacion-api/internal/domain/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// ValuationEngine registra entradas y salidas de stock consumiendo capas del ledger según el
// método de la bodega, y calcula el valor actual de una posición.
//
// Cada movimiento corre en una sola transacción que bloquea la fila de la posición
// (SELECT FOR UPDATE): dos movimientos sobre la misma posición quedan serializados,
// movimientos sobre posiciones distintas corren en paralelo.
type ValuationEngine struct {
	txRunner  TxRunner
	reader    Repositories
	publisher EventPublisher
	metrics   MovementMetrics
	log       *logger.Logger
	now       func() time.Time
}

// NewValuationEngine construye el motor. publisher y metrics pueden ser nil.
func NewValuationEngine(
	txRunner TxRunner,
	reader Repositories,
	publisher EventPublisher,
	metrics MovementMetrics,
	log *logger.Logger,
) *ValuationEngine {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ValuationEngine{
		txRunner:  txRunner,
		reader:    reader,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// StockInInput entrada de stock. Si PositionID está vacío se usa el par ProductID/WarehouseID
// y la posición se crea en la primera entrada. Producto y bodega deben ser de CompanyID.
type StockInInput struct {
	CompanyID   string
	PositionID  string
	ProductID   string
	WarehouseID string
	Quantity    int64
	UnitCost    decimal.Decimal
	Reference   *entity.Reference
	Notes       string
}

// StockOutInput salida de stock, por PositionID o por el par ProductID/WarehouseID.
type StockOutInput struct {
	CompanyID   string
	PositionID  string
	ProductID   string
	WarehouseID string
	Quantity    int64
	Reference   *entity.Reference
	Notes       string
}

// TransferInput traslado de un producto entre dos bodegas.
type TransferInput struct {
	CompanyID       string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Reference       *entity.Reference
	Notes           string
}

// TransferResult salidas en origen y entradas en destino (una entrada por capa consumida).
type TransferResult struct {
	Outbound []*entity.LedgerEntry
	Inbound  []*entity.LedgerEntry
}

// CalculateStockValue valor actual de la posición según el método de su bodega.
// Lee sin bloqueos; dos llamadas sin mutación intermedia devuelven el mismo valor.
func (e *ValuationEngine) CalculateStockValue(ctx context.Context, position *entity.StockPosition) (decimal.Decimal, error) {
	wh, err := e.reader.Warehouses.GetByID(ctx, position.WarehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return e.valueOf(ctx, e.reader, wh, position)
}

// RecordStockIn agrega una capa IN, suma la cantidad a la posición y recalcula su valuación.
func (e *ValuationEngine) RecordStockIn(ctx context.Context, in StockInInput) (*entity.LedgerEntry, error) {
	if in.Quantity <= 0 {
		e.reject(entity.DirectionIN, domain.ErrInvalidQuantity)
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		e.reject(entity.DirectionIN, domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}

	var (
		entry *entity.LedgerEntry
		pos   *entity.StockPosition
		wh    *entity.Warehouse
	)
	err := e.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		pos, err = e.lockPosition(ctx, repos, in.CompanyID, in.PositionID, in.ProductID, in.WarehouseID, true)
		if err != nil {
			return err
		}
		wh, err = repos.Warehouses.GetByID(ctx, pos.WarehouseID)
		if err != nil {
			return err
		}
		entries, err := e.stockIn(ctx, repos, wh, pos, []layerInput{{quantity: in.Quantity, unitCost: in.UnitCost}}, in.Reference, in.Notes)
		if err != nil {
			return err
		}
		entry = entries[0]
		return nil
	})
	if err != nil {
		e.reject(entity.DirectionIN, err)
		return nil, err
	}

	e.afterMovement(ctx, wh, pos, entity.DirectionIN, in.Quantity, 1)
	return entry, nil
}

// RecordStockOut consume capas según el método de la bodega y devuelve las entradas OUT creadas:
// una por capa tocada en FIFO/LIFO, una sola al costo promedio en WEIGHTED_AVERAGE/STANDARD_COST.
// Si el remanente abierto no alcanza devuelve ErrInsufficientStock sin modificar nada.
func (e *ValuationEngine) RecordStockOut(ctx context.Context, in StockOutInput) ([]*entity.LedgerEntry, error) {
	if in.Quantity <= 0 {
		e.reject(entity.DirectionOUT, domain.ErrInvalidQuantity)
		return nil, domain.ErrInvalidQuantity
	}

	var (
		outs []*entity.LedgerEntry
		pos  *entity.StockPosition
		wh   *entity.Warehouse
	)
	err := e.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		pos, err = e.lockPosition(ctx, repos, in.CompanyID, in.PositionID, in.ProductID, in.WarehouseID, false)
		if err != nil {
			return err
		}
		wh, err = repos.Warehouses.GetByID(ctx, pos.WarehouseID)
		if err != nil {
			return err
		}
		outs, err = e.stockOut(ctx, repos, wh, pos, in.Quantity, in.Reference, in.Notes)
		return err
	})
	if err != nil {
		e.reject(entity.DirectionOUT, err)
		return nil, err
	}

	e.afterMovement(ctx, wh, pos, entity.DirectionOUT, in.Quantity, len(outs))
	return outs, nil
}

// Transfer saca stock de la bodega origen con su método y lo ingresa en la destino
// conservando las capas de costo consumidas. Origen y destino se bloquean en orden fijo
// (por ID de bodega) para evitar interbloqueos entre traslados cruzados.
func (e *ValuationEngine) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.Quantity <= 0 {
		e.reject(entity.DirectionOUT, domain.ErrInvalidQuantity)
		return nil, domain.ErrInvalidQuantity
	}
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.FromWarehouseID == in.ToWarehouseID {
		e.reject(entity.DirectionOUT, domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}

	var (
		result       TransferResult
		src, dst     *entity.StockPosition
		srcWh, dstWh *entity.Warehouse
	)
	err := e.txRunner.Run(ctx, func(repos Repositories) error {
		lockSrc := func() (err error) {
			src, err = e.lockPosition(ctx, repos, in.CompanyID, "", in.ProductID, in.FromWarehouseID, false)
			return err
		}
		lockDst := func() (err error) {
			dst, err = e.lockPosition(ctx, repos, in.CompanyID, "", in.ProductID, in.ToWarehouseID, true)
			return err
		}
		first, second := lockSrc, lockDst
		if in.ToWarehouseID < in.FromWarehouseID {
			first, second = lockDst, lockSrc
		}
		if err := first(); err != nil {
			return err
		}
		if err := second(); err != nil {
			return err
		}

		var err error
		if srcWh, err = repos.Warehouses.GetByID(ctx, src.WarehouseID); err != nil {
			return err
		}
		if dstWh, err = repos.Warehouses.GetByID(ctx, dst.WarehouseID); err != nil {
			return err
		}

		result.Outbound, err = e.stockOut(ctx, repos, srcWh, src, in.Quantity, in.Reference, in.Notes)
		if err != nil {
			return err
		}
		layers := make([]layerInput, 0, len(result.Outbound))
		for _, out := range result.Outbound {
			layers = append(layers, layerInput{quantity: out.Quantity, unitCost: out.UnitCost})
		}
		result.Inbound, err = e.stockIn(ctx, repos, dstWh, dst, layers, in.Reference, in.Notes)
		return err
	})
	if err != nil {
		e.reject(entity.DirectionOUT, err)
		return nil, err
	}

	e.afterMovement(ctx, srcWh, src, entity.DirectionOUT, in.Quantity, len(result.Outbound))
	e.afterMovement(ctx, dstWh, dst, entity.DirectionIN, in.Quantity, len(result.Inbound))
	return &result, nil
}

type layerInput struct {
	quantity int64
	unitCost decimal.Decimal
}

// stockIn agrega una capa IN por cada layerInput y actualiza la posición (ya bloqueada).
func (e *ValuationEngine) stockIn(
	ctx context.Context,
	repos Repositories,
	wh *entity.Warehouse,
	pos *entity.StockPosition,
	layers []layerInput,
	ref *entity.Reference,
	notes string,
) ([]*entity.LedgerEntry, error) {
	ledger := NewStockLedger(repos.Ledger)
	entries := make([]*entity.LedgerEntry, 0, len(layers))
	for _, l := range layers {
		entry, err := ledger.AppendInbound(ctx, pos, l.quantity, l.unitCost, ref, notes)
		if err != nil {
			return nil, err
		}
		pos.Quantity += l.quantity
		entries = append(entries, entry)
	}
	if err := e.refreshValuation(ctx, repos, wh, pos); err != nil {
		return nil, err
	}
	return entries, repos.Positions.Update(ctx, pos)
}

// stockOut consume quantity de la posición (ya bloqueada) según el método de wh.
func (e *ValuationEngine) stockOut(
	ctx context.Context,
	repos Repositories,
	wh *entity.Warehouse,
	pos *entity.StockPosition,
	quantity int64,
	ref *entity.Reference,
	notes string,
) ([]*entity.LedgerEntry, error) {
	if quantity > pos.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	ledger := NewStockLedger(repos.Ledger)

	var outs []*entity.LedgerEntry
	switch wh.ValuationMethod {
	case entity.ValuationFIFO, entity.ValuationLIFO:
		order := repository.OldestFirst
		if wh.ValuationMethod == entity.ValuationLIFO {
			order = repository.NewestFirst
		}
		layers, err := collectLayers(ledger.OpenInboundEntries(ctx, pos, order), quantity)
		if err != nil {
			return nil, err
		}
		plan, err := domaininv.PlanConsumption(layers, quantity)
		if err != nil {
			return nil, err
		}
		for _, c := range plan {
			out, err := ledger.AppendOutbound(ctx, pos, c.Quantity, c.Layer.UnitCost, ref, notes)
			if err != nil {
				return nil, err
			}
			if err := ledger.DecrementRemaining(ctx, c.Layer, c.Quantity); err != nil {
				return nil, err
			}
			outs = append(outs, out)
		}

	case entity.ValuationWeightedAverage, entity.ValuationStandardCost:
		// Una sola salida al costo promedio; las capas se descuentan de la más antigua
		// a la más nueva solo para que los promedios futuros sean correctos.
		layers, err := collectLayers(ledger.OpenInboundEntries(ctx, pos, repository.OldestFirst), -1)
		if err != nil {
			return nil, err
		}
		plan, err := domaininv.PlanConsumption(layers, quantity)
		if err != nil {
			return nil, err
		}
		avg := domaininv.WeightedAverageCost(layers)
		out, err := ledger.AppendOutbound(ctx, pos, quantity, avg, ref, notes)
		if err != nil {
			return nil, err
		}
		for _, c := range plan {
			if err := ledger.DecrementRemaining(ctx, c.Layer, c.Quantity); err != nil {
				return nil, err
			}
		}
		outs = append(outs, out)

	default:
		return nil, unknownMethod(wh)
	}

	pos.Quantity -= quantity
	pos.ClampReservation()
	if err := e.refreshValuation(ctx, repos, wh, pos); err != nil {
		return nil, err
	}
	if err := repos.Positions.Update(ctx, pos); err != nil {
		return nil, err
	}
	return outs, nil
}

// valueOf dispatch único por método de valuación.
func (e *ValuationEngine) valueOf(ctx context.Context, repos Repositories, wh *entity.Warehouse, pos *entity.StockPosition) (decimal.Decimal, error) {
	ledger := NewStockLedger(repos.Ledger)
	switch wh.ValuationMethod {
	case entity.ValuationFIFO:
		layers, err := collectLayers(ledger.OpenInboundEntries(ctx, pos, repository.OldestFirst), pos.Quantity)
		if err != nil {
			return decimal.Zero, err
		}
		return domaininv.LayerValue(layers, pos.Quantity), nil
	case entity.ValuationLIFO:
		layers, err := collectLayers(ledger.OpenInboundEntries(ctx, pos, repository.NewestFirst), pos.Quantity)
		if err != nil {
			return decimal.Zero, err
		}
		return domaininv.LayerValue(layers, pos.Quantity), nil
	case entity.ValuationWeightedAverage:
		layers, err := collectLayers(ledger.OpenInboundEntries(ctx, pos, repository.OldestFirst), -1)
		if err != nil {
			return decimal.Zero, err
		}
		return domaininv.WeightedAverageValue(layers, pos.Quantity), nil
	case entity.ValuationStandardCost:
		product, err := repos.Products.GetByID(ctx, pos.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		return domaininv.StandardValue(pos.Quantity, product.ValuationCost()), nil
	default:
		return decimal.Zero, unknownMethod(wh)
	}
}

func (e *ValuationEngine) refreshValuation(ctx context.Context, repos Repositories, wh *entity.Warehouse, pos *entity.StockPosition) error {
	total, err := e.valueOf(ctx, repos, wh, pos)
	if err != nil {
		return err
	}
	pos.ApplyValuation(total)
	pos.UpdatedAt = e.now()
	return nil
}

// lockPosition bloquea la posición por ID o por par producto/bodega. Con create=true la
// posición se crea (vacía) si el par aún no tiene una. Producto y bodega deben pertenecer
// a companyID; si no, ErrForbidden.
func (e *ValuationEngine) lockPosition(ctx context.Context, repos Repositories, companyID, positionID, productID, warehouseID string, create bool) (*entity.StockPosition, error) {
	var (
		pos *entity.StockPosition
		err error
	)
	switch {
	case positionID != "":
		pos, err = repos.Positions.GetForUpdate(ctx, positionID)
		if err == nil {
			err = ownedBy(ctx, repos, companyID, pos.ProductID, pos.WarehouseID)
		}
	case productID == "" || warehouseID == "":
		return nil, domain.ErrInvalidInput
	case create:
		if err := ownedBy(ctx, repos, companyID, productID, warehouseID); err != nil {
			return nil, err
		}
		pos, err = repos.Positions.GetOrCreateForUpdate(ctx, entity.NewStockPosition(productID, warehouseID, 0, 0, e.now()))
	default:
		if err := ownedBy(ctx, repos, companyID, productID, warehouseID); err != nil {
			return nil, err
		}
		var found *entity.StockPosition
		found, err = repos.Positions.GetByProductAndWarehouse(ctx, productID, warehouseID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInsufficientStock
			}
			return nil, err
		}
		pos, err = repos.Positions.GetForUpdate(ctx, found.ID)
	}
	if err != nil {
		return nil, err
	}
	if pos.IsRemoved() {
		return nil, domain.ErrNotFound
	}
	return pos, nil
}

// ownedBy verifica que producto y bodega existan y sean de la empresa.
func ownedBy(ctx context.Context, repos Repositories, companyID, productID, warehouseID string) error {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	wh, err := repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if product.CompanyID != companyID || wh.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (e *ValuationEngine) afterMovement(ctx context.Context, wh *entity.Warehouse, pos *entity.StockPosition, dir entity.Direction, quantity int64, entries int) {
	e.metrics.MovementRecorded(wh.ValuationMethod, dir, quantity, entries)
	e.log.Info().
		Str("position_id", pos.ID).
		Str("warehouse_id", pos.WarehouseID).
		Str("method", wh.ValuationMethod.String()).
		Str("direction", string(dir)).
		Int64("quantity", quantity).
		Int64("on_hand", pos.Quantity).
		Str("total_value", pos.TotalValue.StringFixed(entity.MoneyPlaces)).
		Msg("movimiento de stock registrado")

	for _, ev := range thresholdEvents(pos, dir, e.now()) {
		if err := e.publisher.PublishStockThreshold(ctx, ev); err != nil {
			e.log.Warn().Err(err).
				Str("position_id", pos.ID).
				Str("event_type", string(ev.Type)).
				Msg("no se pudo publicar evento de umbral")
		}
	}
}

func (e *ValuationEngine) reject(dir entity.Direction, err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		reason = "invalid_quantity"
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		reason = "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrForbidden):
		reason = "forbidden"
	case errors.Is(err, domain.ErrOverConsumption):
		reason = "over_consumption"
		e.log.Error().Err(err).Msg("invariante del ledger violada")
	}
	e.metrics.MovementRejected(dir, reason)
}

// collectLayers materializa capas de la secuencia hasta cubrir upTo unidades (upTo < 0: todas).
// La secuencia debe agotarse o cortarse antes de escribir en la misma transacción.
func collectLayers(seq iter.Seq2[*entity.LedgerEntry, error], upTo int64) ([]*entity.LedgerEntry, error) {
	if upTo == 0 {
		return nil, nil
	}
	var (
		layers  []*entity.LedgerEntry
		covered int64
	)
	for layer, err := range seq {
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
		covered += layer.RemainingQuantity
		if upTo > 0 && covered >= upTo {
			break
		}
	}
	return layers, nil
}

func unknownMethod(wh *entity.Warehouse) error {
	return fmt.Errorf("%w: bodega %s con método de valuación %q", domain.ErrInvalidInput, wh.ID, wh.ValuationMethod)
}
