package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Valuacion-api/internal/application/dto"
	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// PositionHandler posiciones de stock: alta, consulta, reservas, umbrales, valor y ledger.
type PositionHandler struct {
	uc     *inventory.StockPositionUseCase
	engine *inventory.ValuationEngine
	log    *logger.Logger
}

// NewPositionHandler construye el handler.
func NewPositionHandler(uc *inventory.StockPositionUseCase, engine *inventory.ValuationEngine, log *logger.Logger) *PositionHandler {
	return &PositionHandler{uc: uc, engine: engine, log: log}
}

// Create godoc
// @Summary      Crear posición de stock vacía
// @Tags         stock-positions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePositionRequest  true  "product_id, warehouse_id, umbrales"
// @Success      201   {object}  dto.PositionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-positions [post]
func (h *PositionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePositionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	pos, err := h.uc.Create(c.UserContext(), inventory.CreatePositionInput{
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPositionResponse(pos))
}

// GetByID obtiene una posición por ID.
func (h *PositionHandler) GetByID(c *fiber.Ctx) error {
	pos, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Value recalcula el valor de la posición desde el ledger (sin usar el valor cacheado).
func (h *PositionHandler) Value(c *fiber.Ctx) error {
	ctx := c.UserContext()
	pos, err := h.uc.Get(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	v, err := h.engine.CalculateStockValue(ctx, pos)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ValueResponse{ID: pos.ID, Value: v})
}

// Ledger historial de movimientos, más recientes primero.
func (h *PositionHandler) Ledger(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	entries, err := h.uc.History(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.LedgerListResponse{
		Items: toLedgerEntries(entries),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Reserve godoc
// @Summary      Reservar cantidad disponible
// @Description  Devuelve reserved=false (200) si el disponible no alcanza; la posición no cambia.
// @Tags         stock-positions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la posición"
// @Param        body  body  dto.QuantityRequest  true  "quantity"
// @Success      200   {object}  dto.ReserveResponse
// @Router       /api/stock-positions/{id}/reserve [post]
func (h *PositionHandler) Reserve(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	ctx := c.UserContext()
	ok, pos, err := h.uc.Reserve(ctx, c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReserveResponse{Reserved: ok, Position: toPositionResponse(pos)})
}

// Release libera cantidad reservada.
func (h *PositionHandler) Release(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	pos, err := h.uc.Release(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Thresholds actualiza mínimo y máximo.
func (h *PositionHandler) Thresholds(c *fiber.Ctx) error {
	var in dto.ThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	pos, err := h.uc.UpdateThresholds(c.UserContext(), c.Params("id"), in.MinimumStock, in.MaximumStock)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Remove retira la posición (solo sin stock ni reservas).
func (h *PositionHandler) Remove(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
