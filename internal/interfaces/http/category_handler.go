package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Valuacion-api/internal/application/dto"
	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/application/usecase"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// CategoryHandler categorías de producto y su valor agregado.
type CategoryHandler struct {
	uc      *usecase.CategoryUseCase
	reports *inventory.ReportingUseCase
	log     *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, reports *inventory.ReportingUseCase, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, reports: reports, log: log}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CategoryHandler) Value(c *fiber.Ctx) error {
	id := c.Params("id")
	total, err := h.reports.CategoryTotalValue(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ValueResponse{ID: id, Value: total})
}
