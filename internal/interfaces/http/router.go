package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/application/usecase"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	Engine      *inventory.ValuationEngine
	Positions   *inventory.StockPositionUseCase
	Reports     *inventory.ReportingUseCase
	Metrics     *metrics.Collectors // opcional
	Gatherer    prometheus.Gatherer // opcional; expone /metrics
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Reports, log)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/value", warehouseHandler.Value)
	warehouses.Get("/:id/valuation", warehouseHandler.Valuation)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Reports, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/value", productHandler.Value)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Reports, log)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id/value", categoryHandler.Value)

	positions := api.Group("/stock-positions")
	positionHandler := NewPositionHandler(deps.Positions, deps.Engine, log)
	positions.Post("/", positionHandler.Create)
	positions.Get("/:id", positionHandler.GetByID)
	positions.Delete("/:id", positionHandler.Remove)
	positions.Get("/:id/value", positionHandler.Value)
	positions.Get("/:id/ledger", positionHandler.Ledger)
	positions.Post("/:id/reserve", positionHandler.Reserve)
	positions.Post("/:id/release", positionHandler.Release)
	positions.Put("/:id/thresholds", positionHandler.Thresholds)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Positions, log)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
}
