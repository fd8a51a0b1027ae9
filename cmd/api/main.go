package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/application/usecase"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Valuacion-api/internal/interfaces/http"
	"github.com/jhoicas/Valuacion-api/pkg/config"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
}

// run arma las dependencias y sirve HTTP hasta recibir SIGINT/SIGTERM.
// No termina el proceso: los defer cierran pool y producer antes de volver.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	var (
		txRunner   inventory.TxRunner
		reader     inventory.Repositories
		categories repository.CategoryRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner, reader, categories = store, store.Repositories(), store.Categories()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		reader = postgres.NewRepositories(pool)
		categories = postgres.NewCategoryRepository(pool)
	}

	var publisher inventory.EventPublisher = kafka.NewLogPublisher(log)
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			return fmt.Errorf("conexión a Kafka %v: %w", cfg.Kafka.Brokers, err)
		}
		kafkaPublisher := kafka.NewPublisher(producer, cfg.Kafka.StockTopic, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.StockTopic).Msg("publisher Kafka inicializado")
	}

	collectors := metrics.New(prometheus.DefaultRegisterer)

	engine := inventory.NewValuationEngine(txRunner, reader, publisher, collectors, log)
	positionUC := inventory.NewStockPositionUseCase(txRunner, reader, log)
	reportingUC := inventory.NewReportingUseCase(engine, reader, categories)
	warehouseUC := usecase.NewWarehouseUseCase(reader.Warehouses)
	productUC := usecase.NewProductUseCase(reader.Products, categories)
	categoryUC := usecase.NewCategoryUseCase(categories)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		Engine:      engine,
		Positions:   positionUC,
		Reports:     reportingUC,
		Metrics:     collectors,
		Gatherer:    prometheus.DefaultGatherer,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
