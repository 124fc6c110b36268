package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/internal/domain/uom"
	"github.com/tu-usuario/restops-core/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/restops-core/internal/interfaces/http"
	"github.com/tu-usuario/restops-core/pkg/config"
	"github.com/tu-usuario/restops-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de lectura atados al pool; las escrituras usan repos atados a la tx
	// que construye el TxRunner.
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	mappingRepo := postgres.NewAccountMappingRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := uom.NewResolver()
	tolerance := decimal.NewFromFloat(cfg.Inventory.POTolerancePct)

	receiveUC := inventory.NewReceiveUseCase(txRunner, itemRepo, locationRepo, resolver, tolerance)
	adjustUC := inventory.NewAdjustmentUseCase(txRunner, itemRepo, locationRepo)
	saleUC := inventory.NewSaleUseCase(txRunner, recipeRepo, itemRepo, locationRepo, resolver)
	valuationUC := inventory.NewValuationUseCase(
		batchRepo, movementRepo, journalRepo, mappingRepo, recipeRepo, itemRepo, resolver,
	)
	catalogUC := inventory.NewCatalogUseCase(itemRepo, batchRepo, movementRepo, resolver)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReceiveUC:   receiveUC,
		AdjustUC:    adjustUC,
		SaleUC:      saleUC,
		ValuationUC: valuationUC,
		CatalogUC:   catalogUC,
		JWTSecret:   cfg.JWT.Secret,
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
}
