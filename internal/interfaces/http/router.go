package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReceiveUC   *inventory.ReceiveUseCase
	AdjustUC    *inventory.AdjustmentUseCase
	SaleUC      *inventory.SaleUseCase
	ValuationUC *inventory.ValuationUseCase
	CatalogUC   *inventory.CatalogUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el motor es protegido: el POS y el
// back-office llaman con Bearer Token emitido por el servicio de identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Operación de bodega (protegido: admin o bodeguero)
	invGroup := protected.Group("/inventory", RequireRole("admin", "bodeguero"))
	inventoryHandler := NewInventoryHandler(deps.ReceiveUC, deps.AdjustUC)
	invGroup.Post("/receipts", inventoryHandler.ReceiveGoods)
	invGroup.Post("/receipts/po", inventoryHandler.ReceiveAgainstPO)
	invGroup.Post("/movements/wastage", inventoryHandler.RegisterWastage)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Post("/stock-counts", inventoryHandler.SubmitCount)
	invGroup.Post("/transfers", inventoryHandler.Transfer)

	// Catálogo y lecturas de reporting
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	invGroup.Post("/items", catalogHandler.CreateItem)
	invGroup.Get("/items", catalogHandler.ListItems)
	invGroup.Delete("/items/:itemID", catalogHandler.DeactivateItem)
	invGroup.Get("/items/:itemID/stock", catalogHandler.ItemStock)
	invGroup.Get("/items/:itemID/movements", catalogHandler.ItemMovements)
	invGroup.Get("/reorder", catalogHandler.ReorderReport)

	// Ventas del POS (protegido: admin o vendedor)
	sales := protected.Group("/sales", RequireRole("admin", "vendedor"))
	salesHandler := NewSalesHandler(deps.SaleUC)
	sales.Post("/", salesHandler.CommitSale)
	sales.Post("/:orderID/void", salesHandler.VoidSale)

	// Valoración y conciliación (protegido: admin)
	valuation := protected.Group("/valuation", RequireRole("admin"))
	valuationHandler := NewValuationHandler(deps.ValuationUC)
	valuation.Get("/", valuationHandler.CurrentValuation)
	valuation.Get("/reconcile", valuationHandler.Reconcile)
	valuation.Get("/recipes/:menuItemID/cost", valuationHandler.RecipeCost)
	valuation.Get("/journal/:correlationID", valuationHandler.JournalByCorrelation)
	valuation.Put("/account-mappings", valuationHandler.UpsertAccountMapping)
}
