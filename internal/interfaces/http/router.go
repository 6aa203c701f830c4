package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StoreUC     *usecase.StoreUseCase
	StorageUC   *usecase.StorageUseCase
	ItemUC      *usecase.ItemUseCase
	CartUC      *usecase.CartUseCase
	OrderUC     *usecase.OrderUseCase
	Receipts    *inventory.ReceiptUseCase
	WriteOffs   *inventory.WriteOffUseCase
	Documents   *inventory.DocumentsUseCase
	Overview    *inventory.OverviewUseCase
	Reconcile   *inventory.ReconciliationUseCase
	CountSheets *inventory.CountSheetUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	seller := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	storeHandler := NewStoreHandler(deps.StoreUC)
	protected.Get("/store", storeHandler.Get)
	protected.Put("/store", RequireRole(entity.RoleAdmin), storeHandler.Update)

	storages := protected.Group("/storages")
	storageHandler := NewStorageHandler(deps.StorageUC)
	storages.Get("/", storageHandler.List)
	storages.Post("/", warehouse, storageHandler.Create)
	storages.Get("/:id", storageHandler.GetByID)
	storages.Put("/:id", warehouse, storageHandler.Update)
	storages.Delete("/:id", warehouse, storageHandler.Delete)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/", warehouse, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", warehouse, itemHandler.Update)

	// Libro de stock: documentos e inventarizaciones solo para admin o bodeguero
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Receipts, deps.WriteOffs, deps.Documents, deps.Overview)
	inv.Post("/receipts", warehouse, invHandler.RegisterReceipt)
	inv.Post("/write-offs", warehouse, invHandler.RegisterWriteOff)
	inv.Get("/documents", invHandler.ListDocuments)
	inv.Get("/documents/:id", invHandler.GetDocument)
	inv.Get("/stock", invHandler.Overview)
	inv.Get("/stock/:item_id/:storage_id", invHandler.GetStockLine)
	inv.Get("/stats", invHandler.Stats)

	checks := inv.Group("/checks", warehouse)
	checkHandler := NewCheckHandler(deps.Reconcile, deps.CountSheets)
	checks.Post("/", checkHandler.Create)
	checks.Get("/", checkHandler.List)
	checks.Get("/:id", checkHandler.Get)
	checks.Put("/:id/lines/:item_id", checkHandler.RecordCount)
	checks.Post("/:id/complete", checkHandler.Complete)
	checks.Post("/:id/cancel", checkHandler.Cancel)
	checks.Get("/:id/pdf", checkHandler.CountSheetPDF)

	cart := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC)
	cart.Get("/", cartHandler.Get)
	cart.Post("/", cartHandler.Add)
	cart.Delete("/", cartHandler.Clear)
	cart.Put("/items/:item_id", cartHandler.SetAmount)
	cart.Delete("/items/:item_id", cartHandler.Remove)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id/status", seller, orderHandler.UpdateStatus)
}
