package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/marketplace-api/internal/application/audit"
	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/fulfillment"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/cache"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/marketplace-api/internal/infrastructure/pdf"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/marketplace-api/internal/interfaces/http"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// txRunner une las dos formas de transacción que necesitan los casos de uso.
type txRunner interface {
	inventory.TxRunner
	auth.SignupTxRunner
}

// backend repositorios fuera de transacción + runner, para cualquiera de los dos drivers.
type backend struct {
	tx       txRunner
	stores   repository.StoreRepository
	users    repository.UserRepository
	storages repository.StorageRepository
	items    repository.ItemRepository
	stock    repository.StockRepository
	docs     repository.StockDocumentRepository
	checks   repository.InventoryCheckRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be := openBackend(ctx, cfg, log)
	defer be.close()

	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		// la caché es opcional: sin Redis se leen los datos directamente
		log.Warn().Err(err).Msg("redis no disponible, resumen de stock sin caché")
	}
	var stockCache inventory.StockCache = inventory.NoopCache{}
	if redisClient != nil {
		stockCache = cache.NewRedisStockCache(redisClient, cfg.Redis.TTL)
		defer func(c *redis.Client) { _ = c.Close() }(redisClient)
	}

	// Libro de stock
	ledger := inventory.NewLedger()
	registry := inventory.NewRegistry(be.items, be.storages)
	receiptUC := inventory.NewReceiptUseCase(be.tx, ledger, stockCache, log.Component("receipts"))
	writeOffUC := inventory.NewWriteOffUseCase(be.tx, ledger, stockCache, log.Component("write_offs"))
	reconcileUC := inventory.NewReconciliationUseCase(be.tx, be.checks, ledger, stockCache, log.Component("reconciliation"))
	documentsUC := inventory.NewDocumentsUseCase(be.docs, be.stock, registry)
	overviewUC := inventory.NewOverviewUseCase(be.items, be.storages, be.stock, be.docs, stockCache,
		cfg.Ledger.LowStockThreshold, log.Component("overview"))
	countSheetUC := inventory.NewCountSheetUseCase(reconcileUC, registry, infrapdf.NewMarotoCountSheet())

	// Pedidos → libro
	fulfillmentSvc := fulfillment.NewService(be.tx, writeOffUC, receiptUC, stockCache, log.Component("fulfillment"))

	authUC := auth.NewAuthUseCase(be.tx, be.users, be.stores, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Auditoría periódica del libro (solo lectura)
	if cfg.Audit.Schedule != "" {
		auditor := audit.NewLedgerAuditor(be.stores, be.stock, be.docs, log.Component("audit"))
		scheduler, err := auditor.Schedule(cfg.Audit.Schedule, cfg.Audit.Timeout)
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Audit.Schedule).Msg("programar auditoría")
		}
		defer func() { <-scheduler.Stop().Done() }()
		log.Info().Str("schedule", cfg.Audit.Schedule).Msg("auditoría del libro programada")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Marketplace API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StoreUC:     usecase.NewStoreUseCase(be.stores),
		StorageUC:   usecase.NewStorageUseCase(be.storages, be.tx),
		ItemUC:      usecase.NewItemUseCase(be.items, registry),
		CartUC:      usecase.NewCartUseCase(be.carts, be.items),
		OrderUC:     usecase.NewOrderUseCase(be.tx, be.orders, fulfillmentSvc),
		Receipts:    receiptUC,
		WriteOffs:   writeOffUC,
		Documents:   documentsUC,
		Overview:    overviewUC,
		Reconcile:   reconcileUC,
		CountSheets: countSheetUC,
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

// openBackend abre el almacenamiento según DB_DRIVER. memory sirve para demo y desarrollo local:
// los datos se pierden al reiniciar.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) *backend {
	if cfg.DB.Driver == config.DriverMemory {
		db := memory.New(memory.WithTxTimeout(cfg.Ledger.TxTimeout))
		log.Warn().Msg("usando almacenamiento en memoria: los datos no se persisten")
		return &backend{
			tx:       db,
			stores:   db.Stores(),
			users:    db.Users(),
			storages: db.Storages(),
			items:    db.Items(),
			stock:    db.Stock(),
			docs:     db.Documents(),
			checks:   db.Checks(),
			carts:    db.Carts(),
			orders:   db.Orders(),
			close:    func() {},
		}
	}

	if cfg.Migrations.AutoApply {
		v, err := postgres.MigrateUp(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Uint("version", v).Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return &backend{
		tx: postgres.NewTxRunner(pool, postgres.TxOptions{
			Timeout:     cfg.Ledger.TxTimeout,
			LockTimeout: cfg.Ledger.LockTimeout,
		}),
		stores:   postgres.NewStoreRepository(pool),
		users:    postgres.NewUserRepository(pool),
		storages: postgres.NewStorageRepository(pool),
		items:    postgres.NewItemRepository(pool),
		stock:    postgres.NewStockRepository(pool),
		docs:     postgres.NewStockDocumentRepository(pool),
		checks:   postgres.NewInventoryCheckRepository(pool),
		carts:    postgres.NewCartRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		close:    pool.Close,
	}
}
