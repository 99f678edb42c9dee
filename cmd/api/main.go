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

	_ "github.com/jhoicas/Almacen-api/docs"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/lookup"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// @title        Almacen API
// @version      1.0
// @description  API de inventario multi-bodega: documentos de entrada/salida con aprobación y ledger de stock.
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	// Puertos de persistencia: PostgreSQL en modo normal, memoria para
	// desarrollo sin base de datos (STORAGE_DRIVER=memory).
	var (
		txRunner      workflow.TxRunner
		docRepo       repository.DocumentRepository
		stockRepo     repository.StockRepository
		movRepo       repository.StockMovementRepository
		warehouseRepo repository.WarehouseRepository
		productRepo   repository.ProductRepository
		supplierRepo  repository.SupplierRepository
		customerRepo  repository.CustomerRepository
		userRepo      repository.UserRepository
	)

	if cfg.Storage.Driver == "memory" {
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		docRepo = store.DocumentRepo()
		stockRepo = store.StockRepo()
		movRepo = store.MovementRepo()
		warehouseRepo = store.WarehouseRepo()
		productRepo = store.ProductRepo()
		supplierRepo = store.SupplierRepo()
		customerRepo = store.CustomerRepo()
		userRepo = store.UserRepo()
	} else {
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		txRunner = postgres.NewTxRunner(pool)
		docRepo = postgres.NewDocumentRepository(pool)
		stockRepo = postgres.NewStockRepository(pool)
		movRepo = postgres.NewStockMovementRepository(pool)
		warehouseRepo = postgres.NewWarehouseRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
		supplierRepo = postgres.NewSupplierRepository(pool)
		customerRepo = postgres.NewCustomerRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	ledgerUC := ledger.NewUseCase(stockRepo, movRepo)
	supplierType := lookup.NewSupplierTypeLookup(supplierRepo)
	identity := lookup.NewIdentityLookup(userRepo)

	importUC := workflow.NewImportUseCase(
		txRunner, docRepo, productRepo, warehouseRepo, supplierRepo,
		ledgerUC, supplierType, identity,
	)
	exportUC := workflow.NewExportUseCase(
		txRunner, docRepo, productRepo, warehouseRepo, customerRepo,
		ledgerUC, identity,
	)
	placeOrderUC := orders.NewPlaceOrderUseCase(exportUC)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := workflow.NewPDFUseCase(docRepo, productRepo, supplierRepo, customerRepo, pdfGenerator)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacen API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		CustomerUC:  customerUC,
		ImportUC:    importUC,
		ExportUC:    exportUC,
		PDFUC:       pdfUC,
		LedgerUC:    ledgerUC,
		PlaceOrder:  placeOrderUC,
		AuthUC:      authUC,
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
