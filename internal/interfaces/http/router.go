package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	CustomerUC  *usecase.CustomerUseCase
	ImportUC    *workflow.UseCase
	ExportUC    *workflow.UseCase
	PDFUC       *workflow.PDFUseCase
	LedgerUC    *ledger.UseCase
	PlaceOrder  *orders.PlaceOrderUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Documentos de entrada y salida: mismo handler, workflow distinto.
	registerDocumentRoutes(protected.Group("/imports"), NewDocumentHandler(deps.ImportUC, deps.PDFUC))
	registerDocumentRoutes(protected.Group("/exports"), NewDocumentHandler(deps.ExportUC, deps.PDFUC))

	// Orders (protegido): checkout de salidas tipo ORDER
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.PlaceOrder)
	ordersGroup.Post("/", orderHandler.PlaceOrder)

	// Stock (protegido): consultas del ledger
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock.Get("/products/:productId", stockHandler.GetByProduct)
	stock.Get("/warehouses/:warehouseId", stockHandler.Snapshot)
	stock.Get("/availability", stockHandler.Availability)
	stock.Get("/below-min", stockHandler.BelowMin)
	stock.Get("/movements", stockHandler.Movements)
}

func registerDocumentRoutes(g fiber.Router, h *DocumentHandler) {
	// Aprobar, rechazar y confirmar quedan reservados a admin y bodeguero;
	// crear, consultar y cancelar las puede hacer cualquier usuario autenticado.
	approver := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	g.Post("/", h.Create)
	g.Get("/", h.Search)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Post("/:id/approve", approver, h.Approve)
	g.Post("/:id/reject", approver, h.Reject)
	g.Post("/:id/cancel", h.Cancel)
	g.Post("/:id/confirm", approver, h.Confirm)
	g.Get("/:id/pdf", h.DownloadPDF)
}
