package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/auth"
	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/internal/application/usecase"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Receive     *ledger.ReceiveUseCase
	Deduct      *ledger.DeductUseCase
	Adjust      *ledger.AdjustUseCase
	Reconcile   *ledger.ReconcileUseCase
	SetupRetail *ledger.SetupRetailUseCase
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

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	ledgerHandler := NewLedgerHandler(deps.Receive, deps.Deduct, deps.Adjust, deps.Reconcile, deps.SetupRetail)
	// Conversión al detal: solo admin (cambia el catálogo).
	products.Post("/:id/retail", RequireRole(entity.RoleAdmin), ledgerHandler.SetupRetail)
	products.Get("/:id/adjustments", ledgerHandler.ListAdjustments)

	// Libro de inventario (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/receipts", ledgerHandler.Receive)
	invGroup.Post("/deductions", ledgerHandler.Deduct)
	invGroup.Post("/adjustments", ledgerHandler.Adjust)
	invGroup.Get("/adjustments/:id", ledgerHandler.GetAdjustment)
	invGroup.Post("/reconcile/:productId", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ledgerHandler.ReconcileProduct)
}
