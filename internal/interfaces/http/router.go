package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitorsavi/pdv-api/internal/application/auth"
	"github.com/vitorsavi/pdv-api/internal/application/checkout"
	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/application/receipts"
	"github.com/vitorsavi/pdv-api/internal/application/stock"
	"github.com/vitorsavi/pdv-api/internal/application/usecase"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	ProductUC     *usecase.ProductUseCase
	ServiceUC     *usecase.ServiceUseCase
	CustomerUC    *usecase.CustomerUseCase
	AccountUC     *usecase.AccountUseCase
	StockLedger   *stock.LedgerUseCase
	FinanceLedger *finance.LedgerUseCase
	Checkout      *checkout.Orchestrator
	Receipts      *receipts.UseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Criação de empresa (público; o primeiro admin é registrado em seguida)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empresa do token
	companies := protected.Group("/companies")
	companies.Get("/me", companyHandler.Get)
	companies.Put("/me", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Catálogo (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ServiceUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)

	services := protected.Group("/services")
	services.Post("/", productHandler.CreateService)
	services.Get("/", productHandler.ListServices)

	// Clientes (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)

	// Contas financeiras (protegido; criação restrita a admin/gerente)
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Post("/", RequireRole(entity.RoleAdmin, entity.RoleGerente), accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.Get)

	// Ledger de estoque (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockLedger, deps.ProductUC)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/products/:id", stockHandler.CurrentStock)
	stockGroup.Get("/replenishment", stockHandler.Replenishment)

	// Ledger financeiro (protegido; cancelamento restrito a admin/gerente)
	financeGroup := protected.Group("/finance")
	financeHandler := NewFinanceHandler(deps.FinanceLedger)
	financeGroup.Post("/movements", financeHandler.Record)
	financeGroup.Get("/movements", financeHandler.List)
	financeGroup.Post("/movements/:id/confirmar", financeHandler.Confirm)
	financeGroup.Post("/movements/:id/cancelar", RequireRole(entity.RoleAdmin, entity.RoleGerente), financeHandler.Cancel)

	// Vendas PDV (protegido; a política de cancelamento de venda finalizada
	// fica no orquestrador, que conhece o status da venda)
	sales := protected.Group("/vendas")
	saleHandler := NewSaleHandler(deps.Checkout, deps.Receipts)
	sales.Post("/", saleHandler.Open)
	sales.Get("/:id", saleHandler.Get)
	sales.Post("/:id/itens", saleHandler.AddItem)
	sales.Delete("/:id/itens/:itemId", saleHandler.RemoveItem)
	sales.Put("/:id/itens/:itemId/quantidade", saleHandler.SetQuantity)
	sales.Post("/:id/desconto", saleHandler.ApplyDiscount)
	sales.Post("/:id/finalizar", saleHandler.Finalize)
	sales.Post("/:id/cancelar", saleHandler.Cancel)
	sales.Get("/:id/cupom.pdf", saleHandler.CupomPDF)
	sales.Get("/:id/nfce.xml", saleHandler.NFCeXML)
}
