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
	"github.com/vitorsavi/pdv-api/internal/application/auth"
	"github.com/vitorsavi/pdv-api/internal/application/checkout"
	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/application/receipts"
	"github.com/vitorsavi/pdv-api/internal/application/stock"
	"github.com/vitorsavi/pdv-api/internal/application/usecase"
	"github.com/vitorsavi/pdv-api/internal/infrastructure/nfce"
	infrapdf "github.com/vitorsavi/pdv-api/internal/infrastructure/pdf"
	"github.com/vitorsavi/pdv-api/internal/infrastructure/postgres"
	httpRouter "github.com/vitorsavi/pdv-api/internal/interfaces/http"
	"github.com/vitorsavi/pdv-api/pkg/config"
	"github.com/vitorsavi/pdv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	itemRepo := postgres.NewSaleItemRepository(pool)
	stockMovRepo := postgres.NewStockMovementRepository(pool)
	finMovRepo := postgres.NewFinancialMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo)

	stockLedger := stock.NewLedgerUseCase(txRunner, productRepo, stockMovRepo)
	financeLedger := finance.NewLedgerUseCase(txRunner, finMovRepo)
	checkoutUC := checkout.NewOrchestrator(
		txRunner, stockLedger, financeLedger,
		saleRepo, itemRepo, productRepo, serviceRepo, customerRepo, accountRepo,
	)

	// Documentos da venda: cupom em PDF e XML de NFC-e
	cupomGenerator := infrapdf.NewMarotoCupomGenerator()
	nfceBuilder := nfce.NewBuilder(cfg.NFCe)
	receiptsUC := receipts.NewUseCase(
		saleRepo, itemRepo, companyRepo, customerRepo, productRepo, serviceRepo,
		cupomGenerator, nfceBuilder,
	)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PDV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		ProductUC:     productUC,
		ServiceUC:     serviceUC,
		CustomerUC:    customerUC,
		AccountUC:     accountUC,
		StockLedger:   stockLedger,
		FinanceLedger: financeLedger,
		Checkout:      checkoutUC,
		Receipts:      receiptsUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação finalizada")
}
