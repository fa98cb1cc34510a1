package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx.
//
// RunSale cobre as operações da venda aberta (itens + estoque). RunCheckout
// inclui também o ledger financeiro, para finalizar e cancelar: mudança de
// status da venda, reversões de estoque e movimento financeiro commitam
// juntos ou nada é persistido.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error

	RunCheckout(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		finRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error) error
}

// StockLedger integra o orquestrador com o ledger de estoque. Os métodos
// usam os repositórios do caller (mesma transação); se retornam erro
// (ex: ErrInsufficientStock) o caller faz rollback.
type StockLedger interface {
	OutflowForSaleInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		companyID, productID, userID, saleID string,
		quantity decimal.Decimal,
		now time.Time,
	) error
	InflowForSaleInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		companyID, productID, userID, saleID string,
		quantity decimal.Decimal,
		note string,
		now time.Time,
	) error
}

// FinanceLedger integra o orquestrador com o ledger financeiro, na mesma
// transação do caller.
type FinanceLedger interface {
	RecordSaleReceiptInTx(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
		companyID, userID, accountID, saleID string,
		value decimal.Decimal,
		paymentMethod string,
		now time.Time,
	) (*entity.FinancialMovement, error)
	CancelInTx(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
		companyID, movementID, reason string,
	) (*entity.FinancialMovement, error)
}

// Actor identidade do chamador, resolvida a montante (JWT na borda HTTP).
// O núcleo confia nela e só consulta o perfil nas tabelas de política.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}
