package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vitorsavi/pdv-api/internal/application/checkout"
	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/application/stock"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// Garante que TxRunner implementa os portos transacionais dos casos de uso.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ finance.TxRunner = (*TxRunner)(nil)
var _ checkout.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL, com
// repositórios atados à tx. Commit no sucesso, Rollback em qualquer erro:
// estado parcial de ledger nunca é observável.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// beginTxErr classifica a falha ao abrir a transação. Fora cancelamento de
// contexto, Begin só falha quando o pool não consegue conexão com o banco:
// o erro vira domain.ErrUnavailable e o handler responde 503.
func beginTxErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return fmt.Errorf("begin transaction: %w: %v", domain.ErrUnavailable, err)
}

// commitTxErr classifica a falha no commit: queda de conexão vira
// domain.ErrUnavailable; erro de SQL segue como está.
func commitTxErr(err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("commit transaction: %w: %v", domain.ErrUnavailable, err)
	}
	return fmt.Errorf("commit transaction: %w", err)
}

// Run transação do ledger de estoque: movimento + projeção do produto.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return beginTxErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return commitTxErr(err)
	}
	return nil
}

// RunFinance transação do ledger financeiro: movimento + saldo das contas.
func (r *TxRunner) RunFinance(ctx context.Context, fn func(
	movRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return beginTxErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFinancialMovementRepository(tx), NewAccountRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return commitTxErr(err)
	}
	return nil
}

// RunSale transação das operações da venda aberta (itens + estoque).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return beginTxErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewSaleRepository(tx),
		NewSaleItemRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return commitTxErr(err)
	}
	return nil
}

// RunCheckout transação de finalizar/cancelar venda: inclui os dois ledgers.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	finRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return beginTxErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewSaleRepository(tx),
		NewSaleItemRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
		NewFinancialMovementRepository(tx),
		NewAccountRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return commitTxErr(err)
	}
	return nil
}
