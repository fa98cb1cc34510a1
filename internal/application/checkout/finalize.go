package checkout

import (
	"context"
	"time"

	"github.com/vitorsavi/pdv-api/internal/domain"
	domaincheckout "github.com/vitorsavi/pdv-api/internal/domain/checkout"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// FinalizeInput entrada para finalizar a venda.
type FinalizeInput struct {
	PaymentMethod string
	AccountID     string  // conta (caixa) que recebe o valor
	CustomerID    *string // sobrescreve o cliente da abertura, se informado
}

// Finalize fecha a venda aberta: marca "finalizada", carimba o horário e cria
// a receita "pago" vinculada, tudo em uma única transação. Venda sem itens
// falha com ErrEmptySale; sem forma de pagamento, ErrPaymentMethodRequired.
func (o *Orchestrator) Finalize(ctx context.Context, actor Actor, saleID string, in FinalizeInput) (*entity.Sale, error) {
	if in.PaymentMethod == "" {
		return nil, domain.ErrPaymentMethodRequired
	}
	if in.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CustomerID != nil {
		customer, err := o.customerRepo.GetByID(actor.CompanyID, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	var finalized *entity.Sale
	err := o.txRunner.RunCheckout(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		finRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error {
		sale, err := o.lockOpenSale(saleRepo, actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		items, err := itemRepo.ListBySale(sale.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptySale
		}
		if !sale.Recompute(items) {
			return domain.ErrTotalWouldBeNegative
		}

		sale.Status = entity.SaleFinalizada
		sale.PaymentMethod = in.PaymentMethod
		sale.FinalizedAt = &now
		if in.CustomerID != nil {
			sale.CustomerID = in.CustomerID
		}
		if err := saleRepo.Update(sale); err != nil {
			return err
		}

		if _, err := o.financeLedger.RecordSaleReceiptInTx(finRepo, accountRepo,
			actor.CompanyID, actor.UserID, in.AccountID, sale.ID,
			sale.Total, in.PaymentMethod, now); err != nil {
			return err
		}
		finalized = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finalized, nil
}

// Cancel cancela uma venda aberta ou finalizada. Venda finalizada só pode
// ser cancelada por gerente/admin. Em uma única transação: devolucao de
// estoque para cada linha de produto, cancelamento do movimento financeiro
// vinculado (se houver) e transição para "cancelada" com o motivo anotado.
// O cancelamento registra entradas NOVAS no ledger; o histórico nunca é
// mutado nem apagado.
func (o *Orchestrator) Cancel(ctx context.Context, actor Actor, saleID, reason string) (*entity.Sale, error) {
	now := time.Now()
	var canceled *entity.Sale
	err := o.txRunner.RunCheckout(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		finRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleCancelada {
			return domain.ErrAlreadyCancelled
		}
		if sale.Status == entity.SaleFinalizada && !domaincheckout.CanCancelFinalized(actor.Role) {
			return domain.ErrForbidden
		}

		// Reversão de estoque: uma devolucao nova por linha de produto.
		items, err := itemRepo.ListBySale(sale.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := o.stockLedger.InflowForSaleInTx(movRepo, productRepo,
				actor.CompanyID, *item.ProductID, actor.UserID, sale.ID,
				item.Quantity, "cancelamento da venda", now); err != nil {
				return err
			}
		}

		// Estorno financeiro, se a venda chegou a gerar receita.
		fin, err := finRepo.FindBySale(actor.CompanyID, sale.ID)
		if err != nil {
			return err
		}
		if fin != nil && fin.Status != entity.FinancialCancelado {
			if _, err := o.financeLedger.CancelInTx(finRepo, accountRepo,
				actor.CompanyID, fin.ID, "cancelamento da venda "+sale.ID); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleCancelada
		sale.CanceledAt = &now
		if reason != "" {
			if sale.Notes != "" {
				sale.Notes += "; "
			}
			sale.Notes += "cancelada: " + reason
		}
		if err := saleRepo.Update(sale); err != nil {
			return err
		}
		canceled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canceled, nil
}

// GetSale retorna a venda com seus itens (leitura, sem locks).
func (o *Orchestrator) GetSale(ctx context.Context, actor Actor, saleID string) (*entity.Sale, []*entity.SaleItem, error) {
	sale, err := o.saleRepo.GetByID(actor.CompanyID, saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := o.itemRepo.ListBySale(sale.ID)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}
