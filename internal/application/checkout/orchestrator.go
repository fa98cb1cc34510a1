package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain"
	domaincheckout "github.com/vitorsavi/pdv-api/internal/domain/checkout"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// Orchestrator coordena venda, ledger de estoque e ledger financeiro nas
// operações do PDV. Toda operação mutante abre uma transação, revalida o
// estado sob lock de linha e commita ou desfaz por inteiro: nenhum efeito
// parcial é observável.
type Orchestrator struct {
	txRunner      TxRunner
	stockLedger   StockLedger
	financeLedger FinanceLedger

	// Repositórios atados ao pool, para leituras fora de transação.
	saleRepo     repository.SaleRepository
	itemRepo     repository.SaleItemRepository
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
	customerRepo repository.CustomerRepository
	accountRepo  repository.AccountRepository
}

// NewOrchestrator constrói o orquestrador do PDV.
func NewOrchestrator(
	txRunner TxRunner,
	stockLedger StockLedger,
	financeLedger FinanceLedger,
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	customerRepo repository.CustomerRepository,
	accountRepo repository.AccountRepository,
) *Orchestrator {
	return &Orchestrator{
		txRunner:      txRunner,
		stockLedger:   stockLedger,
		financeLedger: financeLedger,
		saleRepo:      saleRepo,
		itemRepo:      itemRepo,
		productRepo:   productRepo,
		serviceRepo:   serviceRepo,
		customerRepo:  customerRepo,
		accountRepo:   accountRepo,
	}
}

// Open abre uma venda para o operador. Um operador só pode ter uma venda
// aberta por vez; a segunda tentativa falha com ErrSaleAlreadyOpen.
func (o *Orchestrator) Open(ctx context.Context, actor Actor, customerID *string) (*entity.Sale, error) {
	if customerID != nil {
		customer, err := o.customerRepo.GetByID(actor.CompanyID, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		Status:     entity.SaleAberta,
		Subtotal:   decimal.Zero,
		Discount:   decimal.Zero,
		Total:      decimal.Zero,
		CustomerID: customerID,
		OperatorID: actor.UserID,
		OpenedAt:   now,
	}
	err := o.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.SaleItemRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		// O lock do operador serializa aberturas concorrentes: a checagem
		// abaixo e o insert ficam atômicos frente a outra transação.
		if err := saleRepo.LockOperator(actor.CompanyID, actor.UserID); err != nil {
			return err
		}
		open, err := saleRepo.FindOpenByOperator(actor.CompanyID, actor.UserID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrSaleAlreadyOpen
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// AddItemInput entrada para incluir um item na venda. Exatamente um de
// ProductID/ServiceID. UnitPrice nulo usa o preço atual do catálogo; o valor
// resolvido fica congelado no item.
type AddItemInput struct {
	ProductID   *string
	ServiceID   *string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	Discount    decimal.Decimal
	PromotionID *string
}

// AddItem inclui um item na venda aberta. Para linha de produto a baixa de
// estoque (saida) acontece na mesma transação; com ErrInsufficientStock nada
// é persistido.
func (o *Orchestrator) AddItem(ctx context.Context, actor Actor, saleID string, in AddItemInput) (*entity.SaleItem, error) {
	if (in.ProductID == nil) == (in.ServiceID == nil) {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Resolve preço e existência no catálogo (somente leitura, fora da tx;
	// a linha do produto é re-bloqueada dentro dela pelo ledger).
	unitPrice, err := o.resolveUnitPrice(actor.CompanyID, in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.SaleItem{
		ID:          uuid.New().String(),
		SaleID:      saleID,
		ProductID:   in.ProductID,
		ServiceID:   in.ServiceID,
		Quantity:    in.Quantity,
		UnitPrice:   unitPrice,
		Discount:    in.Discount,
		PromotionID: in.PromotionID,
		CreatedAt:   now,
	}
	if !item.ComputeTotal() {
		return nil, domain.ErrInvalidInput
	}

	err = o.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, err := o.lockOpenSale(saleRepo, actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		if in.ProductID != nil {
			if err := o.stockLedger.OutflowForSaleInTx(movRepo, productRepo,
				actor.CompanyID, *in.ProductID, actor.UserID, saleID, in.Quantity, now); err != nil {
				return err
			}
		}
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		return o.recomputeAndSave(saleRepo, itemRepo, sale)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem remove um item da venda aberta, devolvendo o estoque da linha
// de produto na mesma transação.
func (o *Orchestrator) RemoveItem(ctx context.Context, actor Actor, saleID, itemID string) error {
	now := time.Now()
	return o.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, err := o.lockOpenSale(saleRepo, actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		item, err := itemRepo.GetByID(saleID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.ProductID != nil {
			if err := o.stockLedger.InflowForSaleInTx(movRepo, productRepo,
				actor.CompanyID, *item.ProductID, actor.UserID, saleID,
				item.Quantity, "item removido da venda", now); err != nil {
				return err
			}
		}
		if err := itemRepo.Delete(saleID, itemID); err != nil {
			return err
		}
		return o.recomputeAndSave(saleRepo, itemRepo, sale)
	})
}

// SetQuantity ajusta a quantidade de um item da venda aberta. Um único
// movimento compensatório do tamanho do delta é aplicado: saida ao aumentar
// (sujeito a ErrInsufficientStock), devolucao ao diminuir.
func (o *Orchestrator) SetQuantity(ctx context.Context, actor Actor, saleID, itemID string, newQuantity decimal.Decimal) error {
	if !newQuantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return o.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, err := o.lockOpenSale(saleRepo, actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		item, err := itemRepo.GetByID(saleID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		delta := newQuantity.Sub(item.Quantity)
		if item.ProductID != nil && !delta.IsZero() {
			if delta.GreaterThan(decimal.Zero) {
				err = o.stockLedger.OutflowForSaleInTx(movRepo, productRepo,
					actor.CompanyID, *item.ProductID, actor.UserID, saleID, delta, now)
			} else {
				err = o.stockLedger.InflowForSaleInTx(movRepo, productRepo,
					actor.CompanyID, *item.ProductID, actor.UserID, saleID,
					delta.Neg(), "quantidade reduzida na venda", now)
			}
			if err != nil {
				return err
			}
		}
		item.Quantity = newQuantity
		if !item.ComputeTotal() {
			return domain.ErrInvalidInput
		}
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		return o.recomputeAndSave(saleRepo, itemRepo, sale)
	})
}

// ApplyDiscount aplica o desconto da venda. O teto do perfil é percentual
// do SUBTOTAL (não do total remanescente); acima do teto falha com
// ErrDiscountExceedsLimit, e total negativo com ErrTotalWouldBeNegative.
func (o *Orchestrator) ApplyDiscount(ctx context.Context, actor Actor, saleID string, amount decimal.Decimal) (*entity.Sale, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Sale
	err := o.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleItemRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := o.lockOpenSale(saleRepo, actor.CompanyID, saleID)
		if err != nil {
			return err
		}
		if !domaincheckout.DiscountAllowed(actor.Role, amount, sale.Subtotal) {
			return domain.ErrDiscountExceedsLimit
		}
		sale.Discount = amount
		if err := o.recomputeAndSave(saleRepo, itemRepo, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// resolveUnitPrice congela o preço unitário do item: o informado na inclusão
// ou, na falta dele, o preço atual do catálogo.
func (o *Orchestrator) resolveUnitPrice(companyID string, in AddItemInput) (decimal.Decimal, error) {
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		// Mesmo com preço informado, o item precisa existir e estar ativo.
		if err := o.checkCatalog(companyID, in); err != nil {
			return decimal.Zero, err
		}
		return *in.UnitPrice, nil
	}
	if in.ProductID != nil {
		product, err := o.productRepo.GetByID(companyID, *in.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if product == nil || !product.Active {
			return decimal.Zero, domain.ErrNotFound
		}
		return product.Price, nil
	}
	service, err := o.serviceRepo.GetByID(companyID, *in.ServiceID)
	if err != nil {
		return decimal.Zero, err
	}
	if service == nil || !service.Active {
		return decimal.Zero, domain.ErrNotFound
	}
	return service.Price, nil
}

func (o *Orchestrator) checkCatalog(companyID string, in AddItemInput) error {
	if in.ProductID != nil {
		product, err := o.productRepo.GetByID(companyID, *in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrNotFound
		}
		return nil
	}
	service, err := o.serviceRepo.GetByID(companyID, *in.ServiceID)
	if err != nil {
		return err
	}
	if service == nil || !service.Active {
		return domain.ErrNotFound
	}
	return nil
}

// lockOpenSale bloqueia a linha da venda e valida que segue aberta.
func (o *Orchestrator) lockOpenSale(saleRepo repository.SaleRepository, companyID, saleID string) (*entity.Sale, error) {
	sale, err := saleRepo.GetForUpdate(companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !sale.IsOpen() {
		return nil, domain.ErrSaleNotOpen
	}
	return sale, nil
}

// recomputeAndSave recalcula subtotal/total a partir dos itens persistidos e
// grava a venda. Total negativo rejeita a operação inteira.
func (o *Orchestrator) recomputeAndSave(saleRepo repository.SaleRepository, itemRepo repository.SaleItemRepository, sale *entity.Sale) error {
	items, err := itemRepo.ListBySale(sale.ID)
	if err != nil {
		return err
	}
	if !sale.Recompute(items) {
		return domain.ErrTotalWouldBeNegative
	}
	return saleRepo.Update(sale)
}
