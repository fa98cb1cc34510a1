package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// LedgerUseCase registra movimentos de estoque de forma transacional
// (entrada, devolucao, producao, saida, perda, ajuste) com bloqueio de linha
// (SELECT FOR UPDATE) e Commit/Rollback. A projeção estoque_atual do produto
// é escrita na mesma transação do insert do movimento — nunca em dois passos.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewLedgerUseCase constrói o caso de uso. productRepo e movRepo atados ao
// pool são usados apenas para leitura fora de transação.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// MovementInput entrada para registrar um movimento de estoque.
// Quantity: quantidade positiva para entrada/devolucao/producao/saida/perda;
// para ajuste é o valor ALVO da contagem (≥ 0).
type MovementInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	SaleID    *string
	Note      string
}

// ApplyMovement inicia uma transação, bloqueia a linha do produto, valida e
// aplica o movimento, e faz Commit ou Rollback. Saída que deixaria o estoque
// negativo falha com ErrInsufficientStock sem nenhum efeito persistido.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.CompanyID == "" || input.ProductID == "" || !entity.ValidStockMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.StockMovementAjuste {
		if input.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	} else if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, err := uc.ApplyMovementInTx(movRepo, productRepo, input, now)
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyMovementInTx aplica o movimento usando os repositórios do caller
// (mesma transação). É o caminho compartilhado com o orquestrador de venda:
// adicionar item e baixar estoque são um único passo atômico.
func (uc *LedgerUseCase) ApplyMovementInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	// Bloqueia a linha do produto: movimentos concorrentes do mesmo produto
	// serializam aqui. Duas saídas simultâneas nunca observam ambas o mesmo
	// estoque disponível.
	product, err := productRepo.GetForUpdate(input.CompanyID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	current := product.CurrentStock
	quantity := input.Quantity
	note := input.Note
	var newStock decimal.Decimal

	switch {
	case entity.IsInflow(input.Type):
		newStock = current.Add(quantity)
	case entity.IsOutflow(input.Type):
		newStock = current.Sub(quantity)
		if newStock.IsNegative() {
			return nil, domain.ErrInsufficientStock
		}
	default: // ajuste: persiste a diferença assinada, não o alvo
		target := quantity
		quantity = target.Sub(current)
		newStock = target
		note = appendNote(note, fmt.Sprintf("ajustado de %s para %s", current.String(), target.String()))
	}

	if err := productRepo.UpdateStock(input.CompanyID, input.ProductID, newStock); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		CompanyID: input.CompanyID,
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  quantity,
		SaleID:    input.SaleID,
		Note:      note,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CurrentStock lê a projeção de estoque do produto (caminho rápido; o
// replay do histórico é operação de auditoria, fora do núcleo transacional).
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, companyID, productID string) (decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(companyID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return product.CurrentStock, nil
}

// ListBelowMinimum varredura read-only dos produtos com estoque abaixo do
// mínimo. Sem efeitos de escrita.
func (uc *LedgerUseCase) ListBelowMinimum(ctx context.Context, companyID string) ([]*entity.Product, error) {
	return uc.productRepo.ListBelowMinimum(companyID)
}

// ListMovements lista o histórico de movimentos (trilha de auditoria).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID != "" {
		return uc.movRepo.ListByProduct(companyID, productID, from, to, limit, offset)
	}
	return uc.movRepo.ListByCompany(companyID, from, to, limit, offset)
}

func appendNote(note, suffix string) string {
	if note == "" {
		return suffix
	}
	return note + "; " + suffix
}
