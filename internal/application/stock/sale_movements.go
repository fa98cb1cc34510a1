package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// OutflowForSaleInTx registra a saída de estoque de um item de venda usando
// os repositórios do caller (mesma transação). Implementa checkout.StockLedger:
// adicionar item e baixar estoque são um único passo atômico.
func (uc *LedgerUseCase) OutflowForSaleInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	companyID, productID, userID, saleID string,
	quantity decimal.Decimal,
	now time.Time,
) error {
	_, err := uc.ApplyMovementInTx(movRepo, productRepo, MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: productID,
		Type:      entity.StockMovementSaida,
		Quantity:  quantity,
		SaleID:    &saleID,
	}, now)
	return err
}

// InflowForSaleInTx devolve estoque de um item de venda (remoção de item,
// redução de quantidade ou cancelamento) na mesma transação do caller.
func (uc *LedgerUseCase) InflowForSaleInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	companyID, productID, userID, saleID string,
	quantity decimal.Decimal,
	note string,
	now time.Time,
) error {
	_, err := uc.ApplyMovementInTx(movRepo, productRepo, MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: productID,
		Type:      entity.StockMovementDevolucao,
		Quantity:  quantity,
		SaleID:    &saleID,
		Note:      note,
	}, now)
	return err
}
