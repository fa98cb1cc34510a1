package finance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// RecordSaleReceiptInTx cria a receita "pago" vinculada a uma venda
// finalizada, usando os repositórios do caller (mesma transação). Implementa
// checkout.FinanceLedger: a mudança de status da venda e a criação do
// movimento financeiro commitam juntas.
func (uc *LedgerUseCase) RecordSaleReceiptInTx(
	movRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
	companyID, userID, accountID, saleID string,
	value decimal.Decimal,
	paymentMethod string,
	now time.Time,
) (*entity.FinancialMovement, error) {
	paymentDate := now
	return uc.RecordInTx(movRepo, accountRepo, RecordInput{
		CompanyID:     companyID,
		UserID:        userID,
		Type:          entity.FinancialReceita,
		Value:         value,
		AccountID:     accountID,
		SaleID:        &saleID,
		Description:   "recebimento de venda PDV",
		PaymentDate:   &paymentDate,
		PaymentMethod: paymentMethod,
	}, now)
}
