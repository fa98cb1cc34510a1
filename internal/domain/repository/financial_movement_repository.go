package repository

import (
	"time"

	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// FinancialMovementRepository define o porto de persistência do ledger
// financeiro. A linha é append-only exceto pela transição de status
// (UpdateStatus), que acontece na mesma transação do delta de saldo.
type FinancialMovementRepository interface {
	Create(movement *entity.FinancialMovement) error
	GetByID(companyID, id string) (*entity.FinancialMovement, error)
	// GetForUpdate bloqueia a linha do movimento; impede confirmar/cancelar
	// concorrentes sobre o mesmo movimento.
	GetForUpdate(companyID, id string) (*entity.FinancialMovement, error)
	UpdateStatus(movement *entity.FinancialMovement) error
	FindBySale(companyID, saleID string) (*entity.FinancialMovement, error)
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.FinancialMovement, error)
}
