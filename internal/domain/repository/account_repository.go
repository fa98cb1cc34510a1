package repository

import (
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// AccountRepository define o porto de persistência para Account (DIP).
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(companyID, id string) (*entity.Account, error)
	// GetForUpdate bloqueia a linha da conta (SELECT FOR UPDATE); serializa
	// as mutações de saldo da conta.
	GetForUpdate(companyID, id string) (*entity.Account, error)
	// UpdateBalance grava a projeção de saldo. Único caminho de escrita é o
	// ledger financeiro, na mesma transação da transição de status.
	UpdateBalance(companyID, id string, balance decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Account, error)
}
