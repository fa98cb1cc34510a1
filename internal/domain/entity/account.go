package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account representa uma conta financeira (caixa, banco).
// Balance = InitialBalance + soma assinada dos movimentos "pago"; o único
// caminho de escrita é o ledger financeiro, na mesma transação da mudança de
// status do movimento.
type Account struct {
	ID             string
	CompanyID      string
	Name           string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal // projeção do ledger
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
