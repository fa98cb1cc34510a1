package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento financeiro.
const (
	FinancialReceita       = "receita"
	FinancialDespesa       = "despesa"
	FinancialTransferencia = "transferencia"
)

// Status do movimento financeiro. "cancelado" é terminal.
const (
	FinancialPendente  = "pendente"
	FinancialPago      = "pago"
	FinancialCancelado = "cancelado"
)

// FinancialMovement é uma entrada do ledger financeiro. O registro em si é
// imutável; apenas o status transita (pendente→pago, *→cancelado) e cada
// transição aplica seu delta de saldo na mesma transação.
//
// Para transferencia a linha única representa a perna de débito de AccountID;
// o crédito em CounterAccountID é a mutação dupla de saldo na mesma transação.
type FinancialMovement struct {
	ID               string
	CompanyID        string
	Type             string // receita, despesa, transferencia
	Status           string // pendente, pago, cancelado
	Value            decimal.Decimal
	AccountID        string
	CounterAccountID *string // obrigatório para transferencia
	SaleID           *string // referência fraca à venda
	Description      string
	Date             time.Time
	PaymentDate      *time.Time
	PaymentMethod    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        string
}

// ValidFinancialType valida o tipo do movimento.
func ValidFinancialType(t string) bool {
	return t == FinancialReceita || t == FinancialDespesa || t == FinancialTransferencia
}
