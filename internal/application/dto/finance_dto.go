package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialMovementRequest entrada para registrar um movimento financeiro.
// payment_date preenchido => o movimento nasce "pago".
type FinancialMovementRequest struct {
	Type             string          `json:"type" validate:"required,oneof=receita despesa transferencia"`
	Value            decimal.Decimal `json:"value"`
	AccountID        string          `json:"account_id" validate:"required,uuid"`
	CounterAccountID *string         `json:"counter_account_id" validate:"omitempty,uuid"`
	Description      string          `json:"description"`
	PaymentDate      *time.Time      `json:"payment_date"`
	PaymentMethod    string          `json:"payment_method"`
}

// ConfirmPaymentRequest entrada para confirmar um movimento pendente.
type ConfirmPaymentRequest struct {
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod string     `json:"payment_method"`
}

// CancelRequest motivo de cancelamento (movimento financeiro ou venda).
type CancelRequest struct {
	Reason string `json:"reason"`
}

// FinancialMovementResponse saída de um movimento financeiro.
type FinancialMovementResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	Value            decimal.Decimal `json:"value"`
	AccountID        string          `json:"account_id"`
	CounterAccountID *string         `json:"counter_account_id,omitempty"`
	SaleID           *string         `json:"sale_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	Date             time.Time       `json:"date"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// FinancialMovementListResponse lista paginada de movimentos financeiros.
type FinancialMovementListResponse struct {
	Items []FinancialMovementResponse `json:"items"`
	Page  PageResponse                `json:"page"`
}
