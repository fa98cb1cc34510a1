package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest entrada para criar uma conta financeira.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AccountResponse saída de uma conta. Balance é a projeção do ledger.
type AccountResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
