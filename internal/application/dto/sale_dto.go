package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSaleRequest entrada para abrir uma venda PDV.
type OpenSaleRequest struct {
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
}

// AddSaleItemRequest entrada para adicionar um item à venda aberta.
// Exatamente um de product_id/service_id. unit_price nulo usa o preço atual
// do catálogo.
type AddSaleItemRequest struct {
	ProductID   *string          `json:"product_id" validate:"omitempty,uuid"`
	ServiceID   *string          `json:"service_id" validate:"omitempty,uuid"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal  `json:"discount"`
	PromotionID *string          `json:"promotion_id" validate:"omitempty,uuid"`
}

// SetQuantityRequest entrada para ajustar a quantidade de um item.
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// ApplyDiscountRequest entrada para o desconto da venda (valor absoluto).
type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// FinalizeSaleRequest entrada para finalizar a venda.
type FinalizeSaleRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required"`
	AccountID     string  `json:"account_id" validate:"required,uuid"`
	CustomerID    *string `json:"customer_id" validate:"omitempty,uuid"`
}

// SaleItemResponse saída de um item de venda.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   *string         `json:"product_id,omitempty"`
	ServiceID   *string         `json:"service_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PromotionID *string         `json:"promotion_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleResponse saída de uma venda.
type SaleResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	OperatorID    string             `json:"operator_id"`
	Notes         string             `json:"notes,omitempty"`
	OpenedAt      time.Time          `json:"opened_at"`
	FinalizedAt   *time.Time         `json:"finalized_at,omitempty"`
	CanceledAt    *time.Time         `json:"canceled_at,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de vendas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
