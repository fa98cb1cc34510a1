package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementRequest entrada para registrar um movimento de estoque.
// Para type=ajuste, quantity é o valor ALVO da contagem.
type StockMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required,oneof=entrada devolucao producao saida perda ajuste"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
}

// StockMovementResponse saída de um movimento de estoque.
type StockMovementResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	SaleID    *string         `json:"sale_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

// StockMovementListResponse lista paginada de movimentos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// CurrentStockResponse leitura da projeção de estoque de um produto.
type CurrentStockResponse struct {
	ProductID    string          `json:"product_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}
