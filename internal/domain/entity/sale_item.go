package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem é um item de venda. Exatamente um de ProductID/ServiceID é
// preenchido. UnitPrice é congelado no momento da inclusão: mudanças
// posteriores de preço no catálogo não afetam vendas abertas.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   *string
	ServiceID   *string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // desconto por item, ≤ Quantity×UnitPrice
	Total       decimal.Decimal // Quantity×UnitPrice − Discount
	PromotionID *string
	CreatedAt   time.Time
}

// ComputeTotal recalcula o total da linha. Retorna false se o desconto
// excede quantidade×preço unitário.
func (it *SaleItem) ComputeTotal() bool {
	gross := it.Quantity.Mul(it.UnitPrice)
	if it.Discount.IsNegative() || it.Discount.GreaterThan(gross) {
		return false
	}
	it.Total = gross.Sub(it.Discount)
	return true
}
