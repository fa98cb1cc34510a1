package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status da venda. aberta é o estado inicial; finalizada e cancelada são
// terminais — nenhuma transição sai deles.
const (
	SaleAberta     = "aberta"
	SaleFinalizada = "finalizada"
	SaleCancelada  = "cancelada"
)

// Sale representa uma venda PDV (aggregate root dos itens).
// Subtotal = Σ quantidade×preço unitário dos itens (antes de descontos);
// Total = Subtotal − Σ descontos de item − Discount, nunca negativo.
type Sale struct {
	ID            string
	CompanyID     string
	Status        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal // desconto da venda (além dos descontos por item)
	Total         decimal.Decimal
	CustomerID    *string
	PaymentMethod string // definido no finalizar (dinheiro, pix, cartao, ...)
	OperatorID    string // operador dono da venda aberta
	Notes         string
	OpenedAt      time.Time
	FinalizedAt   *time.Time
	CanceledAt    *time.Time
}

// Recompute recalcula Subtotal e Total a partir dos itens, na ordem de
// inserção. Retorna false se o resultado ficaria negativo (o caller deve
// rejeitar a operação sem persistir nada).
func (s *Sale) Recompute(items []*SaleItem) bool {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
		itemDiscounts = itemDiscounts.Add(it.Discount)
	}
	total := subtotal.Sub(itemDiscounts).Sub(s.Discount)
	if total.IsNegative() {
		return false
	}
	s.Subtotal = subtotal
	s.Total = total
	return true
}

// IsOpen indica se a venda ainda aceita mutação de itens/desconto.
func (s *Sale) IsOpen() bool { return s.Status == SaleAberta }
