package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do catálogo.
// CurrentStock é uma projeção materializada do ledger de movimentos: o único
// caminho de escrita é o ledger de estoque, sempre na mesma transação do
// insert do movimento (ver application/stock).
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // preço de venda
	CurrentStock decimal.Decimal // projeção do ledger, nunca recalculada no caminho quente
	MinStock     decimal.Decimal // abaixo disso o produto entra no relatório de reposição
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
