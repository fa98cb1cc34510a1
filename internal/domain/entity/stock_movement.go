package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento de estoque.
const (
	StockMovementEntrada   = "entrada"   // compra/recebimento
	StockMovementDevolucao = "devolucao" // devolução de venda
	StockMovementProducao  = "producao"  // produção própria
	StockMovementSaida     = "saida"     // venda/saída
	StockMovementPerda     = "perda"     // quebra, vencimento
	StockMovementAjuste    = "ajuste"    // acerto absoluto de contagem
)

// StockMovement é uma entrada imutável do ledger de estoque.
//
// Quantity é positiva para entrada/devolucao/producao e saida/perda (o sinal
// é dado pelo tipo no replay). Para ajuste o valor alvo da contagem NÃO é
// persistido; persiste-se a diferença assinada (alvo − atual), de modo que o
// replay do ledger reproduza a projeção para todos os tipos.
type StockMovement struct {
	ID        string
	CompanyID string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	SaleID    *string         // referência fraca à venda que originou o movimento
	Note      string
	CreatedAt time.Time
	CreatedBy string // UserID
}

// IsInflow indica se o tipo soma estoque.
func IsInflow(movementType string) bool {
	switch movementType {
	case StockMovementEntrada, StockMovementDevolucao, StockMovementProducao:
		return true
	}
	return false
}

// IsOutflow indica se o tipo subtrai estoque.
func IsOutflow(movementType string) bool {
	return movementType == StockMovementSaida || movementType == StockMovementPerda
}

// ValidStockMovementType valida o tipo do movimento.
func ValidStockMovementType(movementType string) bool {
	return IsInflow(movementType) || IsOutflow(movementType) || movementType == StockMovementAjuste
}
