// Package checkout contém as regras puras do PDV que não dependem de
// persistência: tabela de tetos de desconto por perfil e permissão de
// cancelamento de venda finalizada.
package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// maxDiscountByRole teto de desconto da venda, em percentual do SUBTOTAL
// (não do total remanescente). Perfil desconhecido => 0.
var maxDiscountByRole = map[string]decimal.Decimal{
	entity.RoleAdmin:    decimal.NewFromInt(100),
	entity.RoleGerente:  decimal.NewFromInt(30),
	entity.RoleOperador: decimal.NewFromInt(10),
}

// MaxDiscountPercent retorna o teto de desconto (0–100) para o perfil.
func MaxDiscountPercent(role string) decimal.Decimal {
	if pct, ok := maxDiscountByRole[role]; ok {
		return pct
	}
	return decimal.Zero
}

// DiscountAllowed verifica se um desconto de venda cabe no teto do perfil.
// O denominador é sempre o subtotal; subtotal zero só admite desconto zero.
func DiscountAllowed(role string, amount, subtotal decimal.Decimal) bool {
	if amount.IsNegative() {
		return false
	}
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return amount.IsZero()
	}
	pct := amount.Mul(decimal.NewFromInt(100)).Div(subtotal)
	return pct.LessThanOrEqual(MaxDiscountPercent(role))
}

// CanCancelFinalized indica se o perfil pode cancelar venda já finalizada.
// Venda aberta qualquer perfil cancela.
func CanCancelFinalized(role string) bool {
	return role == entity.RoleAdmin || role == entity.RoleGerente
}
