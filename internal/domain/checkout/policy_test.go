package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestMaxDiscountPercent_PorPerfil(t *testing.T) {
	assert.True(t, MaxDiscountPercent(entity.RoleAdmin).Equal(dec("100")))
	assert.True(t, MaxDiscountPercent(entity.RoleGerente).Equal(dec("30")))
	assert.True(t, MaxDiscountPercent(entity.RoleOperador).Equal(dec("10")))
	assert.True(t, MaxDiscountPercent("estagiario").IsZero(), "perfil desconhecido não tem teto")
}

func TestDiscountAllowed_DenominadorSubtotal(t *testing.T) {
	// 20/300 = 6.67% <= 10% do operador
	assert.True(t, DiscountAllowed(entity.RoleOperador, dec("20"), dec("300")))
	// 50/300 = 16.67% > 10%
	assert.False(t, DiscountAllowed(entity.RoleOperador, dec("50"), dec("300")))
	// gerente: 30% exatos passam
	assert.True(t, DiscountAllowed(entity.RoleGerente, dec("90"), dec("300")))
	assert.False(t, DiscountAllowed(entity.RoleGerente, dec("90.01"), dec("300")))
	// admin pode 100%
	assert.True(t, DiscountAllowed(entity.RoleAdmin, dec("300"), dec("300")))
}

func TestDiscountAllowed_Bordas(t *testing.T) {
	assert.False(t, DiscountAllowed(entity.RoleAdmin, dec("-1"), dec("100")), "desconto negativo nunca")
	assert.True(t, DiscountAllowed(entity.RoleOperador, dec("0"), dec("0")))
	assert.False(t, DiscountAllowed(entity.RoleAdmin, dec("1"), dec("0")), "subtotal zero só admite desconto zero")
}

func TestCanCancelFinalized(t *testing.T) {
	assert.True(t, CanCancelFinalized(entity.RoleAdmin))
	assert.True(t, CanCancelFinalized(entity.RoleGerente))
	assert.False(t, CanCancelFinalized(entity.RoleOperador))
	assert.False(t, CanCancelFinalized(""))
}
