package domain

import "errors"

// Erros de domínio (sem dependências externas). O núcleo retorna sempre um
// destes valores; a camada HTTP faz o mapeamento para status codes.
var (
	ErrNotFound     = errors.New("recurso não encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("não autorizado")
	ErrForbidden    = errors.New("acesso negado")
	ErrUnavailable  = errors.New("armazenamento indisponível")

	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está cadastrado")

	// Ledger de estoque
	ErrInsufficientStock = errors.New("estoque insuficiente")

	// Ledger financeiro
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrNotPending          = errors.New("movimento não está pendente")
	ErrAlreadyCancelled    = errors.New("movimento já cancelado")

	// Venda (PDV)
	ErrSaleNotOpen           = errors.New("venda não está aberta")
	ErrSaleAlreadyOpen       = errors.New("operador já possui venda aberta")
	ErrEmptySale             = errors.New("venda sem itens")
	ErrPaymentMethodRequired = errors.New("forma de pagamento obrigatória")
	ErrDiscountExceedsLimit  = errors.New("desconto excede o limite do perfil")
	ErrTotalWouldBeNegative  = errors.New("desconto deixaria o total negativo")
)
