package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitorsavi/pdv-api/internal/application/dto"
	"github.com/vitorsavi/pdv-api/internal/domain"
)

// domainErrorResponse mapeia os erros sentinela do domínio para HTTP.
// Erros de conflito de estado (estoque/saldo insuficiente, venda fechada,
// movimento fora de pendente) respondem 409; regra de permissão, 403;
// loja indisponível, 503.
func domainErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "não autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operação não permitida para o perfil"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "estoque insuficiente"})
	case errors.Is(err, domain.ErrInsufficientBalance):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BALANCE", Message: "saldo insuficiente"})
	case errors.Is(err, domain.ErrNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "movimento não está pendente"})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "já cancelado"})
	case errors.Is(err, domain.ErrSaleNotOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_NOT_OPEN", Message: "a venda não está aberta"})
	case errors.Is(err, domain.ErrSaleAlreadyOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_ALREADY_OPEN", Message: "o operador já tem uma venda aberta"})
	case errors.Is(err, domain.ErrEmptySale):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMPTY_SALE", Message: "venda sem itens"})
	case errors.Is(err, domain.ErrPaymentMethodRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PAYMENT_METHOD_REQUIRED", Message: "forma de pagamento obrigatória"})
	case errors.Is(err, domain.ErrDiscountExceedsLimit):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DISCOUNT_EXCEEDS_LIMIT", Message: "desconto acima do teto do perfil"})
	case errors.Is(err, domain.ErrTotalWouldBeNegative):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TOTAL_WOULD_BE_NEGATIVE", Message: "o total da venda ficaria negativo"})
	case errors.Is(err, domain.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "serviço temporariamente indisponível"})
	}
	// Erro sem mapeamento não expõe detalhe interno na resposta.
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
}
