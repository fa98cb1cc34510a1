package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vitorsavi/pdv-api/internal/application/dto"
	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// FinanceHandler ledger financeiro: registro, confirmação e cancelamento.
type FinanceHandler struct {
	ledger *finance.LedgerUseCase
}

// NewFinanceHandler constrói o handler.
func NewFinanceHandler(ledger *finance.LedgerUseCase) *FinanceHandler {
	return &FinanceHandler{ledger: ledger}
}

// Record godoc
// @Summary      Registrar movimento financeiro
// @Description  payment_date preenchido cria o movimento já "pago" e aplica o
// @Description  delta de saldo; vazio cria "pendente". transferencia exige
// @Description  counter_account_id.
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinancialMovementRequest  true  "movimento"
// @Success      201   {object}  dto.FinancialMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/movements [post]
// @Security     BearerAuth
func (h *FinanceHandler) Record(c *fiber.Ctx) error {
	var in dto.FinancialMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.ledger.Record(c.Context(), finance.RecordInput{
		CompanyID:        GetCompanyID(c),
		UserID:           GetUserID(c),
		Type:             in.Type,
		Value:            in.Value,
		AccountID:        in.AccountID,
		CounterAccountID: in.CounterAccountID,
		Description:      in.Description,
		PaymentDate:      in.PaymentDate,
		PaymentMethod:    in.PaymentMethod,
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFinancialMovementResponse(mov))
}

// Confirm godoc
// @Summary      Confirmar pagamento de movimento pendente
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID do movimento"
// @Param        body  body  dto.ConfirmPaymentRequest  false "data e forma de pagamento"
// @Success      200   {object}  dto.FinancialMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/movements/{id}/confirmar [post]
// @Security     BearerAuth
func (h *FinanceHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	paymentDate := time.Now()
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}
	mov, err := h.ledger.Confirm(c.Context(), GetCompanyID(c), c.Params("id"), paymentDate, in.PaymentMethod)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toFinancialMovementResponse(mov))
}

// Cancel godoc
// @Summary      Cancelar movimento financeiro
// @Description  Pago sofre o delta inverso de saldo; pendente só muda de
// @Description  status. Cancelado é terminal.
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID do movimento"
// @Param        body  body  dto.CancelRequest  false  "motivo"
// @Success      200   {object}  dto.FinancialMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/movements/{id}/cancelar [post]
// @Security     BearerAuth
func (h *FinanceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.ledger.Cancel(c.Context(), GetCompanyID(c), c.Params("id"), in.Reason)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toFinancialMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimentos financeiros
// @Tags         finance
// @Produce      json
// @Param        from  query  string  false  "início do período (RFC3339)"
// @Param        to    query  string  false  "fim do período (RFC3339)"
// @Success      200   {object}  dto.FinancialMovementListResponse
// @Router       /api/finance/movements [get]
// @Security     BearerAuth
func (h *FinanceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginação inválida"})
	}
	page.DefaultPage()
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "período inválido (usar RFC3339)"})
	}
	list, err := h.ledger.ListMovements(c.Context(), GetCompanyID(c), from, to, page.Limit, page.Offset)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	items := make([]dto.FinancialMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toFinancialMovementResponse(m))
	}
	return c.JSON(dto.FinancialMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func toFinancialMovementResponse(m *entity.FinancialMovement) dto.FinancialMovementResponse {
	return dto.FinancialMovementResponse{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		Type:             m.Type,
		Status:           m.Status,
		Value:            m.Value,
		AccountID:        m.AccountID,
		CounterAccountID: m.CounterAccountID,
		SaleID:           m.SaleID,
		Description:      m.Description,
		Date:             m.Date,
		PaymentDate:      m.PaymentDate,
		PaymentMethod:    m.PaymentMethod,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
