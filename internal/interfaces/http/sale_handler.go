package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitorsavi/pdv-api/internal/application/checkout"
	"github.com/vitorsavi/pdv-api/internal/application/dto"
	"github.com/vitorsavi/pdv-api/internal/application/receipts"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// SaleHandler operações da venda PDV: abertura, itens, desconto, checkout e
// emissão de documentos.
type SaleHandler struct {
	orchestrator *checkout.Orchestrator
	receipts     *receipts.UseCase
}

// NewSaleHandler constrói o handler.
func NewSaleHandler(orchestrator *checkout.Orchestrator, receipts *receipts.UseCase) *SaleHandler {
	return &SaleHandler{orchestrator: orchestrator, receipts: receipts}
}

func actorFrom(c *fiber.Ctx) checkout.Actor {
	return checkout.Actor{
		UserID:    GetUserID(c),
		CompanyID: GetCompanyID(c),
		Role:      GetRole(c),
	}
}

// Open godoc
// @Summary      Abrir venda
// @Description  Um operador só pode ter uma venda aberta por vez (409).
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSaleRequest  false  "cliente opcional"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas [post]
// @Security     BearerAuth
func (h *SaleHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
		}
	}
	sale, err := h.orchestrator.Open(c.Context(), actorFrom(c), in.CustomerID)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale, nil))
}

// Get godoc
// @Summary      Obter venda com itens
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID da venda"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id} [get]
// @Security     BearerAuth
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, items, err := h.orchestrator.GetSale(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toSaleResponse(sale, items))
}

// AddItem godoc
// @Summary      Adicionar item à venda aberta
// @Description  Item de produto baixa o estoque na mesma transação; estoque
// @Description  insuficiente responde 409 e nada é persistido.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID da venda"
// @Param        body  body  dto.AddSaleItemRequest  true  "item"
// @Success      201   {object}  dto.SaleItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/itens [post]
// @Security     BearerAuth
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddSaleItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	item, err := h.orchestrator.AddItem(c.Context(), actorFrom(c), c.Params("id"), checkout.AddItemInput{
		ProductID:   in.ProductID,
		ServiceID:   in.ServiceID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Discount:    in.Discount,
		PromotionID: in.PromotionID,
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleItemResponse(item))
}

// RemoveItem godoc
// @Summary      Remover item da venda aberta (estoque devolvido)
// @Tags         sales
// @Param        id      path  string  true  "ID da venda"
// @Param        itemId  path  string  true  "ID do item"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/itens/{itemId} [delete]
// @Security     BearerAuth
func (h *SaleHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.orchestrator.RemoveItem(c.Context(), actorFrom(c), c.Params("id"), c.Params("itemId")); err != nil {
		return domainErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetQuantity godoc
// @Summary      Ajustar quantidade de um item
// @Description  Um único movimento compensatório cobre a diferença; aumento
// @Description  sem estoque responde 409.
// @Tags         sales
// @Accept       json
// @Param        id      path  string                  true  "ID da venda"
// @Param        itemId  path  string                  true  "ID do item"
// @Param        body    body  dto.SetQuantityRequest  true  "nova quantidade"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/itens/{itemId} [put]
// @Security     BearerAuth
func (h *SaleHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.orchestrator.SetQuantity(c.Context(), actorFrom(c), c.Params("id"), c.Params("itemId"), in.Quantity); err != nil {
		return domainErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyDiscount godoc
// @Summary      Aplicar desconto da venda
// @Description  Teto por perfil: admin 100%, gerente 30%, operador 10% do
// @Description  subtotal. Acima do teto responde 409.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID da venda"
// @Param        body  body  dto.ApplyDiscountRequest  true  "valor absoluto"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/desconto [post]
// @Security     BearerAuth
func (h *SaleHandler) ApplyDiscount(c *fiber.Ctx) error {
	var in dto.ApplyDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	sale, err := h.orchestrator.ApplyDiscount(c.Context(), actorFrom(c), c.Params("id"), in.Amount)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toSaleResponse(sale, nil))
}

// Finalize godoc
// @Summary      Finalizar venda
// @Description  Marca "finalizada" e cria a receita "pago" na conta indicada,
// @Description  tudo em uma transação. Venda vazia responde 409.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID da venda"
// @Param        body  body  dto.FinalizeSaleRequest  true  "pagamento"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/finalizar [post]
// @Security     BearerAuth
func (h *SaleHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	sale, err := h.orchestrator.Finalize(c.Context(), actorFrom(c), c.Params("id"), checkout.FinalizeInput{
		PaymentMethod: in.PaymentMethod,
		AccountID:     in.AccountID,
		CustomerID:    in.CustomerID,
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toSaleResponse(sale, nil))
}

// Cancel godoc
// @Summary      Cancelar venda
// @Description  Venda finalizada só pode ser cancelada por gerente/admin
// @Description  (403). Estoque e receita são estornados na mesma transação.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID da venda"
// @Param        body  body  dto.CancelRequest  false  "motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/cancelar [post]
// @Security     BearerAuth
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
		}
	}
	sale, err := h.orchestrator.Cancel(c.Context(), actorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(toSaleResponse(sale, nil))
}

// CupomPDF godoc
// @Summary      Baixar o cupom (PDF) de uma venda finalizada
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path  string  true  "ID da venda"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/cupom.pdf [get]
// @Security     BearerAuth
func (h *SaleHandler) CupomPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipts.DownloadCupomPDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// NFCeXML godoc
// @Summary      Baixar o XML de NFC-e de uma venda finalizada
// @Tags         sales
// @Produce      application/xml
// @Param        id   path  string  true  "ID da venda"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/nfce.xml [get]
// @Security     BearerAuth
func (h *SaleHandler) NFCeXML(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.receipts.DownloadNFCeXML(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}

func toSaleItemResponse(it *entity.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ID:          it.ID,
		SaleID:      it.SaleID,
		ProductID:   it.ProductID,
		ServiceID:   it.ServiceID,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Discount:    it.Discount,
		Total:       it.Total,
		PromotionID: it.PromotionID,
		CreatedAt:   it.CreatedAt,
	}
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Status:        s.Status,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		CustomerID:    s.CustomerID,
		PaymentMethod: s.PaymentMethod,
		OperatorID:    s.OperatorID,
		Notes:         s.Notes,
		OpenedAt:      s.OpenedAt,
		FinalizedAt:   s.FinalizedAt,
		CanceledAt:    s.CanceledAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, toSaleItemResponse(it))
	}
	return out
}
