package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vitorsavi/pdv-api/internal/application/dto"
	"github.com/vitorsavi/pdv-api/internal/application/stock"
	"github.com/vitorsavi/pdv-api/internal/application/usecase"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// StockHandler ledger de estoque: movimentos, projeção e reposição.
type StockHandler struct {
	ledger   *stock.LedgerUseCase
	products *usecase.ProductUseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(ledger *stock.LedgerUseCase, products *usecase.ProductUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, products: products}
}

// RegisterMovement godoc
// @Summary      Registrar movimento de estoque
// @Description  entrada/devolucao/producao somam; saida/perda subtraem (409 se
// @Description  o estoque ficaria negativo); ajuste grava a diferença para o
// @Description  valor alvo da contagem.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "movimento"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
// @Security     BearerAuth
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	mov, err := h.ledger.ApplyMovement(c.Context(), stock.MovementInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimentos de estoque (trilha de auditoria)
// @Tags         stock
// @Produce      json
// @Param        product_id  query  string  false  "filtrar por produto"
// @Param        from        query  string  false  "início do período (RFC3339)"
// @Param        to          query  string  false  "fim do período (RFC3339)"
// @Success      200  {object}  dto.StockMovementListResponse
// @Router       /api/stock/movements [get]
// @Security     BearerAuth
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginação inválida"})
	}
	page.DefaultPage()
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "período inválido (usar RFC3339)"})
	}
	list, err := h.ledger.ListMovements(c.Context(), GetCompanyID(c), c.Query("product_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toStockMovementResponse(m))
	}
	return c.JSON(dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// CurrentStock godoc
// @Summary      Consultar a projeção de estoque de um produto
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID do produto"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
// @Security     BearerAuth
func (h *StockHandler) CurrentStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	quantity, err := h.ledger.CurrentStock(c.Context(), GetCompanyID(c), productID)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(dto.CurrentStockResponse{ProductID: productID, CurrentStock: quantity})
}

// Replenishment godoc
// @Summary      Relatório de reposição (estoque abaixo do mínimo)
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/stock/replenishment [get]
// @Security     BearerAuth
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.ledger.ListBelowMinimum(c.Context(), GetCompanyID(c))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductResponse{
			ID:           p.ID,
			CompanyID:    p.CompanyID,
			SKU:          p.SKU,
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
			Active:       p.Active,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	return c.JSON(items)
}

func toStockMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		SaleID:    m.SaleID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

// parsePeriod lê os filtros from/to (RFC3339) da query string.
func parsePeriod(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
