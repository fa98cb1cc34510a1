package repository

import (
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// ProductRepository define o porto de persistência para Product (DIP).
// Toda consulta recebe companyID: o escopo por tenant é estrutural, não um
// check posterior.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(companyID, id string) (*entity.Product, error)
	GetBySKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// GetForUpdate bloqueia a linha do produto (SELECT FOR UPDATE). Usar
	// somente dentro de transação; serializa os movimentos de estoque do
	// produto.
	GetForUpdate(companyID, id string) (*entity.Product, error)
	// UpdateStock grava a projeção estoque_atual. Único caminho de escrita é
	// o ledger de estoque, na mesma transação do insert do movimento.
	UpdateStock(companyID, id string, quantity decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// ListBelowMinimum varredura read-only: estoque_atual < estoque_minimo.
	ListBelowMinimum(companyID string) ([]*entity.Product, error)
}
