package repository

import "github.com/vitorsavi/pdv-api/internal/domain/entity"

// SaleItemRepository define o porto de persistência para SaleItem (DIP).
// Os itens pertencem exclusivamente à venda; mutação só enquanto aberta.
type SaleItemRepository interface {
	Create(item *entity.SaleItem) error
	GetByID(saleID, id string) (*entity.SaleItem, error)
	Update(item *entity.SaleItem) error
	Delete(saleID, id string) error
	ListBySale(saleID string) ([]*entity.SaleItem, error)
}
