package repository

import (
	"time"

	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// StockMovementRepository define o porto de persistência do ledger de
// estoque. Movimentos são imutáveis: não há Update nem Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(companyID, id string) (*entity.StockMovement, error)
	ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
