package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa um serviço vendável (sem efeito sobre estoque).
type Service struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
