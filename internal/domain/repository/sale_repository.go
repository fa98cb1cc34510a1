package repository

import "github.com/vitorsavi/pdv-api/internal/domain/entity"

// SaleRepository define o porto de persistência para Sale (DIP).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(companyID, id string) (*entity.Sale, error)
	// GetForUpdate bloqueia a linha da venda; finalizar e cancelar
	// concorrentes sobre a mesma venda se excluem mutuamente.
	GetForUpdate(companyID, id string) (*entity.Sale, error)
	Update(sale *entity.Sale) error
	// LockOperator serializa as aberturas de venda do operador na transação
	// corrente; sem ele, duas aberturas simultâneas passariam ambas pelo
	// FindOpenByOperator sob read committed. Usar somente dentro de transação.
	LockOperator(companyID, operatorID string) error
	// FindOpenByOperator retorna a venda aberta do operador, se houver
	// (uma venda aberta por operador).
	FindOpenByOperator(companyID, operatorID string) (*entity.Sale, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
}
