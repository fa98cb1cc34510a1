package repository

import "github.com/vitorsavi/pdv-api/internal/domain/entity"

// CustomerRepository define o porto de persistência para Customer (DIP).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(companyID, id string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
}
