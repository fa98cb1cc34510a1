package repository

import "github.com/vitorsavi/pdv-api/internal/domain/entity"

// ServiceRepository define o porto de persistência para Service (DIP).
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(companyID, id string) (*entity.Service, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Service, error)
}
