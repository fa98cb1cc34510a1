package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/vitorsavi/pdv-api/internal/application/dto"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// AccountUseCase casos de uso CRUD para contas financeiras. O saldo só muda
// via ledger financeiro (application/finance), nunca por aqui.
type AccountUseCase struct {
	repo repository.AccountRepository
}

// NewAccountUseCase constrói o caso de uso.
func NewAccountUseCase(repo repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Create cria uma nova conta. Balance inicia igual a InitialBalance.
func (uc *AccountUseCase) Create(companyID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if in.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	account := &entity.Account{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Name:           in.Name,
		InitialBalance: in.InitialBalance,
		Balance:        in.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetByID obtém uma conta por empresa e ID.
func (uc *AccountUseCase) GetByID(companyID, id string) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return toAccountResponse(account), nil
}

// List lista contas da empresa com paginação.
func (uc *AccountUseCase) List(companyID string, limit, offset int) ([]dto.AccountResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a))
	}
	return items, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		Name:           a.Name,
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
