package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementação do porto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository constrói o adaptador de persistência de contas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.Name, &a.InitialBalance, &a.Balance,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste uma nova conta. Balance inicia igual a InitialBalance.
func (r *AccountRepo) Create(account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, company_id, name, initial_balance, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.CompanyID, account.Name, account.InitialBalance,
		account.Balance, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtém uma conta por empresa e ID.
func (r *AccountRepo) GetByID(companyID, id string) (*entity.Account, error) {
	query := `
		SELECT id, company_id, name, initial_balance, balance, created_at, updated_at
		FROM accounts WHERE company_id = $1 AND id = $2`
	a, err := scanAccount(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetForUpdate obtém a conta bloqueando a linha (SELECT FOR UPDATE).
// Usar somente dentro de transação.
func (r *AccountRepo) GetForUpdate(companyID, id string) (*entity.Account, error) {
	query := `
		SELECT id, company_id, name, initial_balance, balance, created_at, updated_at
		FROM accounts WHERE company_id = $1 AND id = $2 FOR UPDATE`
	a, err := scanAccount(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance grava a projeção de saldo da conta (só o ledger chama).
func (r *AccountRepo) UpdateBalance(companyID, id string, balance decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE accounts SET balance = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, balance,
	)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	return nil
}

// ListByCompany lista contas da empresa com paginação.
func (r *AccountRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT id, company_id, name, initial_balance, balance, created_at, updated_at
		FROM accounts WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
