package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

var _ repository.FinancialMovementRepository = (*FinancialMovementRepo)(nil)

const financialMovementColumns = `id, company_id, type, status, value, account_id, counter_account_id, sale_id, description, date, payment_date, payment_method, created_at, updated_at, created_by`

// FinancialMovementRepo implementação do porto FinancialMovementRepository
// sobre PostgreSQL. A linha é imutável exceto pela transição de status.
type FinancialMovementRepo struct {
	q Querier
}

// NewFinancialMovementRepository constrói o adaptador do ledger financeiro.
func NewFinancialMovementRepository(q Querier) *FinancialMovementRepo {
	return &FinancialMovementRepo{q: q}
}

func scanFinancialMovement(row pgx.Row) (*entity.FinancialMovement, error) {
	var m entity.FinancialMovement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Type, &m.Status, &m.Value, &m.AccountID,
		&m.CounterAccountID, &m.SaleID, &m.Description, &m.Date, &m.PaymentDate,
		&m.PaymentMethod, &m.CreatedAt, &m.UpdatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create insere um movimento no ledger financeiro.
func (r *FinancialMovementRepo) Create(movement *entity.FinancialMovement) error {
	query := `
		INSERT INTO financial_movements (` + financialMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.Type, movement.Status,
		movement.Value, movement.AccountID, movement.CounterAccountID,
		movement.SaleID, movement.Description, movement.Date, movement.PaymentDate,
		movement.PaymentMethod, movement.CreatedAt, movement.UpdatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert financial movement: %w", err)
	}
	return nil
}

// GetByID obtém um movimento por empresa e ID.
func (r *FinancialMovementRepo) GetByID(companyID, id string) (*entity.FinancialMovement, error) {
	query := `SELECT ` + financialMovementColumns + ` FROM financial_movements WHERE company_id = $1 AND id = $2`
	m, err := scanFinancialMovement(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get financial movement: %w", err)
	}
	return m, nil
}

// GetForUpdate obtém o movimento bloqueando a linha (SELECT FOR UPDATE).
// Usar somente dentro de transação.
func (r *FinancialMovementRepo) GetForUpdate(companyID, id string) (*entity.FinancialMovement, error) {
	query := `SELECT ` + financialMovementColumns + ` FROM financial_movements WHERE company_id = $1 AND id = $2 FOR UPDATE`
	m, err := scanFinancialMovement(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get financial movement for update: %w", err)
	}
	return m, nil
}

// UpdateStatus grava a transição de status do movimento (pendente→pago,
// *→cancelado). Os demais campos do registro não mudam aqui, exceto a
// descrição que pode receber a anotação de cancelamento.
func (r *FinancialMovementRepo) UpdateStatus(movement *entity.FinancialMovement) error {
	query := `
		UPDATE financial_movements
		SET status = $3, payment_date = $4, description = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		movement.CompanyID, movement.ID, movement.Status, movement.PaymentDate,
		movement.Description, movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update financial movement status: %w", err)
	}
	return nil
}

// FindBySale obtém o movimento vinculado a uma venda, se existir.
func (r *FinancialMovementRepo) FindBySale(companyID, saleID string) (*entity.FinancialMovement, error) {
	query := `
		SELECT ` + financialMovementColumns + ` FROM financial_movements
		WHERE company_id = $1 AND sale_id = $2
		ORDER BY created_at DESC LIMIT 1`
	m, err := scanFinancialMovement(r.q.QueryRow(context.Background(), query, companyID, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find financial movement by sale: %w", err)
	}
	return m, nil
}

// ListByCompany lista movimentos da empresa, mais recente primeiro, com
// filtro opcional de período.
func (r *FinancialMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.FinancialMovement, error) {
	query := `
		SELECT ` + financialMovementColumns + ` FROM financial_movements
		WHERE company_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list financial movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.FinancialMovement
	for rows.Next() {
		m, err := scanFinancialMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
