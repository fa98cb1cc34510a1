package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, status, subtotal, discount, total, customer_id, payment_method, operator_id, notes, opened_at, finalized_at, canceled_at`

// SaleRepo implementação do porto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository constrói o adaptador de persistência de vendas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Status, &s.Subtotal, &s.Discount, &s.Total,
		&s.CustomerID, &s.PaymentMethod, &s.OperatorID, &s.Notes,
		&s.OpenedAt, &s.FinalizedAt, &s.CanceledAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste uma nova venda (status aberta).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CompanyID, sale.Status, sale.Subtotal, sale.Discount,
		sale.Total, sale.CustomerID, sale.PaymentMethod, sale.OperatorID,
		sale.Notes, sale.OpenedAt, sale.FinalizedAt, sale.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtém uma venda por empresa e ID.
func (r *SaleRepo) GetByID(companyID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1 AND id = $2`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetForUpdate obtém a venda bloqueando a linha (SELECT FOR UPDATE).
// Usar somente dentro de transação: finalizar e cancelar concorrentes sobre
// a mesma venda se serializam aqui.
func (r *SaleRepo) GetForUpdate(companyID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1 AND id = $2 FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return s, nil
}

// Update atualiza o estado da venda (status, totais, carimbos).
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET status = $3, subtotal = $4, discount = $5, total = $6,
			customer_id = $7, payment_method = $8, notes = $9,
			finalized_at = $10, canceled_at = $11
		WHERE company_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		sale.CompanyID, sale.ID, sale.Status, sale.Subtotal, sale.Discount,
		sale.Total, sale.CustomerID, sale.PaymentMethod, sale.Notes,
		sale.FinalizedAt, sale.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// LockOperator toma um lock consultivo transacional chaveado por empresa e
// operador, liberado no commit/rollback. Aberturas concorrentes do mesmo
// operador se serializam aqui antes do FindOpenByOperator.
func (r *SaleRepo) LockOperator(companyID, operatorID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	_, err := r.q.Exec(context.Background(), query, companyID+"/"+operatorID)
	if err != nil {
		return fmt.Errorf("lock operator: %w", err)
	}
	return nil
}

// FindOpenByOperator retorna a venda aberta do operador, se houver.
func (r *SaleRepo) FindOpenByOperator(companyID, operatorID string) (*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE company_id = $1 AND operator_id = $2 AND status = 'aberta'
		ORDER BY opened_at DESC LIMIT 1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, companyID, operatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open sale by operator: %w", err)
	}
	return s, nil
}

// ListByCompany lista vendas da empresa, mais recente primeiro.
func (r *SaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE company_id = $1 ORDER BY opened_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
