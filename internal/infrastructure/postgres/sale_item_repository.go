package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

var _ repository.SaleItemRepository = (*SaleItemRepo)(nil)

const saleItemColumns = `id, sale_id, product_id, service_id, quantity, unit_price, discount, total, promotion_id, created_at`

// SaleItemRepo implementação do porto SaleItemRepository sobre PostgreSQL.
// O escopo por tenant vem via venda: itens só são alcançados por uma venda
// já resolvida por company_id.
type SaleItemRepo struct {
	q Querier
}

// NewSaleItemRepository constrói o adaptador de persistência de itens.
func NewSaleItemRepository(q Querier) *SaleItemRepo {
	return &SaleItemRepo{q: q}
}

func scanSaleItem(row pgx.Row) (*entity.SaleItem, error) {
	var it entity.SaleItem
	err := row.Scan(
		&it.ID, &it.SaleID, &it.ProductID, &it.ServiceID, &it.Quantity,
		&it.UnitPrice, &it.Discount, &it.Total, &it.PromotionID, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create insere um item na venda.
func (r *SaleItemRepo) Create(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (` + saleItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.ServiceID, item.Quantity,
		item.UnitPrice, item.Discount, item.Total, item.PromotionID, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtém um item por venda e ID.
func (r *SaleItemRepo) GetByID(saleID, id string) (*entity.SaleItem, error) {
	query := `SELECT ` + saleItemColumns + ` FROM sale_items WHERE sale_id = $1 AND id = $2`
	it, err := scanSaleItem(r.q.QueryRow(context.Background(), query, saleID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale item: %w", err)
	}
	return it, nil
}

// Update atualiza quantidade, desconto e total do item.
func (r *SaleItemRepo) Update(item *entity.SaleItem) error {
	query := `
		UPDATE sale_items SET quantity = $3, discount = $4, total = $5
		WHERE sale_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		item.SaleID, item.ID, item.Quantity, item.Discount, item.Total,
	)
	if err != nil {
		return fmt.Errorf("update sale item: %w", err)
	}
	return nil
}

// Delete remove um item da venda.
func (r *SaleItemRepo) Delete(saleID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM sale_items WHERE sale_id = $1 AND id = $2`, saleID, id)
	if err != nil {
		return fmt.Errorf("delete sale item: %w", err)
	}
	return nil
}

// ListBySale lista os itens da venda na ordem de inserção.
func (r *SaleItemRepo) ListBySale(saleID string) ([]*entity.SaleItem, error) {
	query := `SELECT ` + saleItemColumns + ` FROM sale_items WHERE sale_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		it, err := scanSaleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
