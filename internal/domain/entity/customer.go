package entity

import "time"

// Customer representa um cliente da empresa (opcional na venda PDV).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // CPF ou CNPJ
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
