package entity

import "time"

// Company representa uma organização/tenant do sistema (multi-tenant).
// Todas as consultas e locks do núcleo são sempre escopados por CompanyID.
type Company struct {
	ID        string
	Name      string
	CNPJ      string // CNPJ da empresa (com ou sem máscara)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
