package entity

import "time"

// Perfis válidos para User. O teto de desconto e a permissão de cancelar
// venda finalizada derivam do perfil (ver domain/checkout).
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleOperador = "operador"
)

// User representa um usuário do sistema (pertence a uma Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // hash bcrypt, nunca texto plano no domínio após persistir
	Name         string
	Role         string // admin, gerente, operador
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
