package finance

import (
	"context"

	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante que a transição de status do
// movimento e o delta de saldo aconteçam juntos ou não aconteçam.
type TxRunner interface {
	RunFinance(ctx context.Context, fn func(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error) error
}
