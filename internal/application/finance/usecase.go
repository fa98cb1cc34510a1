package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// LedgerUseCase registra e transiciona movimentos financeiros (receita,
// despesa, transferencia) de forma transacional. O saldo da conta nunca é
// recalculado somando o histórico no caminho transacional: cada transição de
// status aplica um único delta, na mesma transação, sob FOR UPDATE da conta.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.FinancialMovementRepository
}

// NewLedgerUseCase constrói o caso de uso. movRepo atado ao pool é usado
// apenas para leitura fora de transação.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.FinancialMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo}
}

// RecordInput entrada para registrar um movimento financeiro.
// PaymentDate preenchido na criação => o movimento nasce "pago" e o delta de
// saldo é aplicado imediatamente; nulo => nasce "pendente" e o saldo só muda
// na confirmação.
type RecordInput struct {
	CompanyID        string
	UserID           string
	Type             string // receita, despesa, transferencia
	Value            decimal.Decimal
	AccountID        string
	CounterAccountID *string // obrigatório para transferencia
	SaleID           *string
	Description      string
	PaymentDate      *time.Time
	PaymentMethod    string
}

// Record inicia uma transação e registra o movimento; Commit ou Rollback.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*entity.FinancialMovement, error) {
	var created *entity.FinancialMovement
	err := uc.txRunner.RunFinance(ctx, func(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error {
		mov, err := uc.RecordInTx(movRepo, accountRepo, input, time.Now())
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordInTx registra o movimento usando os repositórios do caller (mesma
// transação). Caminho compartilhado com o orquestrador de venda: a receita
// da venda finalizada é criada na transação do finalizar.
func (uc *LedgerUseCase) RecordInTx(
	movRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
	input RecordInput,
	now time.Time,
) (*entity.FinancialMovement, error) {
	if input.CompanyID == "" || input.AccountID == "" || !entity.ValidFinancialType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Value.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.FinancialTransferencia {
		if input.CounterAccountID == nil || *input.CounterAccountID == "" || *input.CounterAccountID == input.AccountID {
			return nil, domain.ErrInvalidInput
		}
	}

	status := entity.FinancialPendente
	if input.PaymentDate != nil {
		status = entity.FinancialPago
	}
	mov := &entity.FinancialMovement{
		ID:               uuid.New().String(),
		CompanyID:        input.CompanyID,
		Type:             input.Type,
		Status:           status,
		Value:            input.Value,
		AccountID:        input.AccountID,
		CounterAccountID: input.CounterAccountID,
		SaleID:           input.SaleID,
		Description:      input.Description,
		Date:             now,
		PaymentDate:      input.PaymentDate,
		PaymentMethod:    input.PaymentMethod,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        input.UserID,
	}

	if status == entity.FinancialPago {
		if err := applyDelta(accountRepo, mov, false); err != nil {
			return nil, err
		}
	} else {
		// Pendente não mexe no saldo, mas as contas precisam existir no
		// tenant; a contraparte da transferencia inclusive, senão a
		// confirmação nasceria fadada a falhar.
		if _, err := lockAccount(accountRepo, mov.CompanyID, mov.AccountID); err != nil {
			return nil, err
		}
		if mov.Type == entity.FinancialTransferencia {
			if _, err := lockAccount(accountRepo, mov.CompanyID, *mov.CounterAccountID); err != nil {
				return nil, err
			}
		}
	}

	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Confirm transiciona pendente→pago e aplica o delta de saldo na mesma
// transação. Falha com ErrNotPending fora de pendente e com
// ErrInsufficientBalance para despesa sem saldo.
func (uc *LedgerUseCase) Confirm(ctx context.Context, companyID, movementID string, paymentDate time.Time, paymentMethod string) (*entity.FinancialMovement, error) {
	var updated *entity.FinancialMovement
	err := uc.txRunner.RunFinance(ctx, func(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error {
		mov, err := movRepo.GetForUpdate(companyID, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Status != entity.FinancialPendente {
			return domain.ErrNotPending
		}
		if err := applyDelta(accountRepo, mov, false); err != nil {
			return err
		}
		mov.Status = entity.FinancialPago
		mov.PaymentDate = &paymentDate
		mov.PaymentMethod = paymentMethod
		mov.UpdatedAt = time.Now()
		if err := movRepo.UpdateStatus(mov); err != nil {
			return err
		}
		updated = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel transiciona para cancelado (terminal, sem volta). Se o movimento
// estava pago, o delta inverso é aplicado antes da marcação; pendente não
// precisa de mudança de saldo.
func (uc *LedgerUseCase) Cancel(ctx context.Context, companyID, movementID, reason string) (*entity.FinancialMovement, error) {
	var updated *entity.FinancialMovement
	err := uc.txRunner.RunFinance(ctx, func(
		movRepo repository.FinancialMovementRepository,
		accountRepo repository.AccountRepository,
	) error {
		mov, err := uc.CancelInTx(movRepo, accountRepo, companyID, movementID, reason)
		if err != nil {
			return err
		}
		updated = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelInTx cancela o movimento usando os repositórios do caller (mesma
// transação). Caminho compartilhado com o cancelamento de venda finalizada.
func (uc *LedgerUseCase) CancelInTx(
	movRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
	companyID, movementID, reason string,
) (*entity.FinancialMovement, error) {
	mov, err := movRepo.GetForUpdate(companyID, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.Status == entity.FinancialCancelado {
		return nil, domain.ErrAlreadyCancelled
	}
	if mov.Status == entity.FinancialPago {
		if err := applyDelta(accountRepo, mov, true); err != nil {
			return nil, err
		}
	}
	mov.Status = entity.FinancialCancelado
	if reason != "" {
		if mov.Description != "" {
			mov.Description += "; "
		}
		mov.Description += "cancelado: " + reason
	}
	mov.UpdatedAt = time.Now()
	if err := movRepo.UpdateStatus(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetBySale retorna o movimento vinculado a uma venda, se houver.
func (uc *LedgerUseCase) GetBySale(ctx context.Context, companyID, saleID string) (*entity.FinancialMovement, error) {
	return uc.movRepo.FindBySale(companyID, saleID)
}

// ListMovements lista o histórico (trilha de auditoria).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*entity.FinancialMovement, error) {
	return uc.movRepo.ListByCompany(companyID, from, to, limit, offset)
}

// applyDelta aplica o delta de saldo do movimento (ou o inverso, para
// cancelamento de movimento pago). receita: conta +valor; despesa: conta
// −valor com verificação de saldo; transferencia: débito na conta e crédito
// na contraparte, ambas bloqueadas na mesma transação.
func applyDelta(accountRepo repository.AccountRepository, mov *entity.FinancialMovement, inverse bool) error {
	value := mov.Value
	if inverse {
		value = value.Neg()
	}
	switch mov.Type {
	case entity.FinancialReceita:
		return adjustBalance(accountRepo, mov.CompanyID, mov.AccountID, value, false)
	case entity.FinancialDespesa:
		// A verificação de saldo vale só na aplicação direta; o estorno de
		// uma despesa paga sempre devolve o valor.
		return adjustBalance(accountRepo, mov.CompanyID, mov.AccountID, value.Neg(), !inverse)
	case entity.FinancialTransferencia:
		if err := adjustBalance(accountRepo, mov.CompanyID, mov.AccountID, value.Neg(), !inverse); err != nil {
			return err
		}
		return adjustBalance(accountRepo, mov.CompanyID, *mov.CounterAccountID, value, false)
	}
	return domain.ErrInvalidInput
}

func lockAccount(accountRepo repository.AccountRepository, companyID, accountID string) (*entity.Account, error) {
	account, err := accountRepo.GetForUpdate(companyID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func adjustBalance(accountRepo repository.AccountRepository, companyID, accountID string, delta decimal.Decimal, checkBalance bool) error {
	account, err := lockAccount(accountRepo, companyID, accountID)
	if err != nil {
		return err
	}
	newBalance := account.Balance.Add(delta)
	if checkBalance && newBalance.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	return accountRepo.UpdateBalance(companyID, accountID, newBalance)
}
