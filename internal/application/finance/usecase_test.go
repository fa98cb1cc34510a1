package finance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória com semântica transacional (snapshot + rollback)
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "00000000-0000-0000-0000-0000000000c1"
	userID    = "00000000-0000-0000-0000-0000000000u1"
	caixaID   = "00000000-0000-0000-0000-0000000000a1"
	bancoID   = "00000000-0000-0000-0000-0000000000a2"
)

type memState struct {
	mu        sync.Mutex
	accounts  map[string]*entity.Account
	movements map[string]*entity.FinancialMovement
	order     []string
}

func newMemState() *memState {
	return &memState{
		accounts:  map[string]*entity.Account{},
		movements: map[string]*entity.FinancialMovement{},
	}
}

func (s *memState) snapshot() *memState {
	snap := newMemState()
	for id, a := range s.accounts {
		cp := *a
		snap.accounts[id] = &cp
	}
	for id, m := range s.movements {
		cp := *m
		snap.movements[id] = &cp
	}
	snap.order = append([]string(nil), s.order...)
	return snap
}

func (s *memState) restore(snap *memState) {
	s.accounts = snap.accounts
	s.movements = snap.movements
	s.order = snap.order
}

type memAccountRepo struct{ state *memState }

func (r *memAccountRepo) Create(a *entity.Account) error { r.state.accounts[a.ID] = a; return nil }

func (r *memAccountRepo) GetByID(companyID, id string) (*entity.Account, error) {
	a, ok := r.state.accounts[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) GetForUpdate(companyID, id string) (*entity.Account, error) {
	return r.GetByID(companyID, id)
}

func (r *memAccountRepo) UpdateBalance(companyID, id string, balance decimal.Decimal) error {
	a, ok := r.state.accounts[id]
	if !ok || a.CompanyID != companyID {
		return domain.ErrNotFound
	}
	a.Balance = balance
	return nil
}

func (r *memAccountRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Account, error) {
	return nil, nil
}

type memFinMovementRepo struct{ state *memState }

func (r *memFinMovementRepo) Create(m *entity.FinancialMovement) error {
	cp := *m
	r.state.movements[m.ID] = &cp
	r.state.order = append(r.state.order, m.ID)
	return nil
}

func (r *memFinMovementRepo) GetByID(companyID, id string) (*entity.FinancialMovement, error) {
	m, ok := r.state.movements[id]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memFinMovementRepo) GetForUpdate(companyID, id string) (*entity.FinancialMovement, error) {
	return r.GetByID(companyID, id)
}

func (r *memFinMovementRepo) UpdateStatus(m *entity.FinancialMovement) error {
	stored, ok := r.state.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = m.Status
	stored.PaymentDate = m.PaymentDate
	stored.PaymentMethod = m.PaymentMethod
	stored.Description = m.Description
	stored.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *memFinMovementRepo) FindBySale(companyID, saleID string) (*entity.FinancialMovement, error) {
	for _, id := range r.state.order {
		m := r.state.movements[id]
		if m.CompanyID == companyID && m.SaleID != nil && *m.SaleID == saleID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memFinMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.FinancialMovement, error) {
	var out []*entity.FinancialMovement
	for _, id := range r.state.order {
		m := r.state.movements[id]
		if m.CompanyID == companyID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memTxRunner serializa as transações com mutex e desfaz o estado inteiro
// quando fn retorna erro, imitando Commit/Rollback do banco.
type memTxRunner struct{ state *memState }

func (t *memTxRunner) RunFinance(ctx context.Context, fn func(
	movRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
) error) error {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	snap := t.state.snapshot()
	if err := fn(&memFinMovementRepo{t.state}, &memAccountRepo{t.state}); err != nil {
		t.state.restore(snap)
		return err
	}
	return nil
}

func newLedger(caixaBalance, bancoBalance int64) (*finance.LedgerUseCase, *memState) {
	state := newMemState()
	state.accounts[caixaID] = &entity.Account{
		ID: caixaID, CompanyID: companyID, Name: "Caixa",
		Balance: decimal.NewFromInt(caixaBalance),
	}
	state.accounts[bancoID] = &entity.Account{
		ID: bancoID, CompanyID: companyID, Name: "Banco",
		Balance: decimal.NewFromInt(bancoBalance),
	}
	uc := finance.NewLedgerUseCase(&memTxRunner{state}, &memFinMovementRepo{state})
	return uc, state
}

func record(t *testing.T, uc *finance.LedgerUseCase, in finance.RecordInput) (*entity.FinancialMovement, error) {
	t.Helper()
	in.CompanyID = companyID
	in.UserID = userID
	return uc.Record(context.Background(), in)
}

func balance(state *memState, accountID string) decimal.Decimal {
	return state.accounts[accountID].Balance
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

// Receita com payment_date na criação nasce "pago" e credita a conta de
// imediato.
func TestRecord_ReceitaPagaAplicaDelta(t *testing.T) {
	uc, state := newLedger(100, 0)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialReceita,
		Value:       decimal.NewFromInt(50),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.FinancialPago, mov.Status)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(150)))
}

// Sem payment_date o movimento nasce "pendente" e o saldo não muda.
func TestRecord_PendenteNaoMexeNoSaldo(t *testing.T) {
	uc, state := newLedger(100, 0)

	mov, err := record(t, uc, finance.RecordInput{
		Type:      entity.FinancialDespesa,
		Value:     decimal.NewFromInt(40),
		AccountID: caixaID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.FinancialPendente, mov.Status)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)))
}

// Despesa paga sem saldo suficiente: rejeitada, nada persistido.
func TestRecord_DespesaSemSaldo_NadaPersistido(t *testing.T) {
	uc, state := newLedger(30, 0)

	now := time.Now()
	_, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialDespesa,
		Value:       decimal.NewFromInt(50),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(30)))
	assert.Empty(t, state.movements, "nenhum movimento pode sobrar após o rollback")
}

// transferencia paga debita a conta e credita a contraparte na mesma
// transação.
func TestRecord_TransferenciaMoveAsDuasContas(t *testing.T) {
	uc, state := newLedger(100, 10)

	now := time.Now()
	_, err := record(t, uc, finance.RecordInput{
		Type:             entity.FinancialTransferencia,
		Value:            decimal.NewFromInt(60),
		AccountID:        caixaID,
		CounterAccountID: ptr(bancoID),
		PaymentDate:      &now,
	})
	require.NoError(t, err)

	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(40)))
	assert.True(t, balance(state, bancoID).Equal(decimal.NewFromInt(70)))
}

func TestRecord_ValidacaoDeEntrada(t *testing.T) {
	uc, _ := newLedger(100, 0)

	_, err := record(t, uc, finance.RecordInput{
		Type: "emprestimo", Value: decimal.NewFromInt(10), AccountID: caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconhecido")

	_, err = record(t, uc, finance.RecordInput{
		Type: entity.FinancialReceita, Value: decimal.NewFromInt(-10), AccountID: caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "valor negativo")

	_, err = record(t, uc, finance.RecordInput{
		Type: entity.FinancialTransferencia, Value: decimal.NewFromInt(10), AccountID: caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "transferencia sem contraparte")

	_, err = record(t, uc, finance.RecordInput{
		Type: entity.FinancialTransferencia, Value: decimal.NewFromInt(10),
		AccountID: caixaID, CounterAccountID: ptr(caixaID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "transferencia para a própria conta")
}

// transferencia pendente com contraparte inexistente é rejeitada já no
// registro, não só na confirmação; nada é persistido.
func TestRecord_TransferenciaPendenteContraparteInexistente(t *testing.T) {
	uc, state := newLedger(100, 10)

	_, err := record(t, uc, finance.RecordInput{
		Type:             entity.FinancialTransferencia,
		Value:            decimal.NewFromInt(60),
		AccountID:        caixaID,
		CounterAccountID: ptr("conta-fantasma"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, state.movements, "nenhum movimento pode sobrar após o rollback")
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmação (pendente → pago)
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_AplicaDeltaEMudaStatus(t *testing.T) {
	uc, state := newLedger(100, 0)

	mov, err := record(t, uc, finance.RecordInput{
		Type:      entity.FinancialDespesa,
		Value:     decimal.NewFromInt(40),
		AccountID: caixaID,
	})
	require.NoError(t, err)

	paid, err := uc.Confirm(context.Background(), companyID, mov.ID, time.Now(), "pix")
	require.NoError(t, err)

	assert.Equal(t, entity.FinancialPago, paid.Status)
	assert.Equal(t, "pix", paid.PaymentMethod)
	require.NotNil(t, paid.PaymentDate)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(60)))
}

// Confirmar fora de pendente é rejeitado; o delta nunca é aplicado duas vezes.
func TestConfirm_ForaDePendente_ErrNotPending(t *testing.T) {
	uc, state := newLedger(100, 0)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialReceita,
		Value:       decimal.NewFromInt(50),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), companyID, mov.ID, time.Now(), "pix")
	assert.ErrorIs(t, err, domain.ErrNotPending)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(150)),
		"o saldo não pode mudar na confirmação rejeitada")
}

// Confirmação de despesa pendente sem saldo: rejeitada, movimento segue
// pendente.
func TestConfirm_DespesaSemSaldo_SeguePendente(t *testing.T) {
	uc, state := newLedger(30, 0)

	mov, err := record(t, uc, finance.RecordInput{
		Type:      entity.FinancialDespesa,
		Value:     decimal.NewFromInt(50),
		AccountID: caixaID,
	})
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), companyID, mov.ID, time.Now(), "dinheiro")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	stored := state.movements[mov.ID]
	assert.Equal(t, entity.FinancialPendente, stored.Status)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(30)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelamento
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar movimento pago aplica o delta inverso na mesma transação.
func TestCancel_PagoAplicaDeltaInverso(t *testing.T) {
	uc, state := newLedger(100, 0)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialReceita,
		Value:       decimal.NewFromInt(50),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	require.NoError(t, err)
	require.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(150)))

	canceled, err := uc.Cancel(context.Background(), companyID, mov.ID, "venda desfeita")
	require.NoError(t, err)

	assert.Equal(t, entity.FinancialCancelado, canceled.Status)
	assert.Contains(t, canceled.Description, "cancelado: venda desfeita")
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)),
		"o estorno deve devolver o saldo ao valor anterior")
}

// O estorno de uma despesa paga sempre devolve o valor, sem verificação de
// saldo na perna de crédito.
func TestCancel_DespesaPagaDevolveValor(t *testing.T) {
	uc, state := newLedger(100, 0)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialDespesa,
		Value:       decimal.NewFromInt(100),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	require.NoError(t, err)
	require.True(t, balance(state, caixaID).IsZero())

	_, err = uc.Cancel(context.Background(), companyID, mov.ID, "")
	require.NoError(t, err)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)))
}

// Cancelar transferencia paga desfaz as duas pernas.
func TestCancel_TransferenciaPagaDesfazAsDuasPernas(t *testing.T) {
	uc, state := newLedger(100, 10)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:             entity.FinancialTransferencia,
		Value:            decimal.NewFromInt(60),
		AccountID:        caixaID,
		CounterAccountID: ptr(bancoID),
		PaymentDate:      &now,
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), companyID, mov.ID, "")
	require.NoError(t, err)

	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)))
	assert.True(t, balance(state, bancoID).Equal(decimal.NewFromInt(10)))
}

// Cancelar pendente só muda o status; o saldo nunca foi tocado.
func TestCancel_PendenteSoMudaStatus(t *testing.T) {
	uc, state := newLedger(100, 0)

	mov, err := record(t, uc, finance.RecordInput{
		Type:      entity.FinancialDespesa,
		Value:     decimal.NewFromInt(40),
		AccountID: caixaID,
	})
	require.NoError(t, err)

	canceled, err := uc.Cancel(context.Background(), companyID, mov.ID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.FinancialCancelado, canceled.Status)
	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)))
}

// cancelado é terminal.
func TestCancel_CanceladoEhTerminal(t *testing.T) {
	uc, state := newLedger(100, 0)

	now := time.Now()
	mov, err := record(t, uc, finance.RecordInput{
		Type:        entity.FinancialReceita,
		Value:       decimal.NewFromInt(50),
		AccountID:   caixaID,
		PaymentDate: &now,
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), companyID, mov.ID, "")
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), companyID, mov.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	_, err = uc.Confirm(context.Background(), companyID, mov.ID, time.Now(), "pix")
	assert.ErrorIs(t, err, domain.ErrNotPending)

	assert.True(t, balance(state, caixaID).Equal(decimal.NewFromInt(100)),
		"o estorno não pode ser aplicado duas vezes")
}

func ptr(s string) *string { return &s }
