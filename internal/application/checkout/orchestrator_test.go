package checkout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitorsavi/pdv-api/internal/application/checkout"
	"github.com/vitorsavi/pdv-api/internal/application/finance"
	"github.com/vitorsavi/pdv-api/internal/application/stock"
	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Loja em memória: todos os repositórios + TxRunner com snapshot/rollback
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID  = "00000000-0000-0000-0000-0000000000c1"
	operatorID = "00000000-0000-0000-0000-0000000000u1"
	productID  = "00000000-0000-0000-0000-0000000000p1"
	serviceID  = "00000000-0000-0000-0000-0000000000s1"
	customerID = "00000000-0000-0000-0000-0000000000k1"
	caixaID    = "00000000-0000-0000-0000-0000000000a1"
)

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	services  map[string]*entity.Service
	customers map[string]*entity.Customer
	accounts  map[string]*entity.Account
	sales     map[string]*entity.Sale
	items     map[string]*entity.SaleItem
	itemOrder []string
	stockMovs []*entity.StockMovement
	finMovs   map[string]*entity.FinancialMovement
	finOrder  []string

	operatorLocks int
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		services:  map[string]*entity.Service{},
		customers: map[string]*entity.Customer{},
		accounts:  map[string]*entity.Account{},
		sales:     map[string]*entity.Sale{},
		items:     map[string]*entity.SaleItem{},
		finMovs:   map[string]*entity.FinancialMovement{},
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, v := range s.products {
		cp := *v
		snap.products[id] = &cp
	}
	for id, v := range s.services {
		cp := *v
		snap.services[id] = &cp
	}
	for id, v := range s.customers {
		cp := *v
		snap.customers[id] = &cp
	}
	for id, v := range s.accounts {
		cp := *v
		snap.accounts[id] = &cp
	}
	for id, v := range s.sales {
		cp := *v
		snap.sales[id] = &cp
	}
	for id, v := range s.items {
		cp := *v
		snap.items[id] = &cp
	}
	snap.itemOrder = append([]string(nil), s.itemOrder...)
	for _, v := range s.stockMovs {
		cp := *v
		snap.stockMovs = append(snap.stockMovs, &cp)
	}
	for id, v := range s.finMovs {
		cp := *v
		snap.finMovs[id] = &cp
	}
	snap.finOrder = append([]string(nil), s.finOrder...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.services = snap.services
	s.customers = snap.customers
	s.accounts = snap.accounts
	s.sales = snap.sales
	s.items = snap.items
	s.itemOrder = snap.itemOrder
	s.stockMovs = snap.stockMovs
	s.finMovs = snap.finMovs
	s.finOrder = snap.finOrder
}

// --- repositórios ---

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *memProductRepo) GetByID(companyID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(p *entity.Product) error                          { return nil }

func (r *memProductRepo) GetForUpdate(companyID, id string) (*entity.Product, error) {
	return r.GetByID(companyID, id)
}

func (r *memProductRepo) UpdateStock(companyID, id string, quantity decimal.Decimal) error {
	p, ok := r.s.products[id]
	if !ok || p.CompanyID != companyID {
		return domain.ErrNotFound
	}
	p.CurrentStock = quantity
	return nil
}

func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) ListBelowMinimum(companyID string) ([]*entity.Product, error) {
	return nil, nil
}

type memServiceRepo struct{ s *memStore }

func (r *memServiceRepo) Create(sv *entity.Service) error { r.s.services[sv.ID] = sv; return nil }

func (r *memServiceRepo) GetByID(companyID, id string) (*entity.Service, error) {
	sv, ok := r.s.services[id]
	if !ok || sv.CompanyID != companyID {
		return nil, nil
	}
	cp := *sv
	return &cp, nil
}

func (r *memServiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Service, error) {
	return nil, nil
}

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }

func (r *memCustomerRepo) GetByID(companyID, id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

type memAccountRepo struct{ s *memStore }

func (r *memAccountRepo) Create(a *entity.Account) error { r.s.accounts[a.ID] = a; return nil }

func (r *memAccountRepo) GetByID(companyID, id string) (*entity.Account, error) {
	a, ok := r.s.accounts[id]
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
	a, ok := r.s.accounts[id]
	if !ok || a.CompanyID != companyID {
		return domain.ErrNotFound
	}
	a.Balance = balance
	return nil
}

func (r *memAccountRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Account, error) {
	return nil, nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) GetByID(companyID, id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok || sale.CompanyID != companyID {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *memSaleRepo) GetForUpdate(companyID, id string) (*entity.Sale, error) {
	return r.GetByID(companyID, id)
}

func (r *memSaleRepo) Update(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

// O runner em memória já serializa as transações com mutex; aqui basta
// registrar que o lock foi tomado.
func (r *memSaleRepo) LockOperator(companyID, operatorID string) error {
	r.s.operatorLocks++
	return nil
}

func (r *memSaleRepo) FindOpenByOperator(companyID, operatorID string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.CompanyID == companyID && sale.OperatorID == operatorID && sale.Status == entity.SaleAberta {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	return nil, nil
}

type memSaleItemRepo struct{ s *memStore }

func (r *memSaleItemRepo) Create(item *entity.SaleItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	r.s.itemOrder = append(r.s.itemOrder, item.ID)
	return nil
}

func (r *memSaleItemRepo) GetByID(saleID, id string) (*entity.SaleItem, error) {
	item, ok := r.s.items[id]
	if !ok || item.SaleID != saleID {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memSaleItemRepo) Update(item *entity.SaleItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memSaleItemRepo) Delete(saleID, id string) error {
	delete(r.s.items, id)
	for i, itemID := range r.s.itemOrder {
		if itemID == id {
			r.s.itemOrder = append(r.s.itemOrder[:i], r.s.itemOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memSaleItemRepo) ListBySale(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, id := range r.s.itemOrder {
		item := r.s.items[id]
		if item.SaleID == saleID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memStockMovementRepo struct{ s *memStore }

func (r *memStockMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.stockMovs = append(r.s.stockMovs, &cp)
	return nil
}

func (r *memStockMovementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	return nil, nil
}

func (r *memStockMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *memStockMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type memFinMovementRepo struct{ s *memStore }

func (r *memFinMovementRepo) Create(m *entity.FinancialMovement) error {
	cp := *m
	r.s.finMovs[m.ID] = &cp
	r.s.finOrder = append(r.s.finOrder, m.ID)
	return nil
}

func (r *memFinMovementRepo) GetByID(companyID, id string) (*entity.FinancialMovement, error) {
	m, ok := r.s.finMovs[id]
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
	stored, ok := r.s.finMovs[m.ID]
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
	for _, id := range r.s.finOrder {
		m := r.s.finMovs[id]
		if m.CompanyID == companyID && m.SaleID != nil && *m.SaleID == saleID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memFinMovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.FinancialMovement, error) {
	return nil, nil
}

// memTxRunner serializa as transações com mutex e desfaz o estado inteiro
// quando fn retorna erro, imitando Commit/Rollback do banco.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(&memSaleRepo{t.s}, &memSaleItemRepo{t.s}, &memStockMovementRepo{t.s}, &memProductRepo{t.s})
	if err != nil {
		t.s.restore(snap)
	}
	return err
}

func (t *memTxRunner) RunCheckout(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	finRepo repository.FinancialMovementRepository,
	accountRepo repository.AccountRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(&memSaleRepo{t.s}, &memSaleItemRepo{t.s}, &memStockMovementRepo{t.s},
		&memProductRepo{t.s}, &memFinMovementRepo{t.s}, &memAccountRepo{t.s})
	if err != nil {
		t.s.restore(snap)
	}
	return err
}

// --- montagem ---

func newOrchestrator() (*checkout.Orchestrator, *memStore) {
	store := newMemStore()
	store.products[productID] = &entity.Product{
		ID:           productID,
		CompanyID:    companyID,
		SKU:          "CAFE-500",
		Name:         "Café torrado 500g",
		Price:        decimal.NewFromInt(100),
		CurrentStock: decimal.NewFromInt(10),
		MinStock:     decimal.NewFromInt(2),
		Active:       true,
	}
	store.services[serviceID] = &entity.Service{
		ID:        serviceID,
		CompanyID: companyID,
		Name:      "Moagem",
		Price:     decimal.NewFromInt(15),
		Active:    true,
	}
	store.customers[customerID] = &entity.Customer{
		ID:        customerID,
		CompanyID: companyID,
		Name:      "Maria da Silva",
	}
	store.accounts[caixaID] = &entity.Account{
		ID:        caixaID,
		CompanyID: companyID,
		Name:      "Caixa",
		Balance:   decimal.NewFromInt(500),
	}

	runner := &memTxRunner{store}
	stockLedger := stock.NewLedgerUseCase(nil, &memProductRepo{store}, &memStockMovementRepo{store})
	financeLedger := finance.NewLedgerUseCase(nil, &memFinMovementRepo{store})
	orch := checkout.NewOrchestrator(
		runner, stockLedger, financeLedger,
		&memSaleRepo{store}, &memSaleItemRepo{store}, &memProductRepo{store},
		&memServiceRepo{store}, &memCustomerRepo{store}, &memAccountRepo{store},
	)
	return orch, store
}

func operador() checkout.Actor {
	return checkout.Actor{UserID: operatorID, CompanyID: companyID, Role: entity.RoleOperador}
}

func gerente() checkout.Actor {
	return checkout.Actor{UserID: operatorID, CompanyID: companyID, Role: entity.RoleGerente}
}

func ptr(s string) *string { return &s }

func openSale(t *testing.T, orch *checkout.Orchestrator) *entity.Sale {
	t.Helper()
	sale, err := orch.Open(context.Background(), operador(), nil)
	require.NoError(t, err)
	return sale
}

func addProduct(t *testing.T, orch *checkout.Orchestrator, saleID string, qty int64) *entity.SaleItem {
	t.Helper()
	item, err := orch.AddItem(context.Background(), operador(), saleID, checkout.AddItemInput{
		ProductID: ptr(productID),
		Quantity:  decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return item
}

func stockOf(store *memStore) decimal.Decimal {
	return store.products[productID].CurrentStock
}

func balanceOf(store *memStore) decimal.Decimal {
	return store.accounts[caixaID].Balance
}

// ──────────────────────────────────────────────────────────────────────────────
// Abertura
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_UmaVendaAbertaPorOperador(t *testing.T) {
	orch, _ := newOrchestrator()

	first, err := orch.Open(context.Background(), operador(), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleAberta, first.Status)
	assert.True(t, first.Total.IsZero())

	_, err = orch.Open(context.Background(), operador(), nil)
	assert.ErrorIs(t, err, domain.ErrSaleAlreadyOpen,
		"segunda abertura do mesmo operador deve ser rejeitada")
}

// Duas aberturas verdadeiramente simultâneas do mesmo operador: o lock do
// operador serializa as transações e exatamente uma commita.
func TestOpen_AberturasConcorrentes_UmaFalha(t *testing.T) {
	orch, store := newOrchestrator()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orch.Open(context.Background(), operador(), nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrSaleAlreadyOpen)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exatamente uma abertura deve ser rejeitada")
	assert.Len(t, store.sales, 1, "só uma venda aberta pode existir por operador")
	assert.Equal(t, 2, store.operatorLocks,
		"cada abertura deve tomar o lock do operador dentro da transação")
}

func TestOpen_ClienteInexistente(t *testing.T) {
	orch, _ := newOrchestrator()

	_, err := orch.Open(context.Background(), operador(), ptr("cliente-fantasma"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Itens
// ──────────────────────────────────────────────────────────────────────────────

// Estoque 10, item de 3 unidades a 100: estoque cai para 7 e o subtotal é 300
// na mesma operação.
func TestAddItem_BaixaEstoqueERecalcula(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)

	item := addProduct(t, orch, sale.ID, 3)

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(100)),
		"preço do catálogo congelado no item")
	assert.True(t, item.Total.Equal(decimal.NewFromInt(300)))
	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(7)))

	updated := store.sales[sale.ID]
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(300)))

	require.Len(t, store.stockMovs, 1)
	assert.Equal(t, entity.StockMovementSaida, store.stockMovs[0].Type)
	require.NotNil(t, store.stockMovs[0].SaleID)
	assert.Equal(t, sale.ID, *store.stockMovs[0].SaleID)
}

// Estoque insuficiente: a transação inteira desfaz, nem item nem movimento.
func TestAddItem_EstoqueInsuficiente_NadaPersistido(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)

	_, err := orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ProductID: ptr(productID),
		Quantity:  decimal.NewFromInt(11),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(10)))
	assert.Empty(t, store.items)
	assert.Empty(t, store.stockMovs)
	assert.True(t, store.sales[sale.ID].Subtotal.IsZero())
}

// Item de serviço não toca o estoque.
func TestAddItem_ServicoNaoMexeNoEstoque(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)

	item, err := orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ServiceID: ptr(serviceID),
		Quantity:  decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	assert.True(t, item.Total.Equal(decimal.NewFromInt(30)))
	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(10)))
	assert.Empty(t, store.stockMovs)
}

func TestAddItem_ValidacaoDeEntrada(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)

	// produto e serviço ao mesmo tempo
	_, err := orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ProductID: ptr(productID),
		ServiceID: ptr(serviceID),
		Quantity:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// nenhum dos dois
	_, err = orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// quantidade zero
	_, err = orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ProductID: ptr(productID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// desconto do item maior que quantidade × preço
	_, err = orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ProductID: ptr(productID),
		Quantity:  decimal.NewFromInt(1),
		Discount:  decimal.NewFromInt(101),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveItem_DevolveEstoque(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	item := addProduct(t, orch, sale.ID, 3)
	require.True(t, stockOf(store).Equal(decimal.NewFromInt(7)))

	err := orch.RemoveItem(context.Background(), operador(), sale.ID, item.ID)
	require.NoError(t, err)

	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(10)),
		"remoção do item devolve o estoque")
	assert.True(t, store.sales[sale.ID].Subtotal.IsZero())

	// O histórico guarda a saída E a devolução; nada é apagado.
	require.Len(t, store.stockMovs, 2)
	assert.Equal(t, entity.StockMovementSaida, store.stockMovs[0].Type)
	assert.Equal(t, entity.StockMovementDevolucao, store.stockMovs[1].Type)
}

// Ajuste de quantidade gera um único movimento compensatório do tamanho do
// delta.
func TestSetQuantity_MovimentoCompensatorioUnico(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	item := addProduct(t, orch, sale.ID, 3)

	// 3 → 5: saída de 2
	err := orch.SetQuantity(context.Background(), operador(), sale.ID, item.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(5)))
	require.Len(t, store.stockMovs, 2)
	assert.Equal(t, entity.StockMovementSaida, store.stockMovs[1].Type)
	assert.True(t, store.stockMovs[1].Quantity.Equal(decimal.NewFromInt(2)))

	// 5 → 1: devolução de 4
	err = orch.SetQuantity(context.Background(), operador(), sale.ID, item.ID, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(9)))
	require.Len(t, store.stockMovs, 3)
	assert.Equal(t, entity.StockMovementDevolucao, store.stockMovs[2].Type)
	assert.True(t, store.stockMovs[2].Quantity.Equal(decimal.NewFromInt(4)))

	assert.True(t, store.sales[sale.ID].Subtotal.Equal(decimal.NewFromInt(100)))
}

func TestSetQuantity_AumentoSemEstoque_NadaPersistido(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	item := addProduct(t, orch, sale.ID, 3)

	err := orch.SetQuantity(context.Background(), operador(), sale.ID, item.ID, decimal.NewFromInt(20))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(7)))
	assert.True(t, store.items[item.ID].Quantity.Equal(decimal.NewFromInt(3)),
		"a quantidade do item não pode mudar no rollback")
}

// ──────────────────────────────────────────────────────────────────────────────
// Desconto
// ──────────────────────────────────────────────────────────────────────────────

// O teto é percentual do SUBTOTAL por perfil: operador 10%, gerente 30%,
// admin sem teto.
func TestApplyDiscount_TetoPorPerfil(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 3) // subtotal 300

	// operador: 20 ≤ 30 (10% de 300) passa
	updated, err := orch.ApplyDiscount(context.Background(), operador(), sale.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(280)))

	// operador: 50 > 30 é rejeitado
	_, err = orch.ApplyDiscount(context.Background(), operador(), sale.ID, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, domain.ErrDiscountExceedsLimit)
	assert.True(t, store.sales[sale.ID].Discount.Equal(decimal.NewFromInt(20)),
		"desconto anterior preservado após rejeição")

	// gerente: 50 ≤ 90 (30% de 300) passa
	updated, err = orch.ApplyDiscount(context.Background(), gerente(), sale.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(250)))

	// admin: 100% do subtotal passa
	admin := checkout.Actor{UserID: operatorID, CompanyID: companyID, Role: entity.RoleAdmin}
	updated, err = orch.ApplyDiscount(context.Background(), admin, sale.ID, decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, updated.Total.IsZero())
}

func TestApplyDiscount_NegativoRejeitado(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 1)

	_, err := orch.ApplyDiscount(context.Background(), operador(), sale.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalização
// ──────────────────────────────────────────────────────────────────────────────

// Fluxo completo: 3 unidades a 100, desconto 20, pagamento pix. A venda fecha
// com total 280 e a receita "pago" credita o caixa na mesma transação.
func TestFinalize_CriaReceitaPaga(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 3)
	_, err := orch.ApplyDiscount(context.Background(), operador(), sale.ID, decimal.NewFromInt(20))
	require.NoError(t, err)

	finalized, err := orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		PaymentMethod: "pix",
		AccountID:     caixaID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleFinalizada, finalized.Status)
	assert.Equal(t, "pix", finalized.PaymentMethod)
	require.NotNil(t, finalized.FinalizedAt)
	assert.True(t, finalized.Total.Equal(decimal.NewFromInt(280)))

	assert.True(t, balanceOf(store).Equal(decimal.NewFromInt(780)),
		"a receita da venda credita o caixa (500 + 280)")

	require.Len(t, store.finMovs, 1)
	for _, fin := range store.finMovs {
		assert.Equal(t, entity.FinancialReceita, fin.Type)
		assert.Equal(t, entity.FinancialPago, fin.Status)
		assert.True(t, fin.Value.Equal(decimal.NewFromInt(280)))
		require.NotNil(t, fin.SaleID)
		assert.Equal(t, sale.ID, *fin.SaleID)
	}
}

func TestFinalize_VendaVazia(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)

	_, err := orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		PaymentMethod: "dinheiro",
		AccountID:     caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrEmptySale)
	assert.Equal(t, entity.SaleAberta, store.sales[sale.ID].Status)
}

func TestFinalize_SemFormaDePagamento(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 1)

	_, err := orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		AccountID: caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMethodRequired)
}

// Venda finalizada não aceita mais mutação de itens nem segunda finalização.
func TestFinalize_EstadoTerminalParaMutacao(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 1)

	_, err := orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		PaymentMethod: "dinheiro",
		AccountID:     caixaID,
	})
	require.NoError(t, err)

	_, err = orch.AddItem(context.Background(), operador(), sale.ID, checkout.AddItemInput{
		ProductID: ptr(productID),
		Quantity:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrSaleNotOpen)

	_, err = orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		PaymentMethod: "pix",
		AccountID:     caixaID,
	})
	assert.ErrorIs(t, err, domain.ErrSaleNotOpen)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelamento
// ──────────────────────────────────────────────────────────────────────────────

// Operador não cancela venda finalizada; gerente cancela e tudo é estornado
// em uma transação: estoque de volta a 10, caixa de volta a 500, receita
// cancelada. O histórico ganha entradas novas, nada é apagado.
func TestCancel_VendaFinalizada(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 3)
	_, err := orch.Finalize(context.Background(), operador(), sale.ID, checkout.FinalizeInput{
		PaymentMethod: "pix",
		AccountID:     caixaID,
	})
	require.NoError(t, err)
	require.True(t, balanceOf(store).Equal(decimal.NewFromInt(800)))

	_, err = orch.Cancel(context.Background(), operador(), sale.ID, "cliente desistiu")
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"operador não pode cancelar venda finalizada")

	canceled, err := orch.Cancel(context.Background(), gerente(), sale.ID, "cliente desistiu")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleCancelada, canceled.Status)
	require.NotNil(t, canceled.CanceledAt)
	assert.Contains(t, canceled.Notes, "cancelada: cliente desistiu")

	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(10)),
		"estoque devolvido no cancelamento")
	assert.True(t, balanceOf(store).Equal(decimal.NewFromInt(500)),
		"receita estornada no cancelamento")

	for _, fin := range store.finMovs {
		assert.Equal(t, entity.FinancialCancelado, fin.Status)
	}
	// saída do item + devolução do cancelamento
	require.Len(t, store.stockMovs, 2)
	assert.Equal(t, entity.StockMovementDevolucao, store.stockMovs[1].Type)
}

// Venda aberta pode ser cancelada pelo próprio operador.
func TestCancel_VendaAbertaPeloOperador(t *testing.T) {
	orch, store := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 2)
	require.True(t, stockOf(store).Equal(decimal.NewFromInt(8)))

	canceled, err := orch.Cancel(context.Background(), operador(), sale.ID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleCancelada, canceled.Status)
	assert.True(t, stockOf(store).Equal(decimal.NewFromInt(10)))
	assert.True(t, balanceOf(store).Equal(decimal.NewFromInt(500)),
		"venda aberta nunca gerou receita, saldo intacto")
}

func TestCancel_CanceladaEhTerminal(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 1)

	_, err := orch.Cancel(context.Background(), operador(), sale.ID, "")
	require.NoError(t, err)

	_, err = orch.Cancel(context.Background(), gerente(), sale.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSale_RetornaVendaComItens(t *testing.T) {
	orch, _ := newOrchestrator()
	sale := openSale(t, orch)
	addProduct(t, orch, sale.ID, 2)

	got, items, err := orch.GetSale(context.Background(), operador(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(2)))

	// Outro tenant não enxerga a venda.
	other := checkout.Actor{UserID: operatorID, CompanyID: "outra-empresa", Role: entity.RoleAdmin}
	_, _, err = orch.GetSale(context.Background(), other, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
