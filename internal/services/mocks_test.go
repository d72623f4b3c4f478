package services

import (
	"context"
	"errors"
	"time"

	"shoppit/internal/models"
	"shoppit/internal/repositories"

	"github.com/shopspring/decimal"
)

// Mock implementations for testing

type mockCartRepository struct {
	carts      map[string]*models.Cart
	items      map[int]*repositories.CartItemDetail
	nextCartID int
	nextItemID int

	shouldFailOps map[string]bool
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts:         make(map[string]*models.Cart),
		items:         make(map[int]*repositories.CartItemDetail),
		nextCartID:    1,
		nextItemID:    1,
		shouldFailOps: make(map[string]bool),
	}
}

func (m *mockCartRepository) addCart(code string, paid bool) *models.Cart {
	cart := &models.Cart{
		ID:       m.nextCartID,
		CartCode: code,
		Paid:     paid,
	}
	m.carts[code] = cart
	m.nextCartID++
	return cart
}

func (m *mockCartRepository) addItem(cartID, productID, quantity int, name, slug, price string) *repositories.CartItemDetail {
	detail := &repositories.CartItemDetail{
		CartItem: models.CartItem{
			ID:        m.nextItemID,
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
		},
		ProductName:  name,
		ProductSlug:  slug,
		ProductPrice: decimal.RequireFromString(price),
	}
	m.items[m.nextItemID] = detail
	m.nextItemID++
	return detail
}

func (m *mockCartRepository) GetOrCreateByCode(code string) (*models.Cart, error) {
	if m.shouldFailOps["GetOrCreateByCode"] {
		return nil, errors.New("mock error")
	}
	if cart, ok := m.carts[code]; ok {
		return cart, nil
	}
	return m.addCart(code, false), nil
}

func (m *mockCartRepository) GetByCode(code string) (*models.Cart, error) {
	if cart, ok := m.carts[code]; ok {
		return cart, nil
	}
	return nil, models.ErrCartNotFound
}

func (m *mockCartRepository) GetActiveByCode(code string) (*models.Cart, error) {
	if cart, ok := m.carts[code]; ok && !cart.Paid {
		return cart, nil
	}
	return nil, models.ErrCartNotFound
}

func (m *mockCartRepository) AddItem(cartID, productID int) (*models.CartItem, error) {
	for _, detail := range m.items {
		if detail.CartID == cartID && detail.ProductID == productID {
			detail.Quantity = 1
			item := detail.CartItem
			return &item, nil
		}
	}
	item := &models.CartItem{
		ID:        m.nextItemID,
		CartID:    cartID,
		ProductID: productID,
		Quantity:  1,
	}
	m.items[m.nextItemID] = &repositories.CartItemDetail{CartItem: *item}
	m.nextItemID++
	return item, nil
}

func (m *mockCartRepository) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	detail, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	detail.Quantity = quantity
	item := detail.CartItem
	return &item, nil
}

func (m *mockCartRepository) DeleteItem(itemID int) error {
	if _, ok := m.items[itemID]; !ok {
		return models.ErrCartItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepository) HasProduct(cartID, productID int) (bool, error) {
	for _, detail := range m.items {
		if detail.CartID == cartID && detail.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepository) ItemsWithProducts(cartID int) ([]*repositories.CartItemDetail, error) {
	if m.shouldFailOps["ItemsWithProducts"] {
		return nil, errors.New("mock error")
	}
	var details []*repositories.CartItemDetail
	for id := 1; id < m.nextItemID; id++ {
		if detail, ok := m.items[id]; ok && detail.CartID == cartID {
			details = append(details, detail)
		}
	}
	return details, nil
}

func (m *mockCartRepository) ItemCount(cartID int) (int, error) {
	count := 0
	for _, detail := range m.items {
		if detail.CartID == cartID {
			count += detail.Quantity
		}
	}
	return count, nil
}

type mockProductRepository struct {
	products map[int]*models.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int]*models.Product)}
}

func (m *mockProductRepository) addProduct(id int, name, slug, price string) *models.Product {
	product := &models.Product{
		ID:    id,
		Name:  name,
		Slug:  slug,
		Price: decimal.RequireFromString(price),
	}
	m.products[id] = product
	return product
}

func (m *mockProductRepository) GetByID(id int) (*models.Product, error) {
	if product, ok := m.products[id]; ok {
		return product, nil
	}
	return nil, models.ErrProductNotFound
}

type mockTransactionRepository struct {
	transactions map[string]*models.Transaction
	nextID       int

	shouldFailOps map[string]bool
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{
		transactions:  make(map[string]*models.Transaction),
		nextID:        1,
		shouldFailOps: make(map[string]bool),
	}
}

func (m *mockTransactionRepository) Create(req *models.TransactionCreateRequest) (*models.Transaction, error) {
	if m.shouldFailOps["Create"] {
		return nil, errors.New("mock error")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	txn := &models.Transaction{
		ID:        m.nextID,
		Ref:       req.Ref,
		CartID:    req.CartID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    models.TransactionPending,
		UserID:    req.UserID,
		CreatedAt: time.Now(),
	}
	m.transactions[req.Ref] = txn
	m.nextID++
	return txn, nil
}

func (m *mockTransactionRepository) GetByRef(ref string) (*models.Transaction, error) {
	if txn, ok := m.transactions[ref]; ok {
		return txn, nil
	}
	return nil, models.ErrTransactionNotFound
}

func (m *mockTransactionRepository) Complete(ref string, userID *int) (bool, error) {
	if m.shouldFailOps["Complete"] {
		return false, errors.New("mock error")
	}
	txn, ok := m.transactions[ref]
	if !ok {
		return false, models.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return false, nil
	}
	txn.Status = models.TransactionCompleted
	if userID != nil {
		txn.UserID = userID
	}
	return true, nil
}

func (m *mockTransactionRepository) MarkFailed(ref string) (bool, error) {
	txn, ok := m.transactions[ref]
	if !ok {
		return false, models.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return false, nil
	}
	txn.Status = models.TransactionFailed
	return true, nil
}

func (m *mockTransactionRepository) FailStale(olderThan time.Duration) (int64, error) {
	if m.shouldFailOps["FailStale"] {
		return 0, errors.New("mock error")
	}
	cutoff := time.Now().Add(-olderThan)
	var swept int64
	for _, txn := range m.transactions {
		if txn.IsPending() && txn.CreatedAt.Before(cutoff) {
			txn.Status = models.TransactionFailed
			swept++
		}
	}
	return swept, nil
}

func (m *mockTransactionRepository) pendingCount() int {
	count := 0
	for _, txn := range m.transactions {
		if txn.IsPending() {
			count++
		}
	}
	return count
}

// stubGateway is a scriptable gateway for exercising checkout and
// verification paths.
type stubGateway struct {
	name       string
	createFunc func(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error)
	verifyFunc func(ctx context.Context, providerID string) (*ProviderTransaction, error)
}

func (g *stubGateway) Name() string {
	return g.name
}

func (g *stubGateway) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
	if g.createFunc != nil {
		return g.createFunc(ctx, req)
	}
	return &RedirectTarget{URL: "https://pay.example.com/redirect", ProviderRef: "stub-1"}, nil
}

func (g *stubGateway) VerifyPayment(ctx context.Context, providerID string) (*ProviderTransaction, error) {
	if g.verifyFunc != nil {
		return g.verifyFunc(ctx, providerID)
	}
	return &ProviderTransaction{Status: ProviderSuccessful}, nil
}
