package main

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository simula o Repository para testes sem banco real
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginTx(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, tx Tx, transaction *Transaction) (string, error) {
	args := m.Called(ctx, tx, transaction)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) AddTransactionItem(ctx context.Context, tx Tx, transactionID string, item TransactionItem) error {
	args := m.Called(ctx, tx, transactionID, item)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, transactionID string) ([]TransactionRow, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).([]TransactionRow), args.Error(1)
}

func (m *MockRepository) FindByCustomerID(ctx context.Context, customerID string) ([]TransactionRow, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]TransactionRow), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]TransactionRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]TransactionRow), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, transactionID string, status string) (int64, error) {
	args := m.Called(ctx, transactionID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, transactionID string) (int64, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTx simula a transação local
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockCustomerClient simula o customer-service
type MockCustomerClient struct {
	mock.Mock
}

func (m *MockCustomerClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

// MockProductClient simula o product-service
type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductClient) UpdateStock(ctx context.Context, productID string, stock int) error {
	args := m.Called(ctx, productID, stock)
	return args.Error(0)
}
