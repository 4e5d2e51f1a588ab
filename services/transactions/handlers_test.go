package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"
)

// MockCoordinator simula o use case de coordenação para os handlers
type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCoordinator) UpdateTransactionStatus(ctx context.Context, transactionID, status string) error {
	args := m.Called(ctx, transactionID, status)
	return args.Error(0)
}

func (m *MockCoordinator) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockReader simula a leitura agregada para os handlers
type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetTransactionByID(ctx context.Context, transactionID string) (*Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockReader) GetTransactionsByCustomerID(ctx context.Context, customerID string) ([]Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockReader) GetAllTransactions(ctx context.Context) ([]Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func newTestRouter(useCase TransactionCoordinator, reader TransactionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTransactionHandler(useCase, reader, noop.NewTracerProvider().Tracer("test"))

	r := gin.New()
	r.POST("/api/transactions", handler.CreateTransaction)
	r.GET("/api/transactions", handler.ListTransactions)
	r.GET("/api/transactions/:id", handler.GetTransaction)
	r.GET("/api/transactions/customer/:customerId", handler.GetTransactionsByCustomer)
	r.PUT("/api/transactions/:id/status", handler.UpdateTransactionStatus)
	r.DELETE("/api/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{ErrInvalidRequest, http.StatusBadRequest},
		{ErrInvalidStatus, http.StatusBadRequest},
		{&InsufficientStockError{ProductName: "Mouse", Available: 0, Requested: 1}, http.StatusBadRequest},
		{ErrCustomerNotFound, http.StatusNotFound},
		{ErrTransactionNotFound, http.StatusNotFound},
		{&ProductNotFoundError{ProductID: "99"}, http.StatusNotFound},
		{&UpstreamError{Service: "product", Err: errors.New("timeout")}, http.StatusBadGateway},
		{&PersistenceError{Op: "commit", Err: errors.New("broken pipe")}, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, statusFromError(tc.err), "error: %v", tc.err)
	}
}

func TestCreateTransactionHandler(t *testing.T) {
	useCase := new(MockCoordinator)
	reader := new(MockReader)
	useCase.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req CreateTransactionRequest) bool {
		return req.CustomerID == "customer-456" && len(req.Items) == 2
	})).Return("transaction-123", nil)

	router := newTestRouter(useCase, reader)

	body := `{"customerId":"customer-456","items":[{"productId":"1","quantity":2},{"productId":"2","quantity":1}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionId":"transaction-123"`)
	useCase.AssertExpectations(t)
}

func TestCreateTransactionHandler_MalformedBody(t *testing.T) {
	useCase := new(MockCoordinator)
	router := newTestRouter(useCase, new(MockReader))

	cases := []string{
		`{}`,
		`{"customerId":"customer-456"}`,
		`{"customerId":"customer-456","items":[]}`,
		`{"customerId":"customer-456","items":[{"productId":"1","quantity":0}]}`,
		`{"customerId":"customer-456","items":"not-a-list"}`,
		`not json at all`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}

	useCase.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestCreateTransactionHandler_InsufficientStock(t *testing.T) {
	useCase := new(MockCoordinator)
	useCase.On("CreateTransaction", mock.Anything, mock.Anything).
		Return("", &InsufficientStockError{ProductID: "2", ProductName: "Mouse", Available: 0, Requested: 1})

	router := newTestRouter(useCase, new(MockReader))

	body := `{"customerId":"customer-456","items":[{"productId":"2","quantity":1}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"product_name":"Mouse"`)
	assert.Contains(t, w.Body.String(), `"available":0`)
	assert.Contains(t, w.Body.String(), `"requested":1`)
}

func TestGetTransactionHandler_NotFound(t *testing.T) {
	reader := new(MockReader)
	reader.On("GetTransactionByID", mock.Anything, "missing").Return(nil, ErrTransactionNotFound)

	router := newTestRouter(new(MockCoordinator), reader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactionsHandler_EmptyStoreIsEmptyList(t *testing.T) {
	reader := new(MockReader)
	reader.On("GetAllTransactions", mock.Anything).Return([]Transaction{}, nil)

	router := newTestRouter(new(MockCoordinator), reader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUpdateTransactionStatusHandler(t *testing.T) {
	useCase := new(MockCoordinator)
	useCase.On("UpdateTransactionStatus", mock.Anything, "transaction-123", "completed").Return(nil)

	router := newTestRouter(useCase, new(MockReader))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/transactions/transaction-123/status", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	useCase.AssertExpectations(t)
}

func TestDeleteTransactionHandler_NotFound(t *testing.T) {
	useCase := new(MockCoordinator)
	useCase.On("DeleteTransaction", mock.Anything, "missing").Return(ErrTransactionNotFound)

	router := newTestRouter(useCase, new(MockReader))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
