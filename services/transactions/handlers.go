package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TransactionCoordinator define a interface para o use case de coordenação
type TransactionCoordinator interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error)
	UpdateTransactionStatus(ctx context.Context, transactionID, status string) error
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionReader define a interface para a leitura agregada
type TransactionReader interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*Transaction, error)
	GetTransactionsByCustomerID(ctx context.Context, customerID string) ([]Transaction, error)
	GetAllTransactions(ctx context.Context) ([]Transaction, error)
}

// TransactionHandler contém os handlers HTTP
type TransactionHandler struct {
	useCase TransactionCoordinator
	reader  TransactionReader
	tracer  trace.Tracer
}

// NewTransactionHandler cria uma nova instância de TransactionHandler
func NewTransactionHandler(useCase TransactionCoordinator, reader TransactionReader, tracer trace.Tracer) *TransactionHandler {
	return &TransactionHandler{
		useCase: useCase,
		reader:  reader,
		tracer:  tracer,
	}
}

// UpdateStatusRequest representa a requisição de atualização de status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// statusFromError mapeia os erros tipados da coordenação para códigos HTTP
func statusFromError(err error) int {
	var stockErr *InsufficientStockError
	var productErr *ProductNotFoundError

	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.As(err, &stockErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.As(err, &productErr):
		return http.StatusNotFound
	case errors.As(err, new(*UpstreamError)):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CreateTransaction coordena a criação de uma transação
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_transaction")
	defer span.End()

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequest.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("customer_id", req.CustomerID),
		attribute.Int("items", len(req.Items)),
	)

	transactionID, err := h.useCase.CreateTransaction(ctx, req)
	if err != nil {
		span.RecordError(err)

		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        stockErr.Error(),
				"product_name": stockErr.ProductName,
				"available":    stockErr.Available,
				"requested":    stockErr.Requested,
			})
			return
		}

		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("transaction_id", transactionID))
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Transaction created successfully",
		"transactionId": transactionID,
	})
}

// GetTransaction devolve uma transação agregada pelo id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_transaction")
	defer span.End()

	transactionID := c.Param("id")
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	transaction, err := h.reader.GetTransactionByID(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// GetTransactionsByCustomer devolve as transações agregadas de um cliente
func (h *TransactionHandler) GetTransactionsByCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_transactions_by_customer")
	defer span.End()

	customerID := c.Param("customerId")
	span.SetAttributes(attribute.String("customer_id", customerID))

	transactions, err := h.reader.GetTransactionsByCustomerID(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// ListTransactions devolve todas as transações agregadas
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_transactions")
	defer span.End()

	transactions, err := h.reader.GetAllTransactions(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// UpdateTransactionStatus atualiza o status de uma transação
func (h *TransactionHandler) UpdateTransactionStatus(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_transaction_status")
	defer span.End()

	transactionID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidStatus.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("transaction_id", transactionID),
		attribute.String("status", req.Status),
	)

	if err := h.useCase.UpdateTransactionStatus(ctx, transactionID, req.Status); err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction status updated successfully"})
}

// DeleteTransaction remove uma transação
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_transaction")
	defer span.End()

	transactionID := c.Param("id")
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	if err := h.useCase.DeleteTransaction(ctx, transactionID); err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// HealthCheck verifica a saúde do serviço
func (h *TransactionHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "transactions-service",
	})
}
