package main

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("customer id and items are required")
	ErrInvalidStatus       = errors.New("invalid status provided, must be 'pending', 'completed' or 'cancelled'")
	ErrCustomerNotFound    = errors.New("customer not found in customer service")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ProductNotFoundError indica que um produto referenciado não existe no product-service
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found or inaccessible in product service", e.ProductID)
}

// InsufficientStockError carrega o detalhe da falta de estoque do primeiro item reprovado
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// UpstreamError indica falha de um serviço remoto que não foi um not-found limpo
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service failure: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PersistenceError indica falha na escrita ou leitura do armazenamento local
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure on %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
