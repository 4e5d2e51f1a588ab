package main

import (
	"time"
)

// Transaction representa uma transação (pedido com um ou mais itens) no sistema
type Transaction struct {
	ID              string            `json:"id" db:"id"`
	CustomerID      string            `json:"customer_id" db:"customer_id"`
	TotalAmount     float64           `json:"total_amount" db:"total_amount"`
	Status          string            `json:"status" db:"status"`
	TransactionDate time.Time         `json:"transaction_date" db:"transaction_date"`
	Items           []TransactionItem `json:"items"`
}

// TransactionItem representa um item de uma transação, com o preço capturado
// no momento da criação (snapshot, não acompanha o preço atual do produto)
type TransactionItem struct {
	ItemID       string  `json:"item_id" db:"id"`
	ProductID    string  `json:"product_id" db:"product_id"`
	ProductName  string  `json:"product_name,omitempty"`
	Quantity     int     `json:"quantity" db:"quantity"`
	PricePerItem float64 `json:"price_per_item" db:"price_per_item"`
}

// ProductSnapshot guarda preço e estoque de um produto no momento da validação.
// Vive apenas durante a coordenação de uma criação, nunca é persistido.
type ProductSnapshot struct {
	ProductID    string
	Name         string
	Quantity     int
	PricePerItem float64
	StockBefore  int
}

// NewTransaction cria uma nova instância de Transaction
func NewTransaction(customerID string, totalAmount float64) *Transaction {
	return &Transaction{
		CustomerID:      customerID,
		TotalAmount:     totalAmount,
		Status:          TransactionStatusPending,
		TransactionDate: time.Now(),
	}
}

// TransactionStatus representa os possíveis status de uma transação
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// IsValidTransactionStatus informa se o status é um dos aceitos pela API
func IsValidTransactionStatus(status string) bool {
	switch status {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}
