package main

import (
	"context"
	"log"
)

// Nome sentinela usado quando o product-service não resolve um produto na
// leitura; a leitura degrada, nunca falha por causa de enriquecimento.
const productNameNotFound = "Product Not Found"

// TransactionAggregator reconstrói transações agregadas a partir das linhas
// achatadas do armazenamento, enriquecendo cada item com o nome atual do
// produto. O cache de nomes vive só dentro de uma chamada.
type TransactionAggregator struct {
	repository Repository
	products   ProductClient
}

// NewTransactionAggregator cria uma nova instância de TransactionAggregator
func NewTransactionAggregator(repository Repository, products ProductClient) *TransactionAggregator {
	return &TransactionAggregator{
		repository: repository,
		products:   products,
	}
}

// GetTransactionByID devolve uma transação agregada com seus itens
func (a *TransactionAggregator) GetTransactionByID(ctx context.Context, transactionID string) (*Transaction, error) {
	rows, err := a.repository.FindByID(ctx, transactionID)
	if err != nil {
		return nil, &PersistenceError{Op: "find transaction", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrTransactionNotFound
	}

	transactions := a.group(ctx, rows)
	return &transactions[0], nil
}

// GetTransactionsByCustomerID devolve as transações agregadas de um cliente
func (a *TransactionAggregator) GetTransactionsByCustomerID(ctx context.Context, customerID string) ([]Transaction, error) {
	rows, err := a.repository.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, &PersistenceError{Op: "find transactions by customer", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrTransactionNotFound
	}

	return a.group(ctx, rows), nil
}

// GetAllTransactions devolve todas as transações agregadas; um armazenamento
// vazio é uma lista vazia, não um erro
func (a *TransactionAggregator) GetAllTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := a.repository.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list transactions", Err: err}
	}

	return a.group(ctx, rows), nil
}

// group agrupa as linhas achatadas por transação, preservando a ordem de
// chegada das linhas (e portanto a ordem do armazenamento, mais recente
// primeiro) tanto entre transações quanto entre itens.
func (a *TransactionAggregator) group(ctx context.Context, rows []TransactionRow) []Transaction {
	names := make(map[string]string)
	index := make(map[string]int)
	transactions := make([]Transaction, 0)

	for _, row := range rows {
		pos, ok := index[row.ID]
		if !ok {
			transactions = append(transactions, Transaction{
				ID:              row.ID,
				CustomerID:      row.CustomerID,
				TotalAmount:     row.TotalAmount,
				Status:          row.Status,
				TransactionDate: row.TransactionDate,
				Items:           make([]TransactionItem, 0),
			})
			pos = len(transactions) - 1
			index[row.ID] = pos
		}

		transactions[pos].Items = append(transactions[pos].Items, TransactionItem{
			ItemID:       row.ItemID,
			ProductID:    row.ProductID,
			ProductName:  a.productName(ctx, names, row.ProductID),
			Quantity:     row.Quantity,
			PricePerItem: row.PricePerItem,
		})
	}

	return transactions
}

// productName resolve o nome de um produto consultando o product-service no
// máximo uma vez por id dentro da chamada
func (a *TransactionAggregator) productName(ctx context.Context, cache map[string]string, productID string) string {
	if name, ok := cache[productID]; ok {
		return name
	}

	product, err := a.products.GetProduct(ctx, productID)
	if err != nil {
		log.Printf("⚠️ Could not fetch product info for product_id %s: %v", productID, err)
		cache[productID] = productNameNotFound
		return productNameNotFound
	}

	cache[productID] = product.Name
	return product.Name
}
