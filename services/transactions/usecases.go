package main

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateTransactionRequest representa a requisição para criar uma transação
type CreateTransactionRequest struct {
	CustomerID string        `json:"customerId" binding:"required"`
	Items      []RequestItem `json:"items" binding:"required,min=1,dive"`
}

// RequestItem representa um item pedido (produto + quantidade)
type RequestItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// TransactionUseCase coordena a criação de transações sobre três armazenamentos
// independentes: customer-service, product-service e o banco local. Não existe
// transação distribuída aqui; a consistência é garantida pela ordem das fases
// e pelas compensações.
type TransactionUseCase struct {
	repository Repository
	customers  CustomerClient
	products   ProductClient
	tracer     trace.Tracer
}

// NewTransactionUseCase cria uma nova instância de TransactionUseCase
func NewTransactionUseCase(
	repository Repository,
	customers CustomerClient,
	products ProductClient,
	tracer trace.Tracer,
) *TransactionUseCase {
	return &TransactionUseCase{
		repository: repository,
		customers:  customers,
		products:   products,
		tracer:     tracer,
	}
}

// CreateTransaction executa o fluxo completo de criação:
//
//  1. valida a requisição
//  2. valida o cliente no customer-service
//  3. valida produto e estoque de cada item, acumulando o total
//  4. reserva o estoque (decrementos concorrentes no product-service)
//  5. grava cabeçalho + itens em uma transação local atômica
//
// Toda a validação remota acontece antes de abrir a transação local, para não
// segurar locks do banco durante chamadas de rede. Se a escrita local falhar
// depois da reserva, os decrementos já aplicados são compensados.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error) {
	if req.CustomerID == "" || len(req.Items) == 0 {
		return "", ErrInvalidRequest
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return "", ErrInvalidRequest
		}
	}

	log.Printf("➡️ [CREATE TRANSACTION] CustomerID: %s | Items: %d", req.CustomerID, len(req.Items))

	ctx, span := uc.tracer.Start(ctx, "coordinate_transaction")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer_id", req.CustomerID),
		attribute.Int("items", len(req.Items)),
	)

	if _, err := uc.customers.GetCustomer(ctx, req.CustomerID); err != nil {
		log.Printf("❌ Customer validation failed for %s: %v", req.CustomerID, err)
		span.RecordError(err)
		return "", err
	}

	snapshots, totalAmount, err := uc.validateItems(ctx, req.Items)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if err := uc.reserveStock(ctx, snapshots); err != nil {
		span.RecordError(err)
		return "", err
	}

	transactionID, err := uc.persistTransaction(ctx, req.CustomerID, totalAmount, snapshots)
	if err != nil {
		span.RecordError(err)
		span.AddEvent("releasing reserved stock after local write failure")
		uc.releaseStock(ctx, snapshots)
		return "", err
	}

	span.SetAttributes(attribute.String("transaction_id", transactionID))
	log.Printf("✅ Transaction created: %s | Total: %.2f", transactionID, totalAmount)
	return transactionID, nil
}

// validateItems valida cada item em sequência contra o product-service,
// interrompendo no primeiro que falhar. Devolve os snapshots de preço/estoque
// e o total acumulado.
func (uc *TransactionUseCase) validateItems(ctx context.Context, items []RequestItem) ([]ProductSnapshot, float64, error) {
	snapshots := make([]ProductSnapshot, 0, len(items))
	var totalAmount float64

	for _, item := range items {
		product, err := uc.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			log.Printf("❌ Product validation failed for %s: %v", item.ProductID, err)
			return nil, 0, err
		}

		if product.Stock < item.Quantity {
			log.Printf("❌ Insufficient stock for product %s: available=%d requested=%d",
				item.ProductID, product.Stock, item.Quantity)
			return nil, 0, &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			}
		}

		totalAmount += product.Price * float64(item.Quantity)
		snapshots = append(snapshots, ProductSnapshot{
			ProductID:    item.ProductID,
			Name:         product.Name,
			Quantity:     item.Quantity,
			PricePerItem: product.Price,
			StockBefore:  product.Stock,
		})
	}

	return snapshots, totalAmount, nil
}

// reserveStock aplica os decrementos de estoque em paralelo. Os produtos são
// disjuntos e cada alvo foi calculado na validação, então as chamadas não
// dependem umas das outras; o resultado de cada uma é registrado
// individualmente para que uma falha parcial seja compensada e reportada com
// precisão.
func (uc *TransactionUseCase) reserveStock(ctx context.Context, snapshots []ProductSnapshot) error {
	ctx, span := uc.tracer.Start(ctx, "reserve_stock")
	defer span.End()

	results := make([]error, len(snapshots))
	var wg sync.WaitGroup
	for i, snap := range snapshots {
		wg.Add(1)
		go func(i int, snap ProductSnapshot) {
			defer wg.Done()
			results[i] = uc.products.UpdateStock(ctx, snap.ProductID, snap.StockBefore-snap.Quantity)
		}(i, snap)
	}
	wg.Wait()

	applied := make([]ProductSnapshot, 0, len(snapshots))
	var failed error
	for i, err := range results {
		if err != nil {
			log.Printf("❌ [RESERVE] Failed for ProductID=%s: %v", snapshots[i].ProductID, err)
			if failed == nil {
				failed = err
			}
			continue
		}
		applied = append(applied, snapshots[i])
	}
	if failed == nil {
		return nil
	}

	span.RecordError(failed)
	span.AddEvent("partial stock reservation, compensating applied decrements")
	uc.releaseStock(ctx, applied)
	return failed
}

// releaseStock devolve o estoque dos snapshots informados ao valor anterior à
// reserva. Roda fora do cancelamento da requisição: abandonar o request não
// pode abandonar a compensação. Uma falha aqui deixa o registro de produtos
// inconsistente e só pode ser reportada.
func (uc *TransactionUseCase) releaseStock(ctx context.Context, snapshots []ProductSnapshot) {
	ctx = context.WithoutCancel(ctx)
	for _, snap := range snapshots {
		if err := uc.products.UpdateStock(ctx, snap.ProductID, snap.StockBefore); err != nil {
			log.Printf("🚨 [COMPENSATE] Stock adjustment incomplete: ProductID=%s left decremented: %v",
				snap.ProductID, err)
			continue
		}
		log.Printf("↩️ [COMPENSATE] Stock restored for ProductID=%s", snap.ProductID)
	}
}

// persistTransaction grava cabeçalho e itens em uma única transação local.
// O rollback adiado cobre todo caminho de saída, inclusive cancelamento de
// contexto; depois do commit ele é um no-op.
func (uc *TransactionUseCase) persistTransaction(ctx context.Context, customerID string, totalAmount float64, snapshots []ProductSnapshot) (string, error) {
	ctx, span := uc.tracer.Start(ctx, "persist_transaction")
	defer span.End()

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return "", &PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	transaction := NewTransaction(customerID, totalAmount)
	transactionID, err := uc.repository.CreateTransaction(ctx, tx, transaction)
	if err != nil {
		return "", &PersistenceError{Op: "insert transaction", Err: err}
	}

	for _, snap := range snapshots {
		item := TransactionItem{
			ProductID:    snap.ProductID,
			Quantity:     snap.Quantity,
			PricePerItem: snap.PricePerItem,
		}
		if err := uc.repository.AddTransactionItem(ctx, tx, transactionID, item); err != nil {
			return "", &PersistenceError{Op: "insert transaction item", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", &PersistenceError{Op: "commit", Err: err}
	}
	return transactionID, nil
}

// UpdateTransactionStatus atualiza o status de uma transação existente
func (uc *TransactionUseCase) UpdateTransactionStatus(ctx context.Context, transactionID, status string) error {
	if !IsValidTransactionStatus(status) {
		return ErrInvalidStatus
	}

	affected, err := uc.repository.UpdateStatus(ctx, transactionID, status)
	if err != nil {
		return &PersistenceError{Op: "update status", Err: err}
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	log.Printf("✅ Transaction %s status updated to %s", transactionID, status)
	return nil
}

// DeleteTransaction remove uma transação existente
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, transactionID string) error {
	affected, err := uc.repository.Delete(ctx, transactionID)
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	log.Printf("🗑️ Transaction %s deleted", transactionID)
	return nil
}
