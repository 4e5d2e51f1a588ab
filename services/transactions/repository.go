package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRow representa uma linha achatada (cabeçalho × item) do join
// feito na camada de armazenamento
type TransactionRow struct {
	ID              string
	CustomerID      string
	TotalAmount     float64
	Status          string
	TransactionDate time.Time
	ItemID          string
	ProductID       string
	Quantity        int
	PricePerItem    float64
}

// Repository define a interface para operações de banco de dados de transações
type Repository interface {
	// BeginTx inicia uma nova transação local
	BeginTx(ctx context.Context) (Tx, error)

	// CreateTransaction insere o cabeçalho e devolve o id atribuído pelo armazenamento
	CreateTransaction(ctx context.Context, tx Tx, transaction *Transaction) (string, error)

	// AddTransactionItem insere um item pertencente a uma transação
	AddTransactionItem(ctx context.Context, tx Tx, transactionID string, item TransactionItem) error

	// FindByID busca as linhas achatadas de uma transação
	FindByID(ctx context.Context, transactionID string) ([]TransactionRow, error)

	// FindByCustomerID busca as linhas achatadas das transações de um cliente
	FindByCustomerID(ctx context.Context, customerID string) ([]TransactionRow, error)

	// GetAll busca as linhas achatadas de todas as transações
	GetAll(ctx context.Context) ([]TransactionRow, error)

	// UpdateStatus atualiza o status de uma transação, devolvendo as linhas afetadas
	UpdateStatus(ctx context.Context, transactionID string, status string) (int64, error)

	// Delete remove uma transação, devolvendo as linhas afetadas
	Delete(ctx context.Context, transactionID string) (int64, error)
}

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresTx implementa a interface Tx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	return t.tx.Rollback(context.Background())
}

// PostgresTransactionRepository implementa Repository usando PostgreSQL
type PostgresTransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository cria uma nova instância de PostgresTransactionRepository
func NewTransactionRepository(db *pgxpool.Pool) Repository {
	return &PostgresTransactionRepository{
		db: db,
	}
}

// BeginTx inicia uma nova transação
func (r *PostgresTransactionRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PostgresTx{tx: tx}, nil
}

// CreateTransaction insere o cabeçalho da transação dentro do escopo local.
// O id e o timestamp de criação são atribuídos aqui, nunca pelo chamador.
func (r *PostgresTransactionRepository) CreateTransaction(ctx context.Context, tx Tx, transaction *Transaction) (string, error) {
	pgTx := tx.(*PostgresTx).tx

	transactionID := uuid.New().String()
	_, err := pgTx.Exec(ctx, `
		INSERT INTO transactions (id, customer_id, total_amount, status, transaction_date)
		VALUES ($1, $2, $3, $4, NOW())
	`, transactionID, transaction.CustomerID, transaction.TotalAmount, transaction.Status)
	if err != nil {
		return "", err
	}

	transaction.ID = transactionID
	return transactionID, nil
}

// AddTransactionItem insere um item da transação no mesmo escopo local
func (r *PostgresTransactionRepository) AddTransactionItem(ctx context.Context, tx Tx, transactionID string, item TransactionItem) error {
	pgTx := tx.(*PostgresTx).tx

	itemID := uuid.New().String()
	_, err := pgTx.Exec(ctx, `
		INSERT INTO transaction_items (id, transaction_id, product_id, quantity, price_per_item)
		VALUES ($1, $2, $3, $4, $5)
	`, itemID, transactionID, item.ProductID, item.Quantity, item.PricePerItem)
	return err
}

const transactionRowsQuery = `
	SELECT t.id, t.customer_id, t.total_amount, t.status, t.transaction_date,
	       ti.id AS item_id, ti.product_id, ti.quantity, ti.price_per_item
	FROM transactions t
	JOIN transaction_items ti ON t.id = ti.transaction_id
`

// FindByID busca as linhas achatadas de uma transação
func (r *PostgresTransactionRepository) FindByID(ctx context.Context, transactionID string) ([]TransactionRow, error) {
	rows, err := r.db.Query(ctx, transactionRowsQuery+`
		WHERE t.id = $1
		ORDER BY ti.id
	`, transactionID)
	if err != nil {
		return nil, err
	}
	return scanTransactionRows(rows)
}

// FindByCustomerID busca as linhas achatadas das transações de um cliente,
// da mais recente para a mais antiga
func (r *PostgresTransactionRepository) FindByCustomerID(ctx context.Context, customerID string) ([]TransactionRow, error) {
	rows, err := r.db.Query(ctx, transactionRowsQuery+`
		WHERE t.customer_id = $1
		ORDER BY t.transaction_date DESC, t.id, ti.id
	`, customerID)
	if err != nil {
		return nil, err
	}
	return scanTransactionRows(rows)
}

// GetAll busca as linhas achatadas de todas as transações, da mais recente
// para a mais antiga
func (r *PostgresTransactionRepository) GetAll(ctx context.Context) ([]TransactionRow, error) {
	rows, err := r.db.Query(ctx, transactionRowsQuery+`
		ORDER BY t.transaction_date DESC, t.id, ti.id
	`)
	if err != nil {
		return nil, err
	}
	return scanTransactionRows(rows)
}

func scanTransactionRows(rows pgx.Rows) ([]TransactionRow, error) {
	defer rows.Close()

	result := make([]TransactionRow, 0)
	for rows.Next() {
		var row TransactionRow
		err := rows.Scan(
			&row.ID,
			&row.CustomerID,
			&row.TotalAmount,
			&row.Status,
			&row.TransactionDate,
			&row.ItemID,
			&row.ProductID,
			&row.Quantity,
			&row.PricePerItem,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpdateStatus atualiza o status de uma transação
func (r *PostgresTransactionRepository) UpdateStatus(ctx context.Context, transactionID string, status string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET status = $1
		WHERE id = $2
	`, status, transactionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete remove uma transação
func (r *PostgresTransactionRepository) Delete(ctx context.Context, transactionID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM transactions
		WHERE id = $1
	`, transactionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
