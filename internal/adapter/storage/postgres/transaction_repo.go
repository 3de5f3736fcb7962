package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, provider, reference, status, amount, currency, customer_email,
	customer_name, callback_url, metadata, created_at, updated_at`

// Create inserts a new transaction.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Provider, t.Reference, t.Status, t.Amount, t.Currency, t.CustomerEmail,
		t.CustomerName, t.CallbackURL, t.Metadata, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a transaction by provider and reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE provider = $1 AND reference = $2`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, provider, reference))
}

// Resolve is a compare-and-set on status: only a pending row is updated.
func (r *TransactionRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (bool, error) {
	query := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id, domain.TransactionStatusPending)
	if err != nil {
		return false, fmt.Errorf("resolve transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TransactionRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID, &t.Provider, &t.Reference, &t.Status, &t.Amount, &t.Currency, &t.CustomerEmail,
		&t.CustomerName, &t.CallbackURL, &t.Metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}
