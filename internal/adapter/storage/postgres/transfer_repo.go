package postgres

import (
	"context"
	"errors"
	"fmt"

	"mockpay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransferRepo implements ports.TransferRepository.
type TransferRepo struct {
	pool Pool
}

// NewTransferRepo creates a new TransferRepo.
func NewTransferRepo(pool Pool) *TransferRepo {
	return &TransferRepo{pool: pool}
}

const transferColumns = `id, provider, reference, transfer_code, status, amount, currency,
	bank_code, account_number, narration, metadata, created_at, updated_at`

func (r *TransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Provider, t.Reference, t.TransferCode, t.Status, t.Amount, t.Currency,
		t.BankCode, t.AccountNumber, t.Narration, t.Metadata, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE provider = $1 AND reference = $2`

	var t domain.Transfer
	err := r.pool.QueryRow(ctx, query, provider, reference).Scan(
		&t.ID, &t.Provider, &t.Reference, &t.TransferCode, &t.Status, &t.Amount, &t.Currency,
		&t.BankCode, &t.AccountNumber, &t.Narration, &t.Metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

func (r *TransferRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM transfers`); err != nil {
		return fmt.Errorf("delete transfers: %w", err)
	}
	return nil
}
