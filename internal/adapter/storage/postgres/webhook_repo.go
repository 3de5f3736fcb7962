package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, provider, event, url, status, attempts, payload,
	last_http_status, last_error, last_attempt_at, created_at, updated_at`

func (r *WebhookRepo) Create(ctx context.Context, d *domain.WebhookDelivery) error {
	query := `INSERT INTO webhooks (` + webhookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.Provider, d.Event, d.URL, d.Status, d.Attempts, d.Payload,
		d.LastHTTPStatus, d.LastError, d.LastAttemptAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

// Update persists the mutable delivery fields.
func (r *WebhookRepo) Update(ctx context.Context, d *domain.WebhookDelivery) error {
	query := `UPDATE webhooks SET status = $1, attempts = $2, last_http_status = $3,
		last_error = $4, last_attempt_at = $5, updated_at = $6 WHERE id = $7`

	tag, err := r.pool.Exec(ctx, query,
		d.Status, d.Attempts, d.LastHTTPStatus, d.LastError, d.LastAttemptAt, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook delivery not found: %s", d.ID)
	}
	return nil
}

func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1`

	d, err := scanWebhook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook: %w", err)
	}
	return d, nil
}

// List fetches deliveries newest first.
func (r *WebhookRepo) List(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.Provider != "" {
		conditions = append(conditions, fmt.Sprintf("provider = $%d", argIdx))
		args = append(args, filter.Provider)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	query := `SELECT ` + webhookColumns + ` FROM webhooks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var out []domain.WebhookDelivery
	for rows.Next() {
		d, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhooks: %w", err)
	}
	return out, nil
}

func (r *WebhookRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM webhooks`); err != nil {
		return fmt.Errorf("delete webhooks: %w", err)
	}
	return nil
}

func scanWebhook(row pgx.Row) (*domain.WebhookDelivery, error) {
	var d domain.WebhookDelivery
	err := row.Scan(
		&d.ID, &d.Provider, &d.Event, &d.URL, &d.Status, &d.Attempts, &d.Payload,
		&d.LastHTTPStatus, &d.LastError, &d.LastAttemptAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
