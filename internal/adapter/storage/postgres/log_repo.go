package postgres

import (
	"context"
	"fmt"

	"mockpay/internal/core/domain"
)

// LogRepo implements ports.LogRepository.
type LogRepo struct {
	pool Pool
}

// NewLogRepo creates a new LogRepo.
func NewLogRepo(pool Pool) *LogRepo {
	return &LogRepo{pool: pool}
}

func (r *LogRepo) Create(ctx context.Context, e *domain.LogEntry) error {
	query := `INSERT INTO logs (id, level, message, source, timestamp) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, e.ID, e.Level, e.Message, e.Source, e.Timestamp); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List returns the newest limit entries in chronological order.
func (r *LogRepo) List(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := `SELECT id, level, message, source, timestamp FROM (
		SELECT id, level, message, COALESCE(source, '') AS source, timestamp
		FROM logs ORDER BY timestamp DESC LIMIT $1
	) recent ORDER BY timestamp ASC`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var out []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.Source, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return out, nil
}

func (r *LogRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("delete logs: %w", err)
	}
	return nil
}
