package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"
)

const resultTableDDL = `
	CREATE TABLE IF NOT EXISTS analysis_results (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// SchemaResultStore is a ResultStore whose backing table has to exist before
// the first Save.
type SchemaResultStore interface {
	domain.ResultStore
	EnsureSchema(ctx context.Context) error
}

type resultPostgresRepository struct {
	db *sql.DB
}

func NewResultPostgresRepository(db *sql.DB) SchemaResultStore {
	return &resultPostgresRepository{db: db}
}

func (r *resultPostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, resultTableDDL); err != nil {
		return fmt.Errorf("failed to create analysis_results table: %w", err)
	}
	return nil
}

func (r *resultPostgresRepository) Save(ctx context.Context, key string, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrNoResult
	}

	query := `
		INSERT INTO analysis_results (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, key, []byte(result.Raw()), time.Now())
	return err
}

func (r *resultPostgresRepository) Load(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	query := `
		SELECT payload
		FROM analysis_results
		WHERE key = $1
	`
	var payload []byte
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoResult
		}
		return nil, err
	}
	return domain.NewAnalysisResult(payload)
}
