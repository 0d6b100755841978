package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/repositories"
)

// Ensure HistoryRepo implements HistoryRepository
var _ repositories.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implements HistoryRepository using PostgreSQL
type HistoryRepo struct {
	db *sqlx.DB
}

// NewHistoryRepo creates a new scan history repository
func NewHistoryRepo(db *sqlx.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append stores one scan record
func (r *HistoryRepo) Append(ctx context.Context, record *entities.ScanRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO scan_history (
			id, user_id, token_id, symbol, name, contract_address,
			health_score, security_score, liquidity_score,
			tokenomics_score, community_score, dev_score, created_at
		) VALUES (
			:id, :user_id, :token_id, :symbol, :name, :contract_address,
			:health_score, :security_score, :liquidity_score,
			:tokenomics_score, :community_score, :dev_score, :created_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to append scan record: %w", err)
	}
	return nil
}

// GetByUser retrieves a user's scan history, newest first
func (r *HistoryRepo) GetByUser(ctx context.Context, userID string, limit, offset int) ([]entities.ScanRecord, error) {
	var records []entities.ScanRecord
	query := `
		SELECT * FROM scan_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := r.db.SelectContext(ctx, &records, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	return records, nil
}

// CountByUser returns the number of scans recorded for a user
func (r *HistoryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM scan_history WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count scan history: %w", err)
	}
	return count, nil
}
