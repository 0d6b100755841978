package repositories

import (
	"context"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// HistoryRepository defines the interface for the append-only scan history sink
type HistoryRepository interface {
	// Append stores one scan record
	Append(ctx context.Context, record *entities.ScanRecord) error

	// GetByUser retrieves a user's scan history, newest first
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]entities.ScanRecord, error)

	// CountByUser returns the number of scans recorded for a user
	CountByUser(ctx context.Context, userID string) (int64, error)
}
