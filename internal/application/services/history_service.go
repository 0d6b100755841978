package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/repositories"
)

// HistoryService provides read access to a user's scan history
type HistoryService struct {
	historyRepo repositories.HistoryRepository
	logger      *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo repositories.HistoryRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// ScanRecordDTO is the API representation of a scan record
type ScanRecordDTO struct {
	ID              string         `json:"id"`
	TokenID         string         `json:"token_id"`
	Symbol          string         `json:"symbol"`
	Name            string         `json:"name"`
	ContractAddress string         `json:"contract_address"`
	HealthScore     int            `json:"health_score"`
	CategoryScores  map[string]int `json:"category_scores"`
	CreatedAt       string         `json:"created_at"`
}

// HistoryResponse is the API response for scan history queries
type HistoryResponse struct {
	Data       []ScanRecordDTO    `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata
type PaginationResponse struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// GetUserHistory retrieves a user's scan history, newest first
func (s *HistoryService) GetUserHistory(ctx context.Context, userID string, limit, offset int) (*HistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.historyRepo.GetByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}

	total, err := s.historyRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count scan history: %w", err)
	}

	dtos := make([]ScanRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = recordToDTO(r)
	}

	return &HistoryResponse{
		Data: dtos,
		Pagination: PaginationResponse{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	}, nil
}

func recordToDTO(r entities.ScanRecord) ScanRecordDTO {
	return ScanRecordDTO{
		ID:              r.ID,
		TokenID:         r.TokenID,
		Symbol:          r.Symbol,
		Name:            r.Name,
		ContractAddress: r.ContractAddress,
		HealthScore:     r.HealthScore,
		CategoryScores: map[string]int{
			string(entities.CategorySecurity):    r.SecurityScore,
			string(entities.CategoryLiquidity):   r.LiquidityScore,
			string(entities.CategoryTokenomics):  r.TokenomicsScore,
			string(entities.CategoryCommunity):   r.CommunityScore,
			string(entities.CategoryDevelopment): r.DevScore,
		},
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
