package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/repositories"
)

// ErrNothingComputable is the only fatal scan error: resolution yielded
// nothing, no cache entry exists, and the market data call failed.
var ErrNothingComputable = errors.New("token could not be resolved and no data source responded")

var scansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scans_total",
		Help: "Total number of token scans by outcome",
	},
	[]string{"outcome"},
)

// HealthService runs the full scan pipeline: cache short-circuit,
// resolve, aggregate, score, assemble, persist.
type HealthService struct {
	resolver   *ResolverService
	aggregator *AggregatorService
	cache      MetricsCache
	history    repositories.HistoryRepository
	logger     *zap.Logger

	// flight collapses concurrent scans of the same key into one
	// computation shared by all callers
	flight singleflight.Group

	now func() time.Time
}

// NewHealthService creates a new health service
func NewHealthService(
	resolver *ResolverService,
	aggregator *AggregatorService,
	cache MetricsCache,
	history repositories.HistoryRepository,
	logger *zap.Logger,
) *HealthService {
	return &HealthService{
		resolver:   resolver,
		aggregator: aggregator,
		cache:      cache,
		history:    history,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Scan produces a health metrics record for a query. userID may be
// empty; when present the result is appended to the scan history.
func (s *HealthService) Scan(ctx context.Context, query entities.TokenQuery, userID string) (*entities.HealthMetrics, error) {
	resolved := s.resolver.Resolve(ctx, query)
	key := cacheKey(resolved, query.Raw)

	if s.cache != nil && !query.ForceRefresh {
		if cached, err := s.cache.GetMetrics(ctx, key); err == nil {
			s.logger.Debug("Metrics cache hit", zap.String("key", key))
			scansTotal.WithLabelValues("cache_hit").Inc()
			s.recordHistory(ctx, userID, cached)
			return cached, nil
		}
	}

	result, err, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.compute(ctx, resolved, query)
	})
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if shared {
		s.logger.Debug("Scan shared with in-flight computation", zap.String("key", key))
	}

	metrics := result.(*entities.HealthMetrics)
	scansTotal.WithLabelValues("computed").Inc()
	s.recordHistory(ctx, userID, metrics)
	return metrics, nil
}

func (s *HealthService) compute(ctx context.Context, resolved *entities.ResolvedToken, query entities.TokenQuery) (*entities.HealthMetrics, error) {
	agg := s.aggregator.Fetch(ctx, resolved, query)

	// Nothing at all is computable: the identity is a bare guess and
	// the market data call for that guess failed too
	if resolved.Guessed && !resolved.HasAddress() && agg.Market == nil {
		return nil, ErrNothingComputable
	}

	metrics := s.assemble(resolved, agg)

	if s.cache != nil {
		if err := s.cache.PutMetrics(ctx, cacheKey(resolved, query.Raw), metrics); err != nil {
			s.logger.Warn("Failed to cache metrics", zap.Error(err))
		}
	}

	return metrics, nil
}

// cacheKey prefers the resolved canonical identifier so equivalent
// phrasings of the same token share one metrics entry.
func cacheKey(resolved *entities.ResolvedToken, raw string) string {
	if resolved.ID != "" {
		return resolved.ID
	}
	if resolved.ContractAddress != "" {
		return resolved.Network + ":" + resolved.ContractAddress
	}
	return NormalizeQuery(raw)
}

// recordHistory appends a scan record for authenticated callers.
// Best effort: a sink failure never fails the request.
func (s *HealthService) recordHistory(ctx context.Context, userID string, metrics *entities.HealthMetrics) {
	if userID == "" || s.history == nil {
		return
	}

	record := &entities.ScanRecord{
		UserID:          userID,
		TokenID:         metrics.ID,
		Symbol:          metrics.Symbol,
		Name:            metrics.Name,
		ContractAddress: metrics.ContractAddress,
		HealthScore:     metrics.HealthScore,
		SecurityScore:   metrics.Score(entities.CategorySecurity),
		LiquidityScore:  metrics.Score(entities.CategoryLiquidity),
		TokenomicsScore: metrics.Score(entities.CategoryTokenomics),
		CommunityScore:  metrics.Score(entities.CategoryCommunity),
		DevScore:        metrics.Score(entities.CategoryDevelopment),
		CreatedAt:       s.now(),
	}

	if err := s.history.Append(ctx, record); err != nil {
		s.logger.Warn("Failed to append scan history",
			zap.String("user_id", userID),
			zap.String("token_id", metrics.ID),
			zap.Error(err),
		)
	}
}
