package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/testutil"
)

func setupHealthServiceTest() (*HealthService, *aggregatorMocks, *testutil.MockCache, *testutil.MockHistoryRepository) {
	mocks := &aggregatorMocks{
		market:   &testutil.MockMarketDataSource{},
		pools:    &testutil.MockPoolSource{},
		explorer: &testutil.MockExplorerSource{},
		security: &testutil.MockSecuritySource{},
		tvl:      &testutil.MockTVLSource{},
		social:   &testutil.MockSocialSource{},
		code:     &testutil.MockCodeSource{},
	}
	mocks.market.SearchFunc = func(ctx context.Context, query string) ([]entities.SearchHit, error) {
		return []entities.SearchHit{{
			ID:              "pendle",
			Symbol:          "PENDLE",
			Name:            "Pendle",
			Network:         "ethereum",
			ContractAddress: testutil.TestTokenAddress,
		}}, nil
	}

	logger := zap.NewNop()
	cache := testutil.NewMockCache(5*time.Minute, 24*time.Hour)
	history := testutil.NewMockHistoryRepository()

	resolver := NewResolverService(mocks.market, nil, logger)
	aggregator := NewAggregatorService(
		mocks.market, mocks.pools, mocks.explorer, mocks.security,
		mocks.tvl, mocks.social, mocks.code,
		5*time.Second, logger,
	)
	service := NewHealthService(resolver, aggregator, cache, history, logger)
	return service, mocks, cache, history
}

func TestHealthService_Scan_FullPipeline(t *testing.T) {
	service, _, _, _ := setupHealthServiceTest()

	metrics, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.ID != "pendle" {
		t.Errorf("expected id pendle, got %q", metrics.ID)
	}
	if metrics.HealthScore < 0 || metrics.HealthScore > 100 {
		t.Errorf("health score %d out of bounds", metrics.HealthScore)
	}
	if len(metrics.Categories) != 5 {
		t.Errorf("expected 5 category scores, got %d", len(metrics.Categories))
	}
	if metrics.MarketCap == entities.ValueUnavailable {
		t.Error("expected market cap filled from market data")
	}
	if metrics.DataQuality != entities.DataQualityComplete {
		t.Errorf("expected complete quality, got %s", metrics.DataQuality)
	}
	if metrics.LastUpdated == 0 {
		t.Error("expected last updated set")
	}
}

func TestHealthService_Scan_CacheHit(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()

	first, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "$pendle"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mocks.market.CallCount("TokenDetail"); got != 1 {
		t.Errorf("expected second scan served from cache, got %d detail calls", got)
	}
	if first.LastUpdated != second.LastUpdated {
		t.Error("expected identical cached record")
	}
}

func TestHealthService_Scan_ForceRefreshBypassesCache(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()

	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE", ForceRefresh: true}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mocks.market.CallCount("TokenDetail"); got != 2 {
		t.Errorf("expected refresh to recompute, got %d detail calls", got)
	}
}

func TestHealthService_Scan_CacheExpiry(t *testing.T) {
	service, mocks, cache, _ := setupHealthServiceTest()
	now := time.Now()
	cache.Now = func() time.Time { return now }

	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(6 * time.Minute)
	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mocks.market.CallCount("TokenDetail"); got != 2 {
		t.Errorf("expected expired entry to recompute, got %d detail calls", got)
	}
}

func TestHealthService_Scan_NothingComputable(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()
	mocks.market.SearchFunc = func(ctx context.Context, query string) ([]entities.SearchHit, error) {
		return nil, nil
	}
	mocks.market.TokenDetailFunc = func(ctx context.Context, id string) (*entities.MarketData, error) {
		return nil, errors.New("no such token")
	}

	_, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "nosuchtoken"}, "")
	if !errors.Is(err, ErrNothingComputable) {
		t.Errorf("expected ErrNothingComputable, got %v", err)
	}
}

func TestHealthService_Scan_DegradedIdentityStillScans(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()
	mocks.market.SearchFunc = func(ctx context.Context, query string) ([]entities.SearchHit, error) {
		return nil, errors.New("search down")
	}

	metrics, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "obscure"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.ID != "obscure" {
		t.Errorf("expected id from query, got %q", metrics.ID)
	}
}

func TestHealthService_Scan_RecordsHistory(t *testing.T) {
	service, _, _, history := setupHealthServiceTest()

	metrics, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, testutil.TestUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := history.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	record := records[0]
	if record.UserID != testutil.TestUserID {
		t.Errorf("expected user id %q, got %q", testutil.TestUserID, record.UserID)
	}
	if record.TokenID != "pendle" {
		t.Errorf("expected token id pendle, got %q", record.TokenID)
	}
	if record.HealthScore != metrics.HealthScore {
		t.Errorf("expected health score %d, got %d", metrics.HealthScore, record.HealthScore)
	}
	if record.SecurityScore != metrics.Score(entities.CategorySecurity) {
		t.Error("expected category scores carried into the record")
	}
}

func TestHealthService_Scan_AnonymousNotRecorded(t *testing.T) {
	service, _, _, history := setupHealthServiceTest()

	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(history.Records()); got != 0 {
		t.Errorf("expected no history for anonymous scans, got %d records", got)
	}
}

func TestHealthService_Scan_HistoryFailureSwallowed(t *testing.T) {
	service, _, _, history := setupHealthServiceTest()
	history.AppendFunc = func(ctx context.Context, record *entities.ScanRecord) error {
		return errors.New("database down")
	}

	if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, testutil.TestUserID); err != nil {
		t.Errorf("expected history failure swallowed, got %v", err)
	}
}

func TestHealthService_Scan_CollapsesConcurrentScans(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()
	mocks.market.TokenDetailFunc = func(ctx context.Context, id string) (*entities.MarketData, error) {
		time.Sleep(50 * time.Millisecond)
		return testutil.CreateTestMarketData(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, ""); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := mocks.market.CallCount("TokenDetail"); got != 1 {
		t.Errorf("expected concurrent scans to share one computation, got %d detail calls", got)
	}
}

func TestHealthService_Scan_PartialProviders(t *testing.T) {
	service, mocks, _, _ := setupHealthServiceTest()
	mocks.security.AnalyzeFunc = func(ctx context.Context, network, address string) (*entities.SecurityReport, error) {
		return nil, errors.New("analyzer down")
	}
	mocks.explorer.ContractInfoFunc = func(ctx context.Context, address string) (*entities.ContractInfo, error) {
		return nil, errors.New("explorer down")
	}
	mocks.social.ProfileFunc = func(ctx context.Context, handle string) (*entities.SocialProfile, error) {
		return nil, errors.New("social down")
	}

	metrics, err := service.Scan(context.Background(), entities.TokenQuery{Raw: "PENDLE"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.AuditStatus != entities.StatusUnknown {
		t.Errorf("expected audit status Unknown, got %q", metrics.AuditStatus)
	}
	if metrics.TopHoldersPercentage != entities.ValueUnavailable {
		t.Errorf("expected holder concentration N/A, got %q", metrics.TopHoldersPercentage)
	}
	if metrics.SocialFollowers != entities.ValueUnavailable {
		t.Errorf("expected social followers N/A, got %q", metrics.SocialFollowers)
	}
	if metrics.HealthScore < 0 || metrics.HealthScore > 100 {
		t.Errorf("health score %d out of bounds", metrics.HealthScore)
	}
	if len(metrics.Categories) != 5 {
		t.Errorf("expected all categories scored, got %d", len(metrics.Categories))
	}
}
