package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/application/services"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/presentation/middleware"
	"github.com/tokenwatch/token-health/internal/testutil"
)

type scanHandlerMocks struct {
	market   *testutil.MockMarketDataSource
	security *testutil.MockSecuritySource
	history  *testutil.MockHistoryRepository
}

func setupScanHandlerTest() (http.Handler, *scanHandlerMocks) {
	logger := zap.NewNop()
	mocks := &scanHandlerMocks{
		market:   &testutil.MockMarketDataSource{},
		security: &testutil.MockSecuritySource{},
		history:  testutil.NewMockHistoryRepository(),
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

	resolver := services.NewResolverService(mocks.market, nil, logger)
	aggregator := services.NewAggregatorService(
		mocks.market, &testutil.MockPoolSource{}, &testutil.MockExplorerSource{},
		mocks.security, &testutil.MockTVLSource{}, &testutil.MockSocialSource{},
		&testutil.MockCodeSource{},
		5*time.Second, logger,
	)
	cache := testutil.NewMockCache(5*time.Minute, 24*time.Hour)
	service := services.NewHealthService(resolver, aggregator, cache, mocks.history, logger)

	handler := NewScanHandler(service, logger)
	r := chi.NewRouter()
	r.Use(middleware.Identity())
	handler.RegisterRoutes(r)
	return r, mocks
}

func TestScanHandler_Get_Success(t *testing.T) {
	router, _ := setupScanHandlerTest()

	req := httptest.NewRequest(http.MethodGet, "/scan?query=PENDLE", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response ScanResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data == nil {
		t.Fatal("expected data")
	}
	if response.Data.ID != "pendle" {
		t.Errorf("expected id pendle, got %q", response.Data.ID)
	}
	if response.Data.HealthScore < 0 || response.Data.HealthScore > 100 {
		t.Errorf("health score %d out of bounds", response.Data.HealthScore)
	}
}

func TestScanHandler_Get_MissingQuery(t *testing.T) {
	router, _ := setupScanHandlerTest()

	req := httptest.NewRequest(http.MethodGet, "/scan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestScanHandler_Get_NotFound(t *testing.T) {
	router, mocks := setupScanHandlerTest()
	mocks.market.SearchFunc = func(ctx context.Context, query string) ([]entities.SearchHit, error) {
		return nil, nil
	}
	mocks.market.TokenDetailFunc = func(ctx context.Context, id string) (*entities.MarketData, error) {
		return nil, errors.New("no such token")
	}

	req := httptest.NewRequest(http.MethodGet, "/scan?query=nosuchtoken", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestScanHandler_Get_RecordsAuthenticatedUser(t *testing.T) {
	router, mocks := setupScanHandlerTest()

	req := httptest.NewRequest(http.MethodGet, "/scan?query=PENDLE", nil)
	req.Header.Set("X-User-ID", testutil.TestUserID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	records := mocks.history.Records()
	if len(records) != 1 || records[0].UserID != testutil.TestUserID {
		t.Errorf("expected one record for %q, got %+v", testutil.TestUserID, records)
	}
}

func TestScanHandler_Get_ProviderFailureStillResponds(t *testing.T) {
	router, mocks := setupScanHandlerTest()
	mocks.security.AnalyzeFunc = func(ctx context.Context, network, address string) (*entities.SecurityReport, error) {
		return nil, errors.New("analyzer down")
	}

	req := httptest.NewRequest(http.MethodGet, "/scan?query=PENDLE", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected degraded scan to still return 200, got %d", rec.Code)
	}
}

func TestScanHandler_Post_Success(t *testing.T) {
	router, _ := setupScanHandlerTest()

	body := `{"query":"PENDLE","known_handles":{"social":"pendle_fi"}}`
	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response ScanResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data == nil || response.Data.ID != "pendle" {
		t.Errorf("expected resolved data, got %+v", response.Data)
	}
}

func TestScanHandler_Post_InvalidBody(t *testing.T) {
	router, _ := setupScanHandlerTest()

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
