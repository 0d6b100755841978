package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// MockCall records one mock invocation
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockMarketDataSource is a mock implementation of sources.MarketDataSource
type MockMarketDataSource struct {
	mu sync.Mutex

	SearchFunc      func(ctx context.Context, query string) ([]entities.SearchHit, error)
	TokenDetailFunc func(ctx context.Context, id string) (*entities.MarketData, error)
	SimplePriceFunc func(ctx context.Context, id string) (*entities.MarketData, error)

	Calls []MockCall
}

func (m *MockMarketDataSource) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

// CallCount returns how many times a method was invoked
func (m *MockMarketDataSource) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.Calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

func (m *MockMarketDataSource) Search(ctx context.Context, query string) ([]entities.SearchHit, error) {
	m.record("Search", query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockMarketDataSource) TokenDetail(ctx context.Context, id string) (*entities.MarketData, error) {
	m.record("TokenDetail", id)
	if m.TokenDetailFunc != nil {
		return m.TokenDetailFunc(ctx, id)
	}
	return CreateTestMarketData(), nil
}

func (m *MockMarketDataSource) SimplePrice(ctx context.Context, id string) (*entities.MarketData, error) {
	m.record("SimplePrice", id)
	if m.SimplePriceFunc != nil {
		return m.SimplePriceFunc(ctx, id)
	}
	return &entities.MarketData{ID: id, CurrentPrice: 1}, nil
}

// MockPoolSource is a mock implementation of sources.PoolSource
type MockPoolSource struct {
	mu sync.Mutex

	TokenPoolsFunc func(ctx context.Context, network, tokenAddress string) ([]entities.PoolSummary, error)
	PoolDetailFunc func(ctx context.Context, network, poolAddress string) (*entities.PoolDetail, error)

	Calls []MockCall
}

func (m *MockPoolSource) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockPoolSource) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.Calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

func (m *MockPoolSource) TokenPools(ctx context.Context, network, tokenAddress string) ([]entities.PoolSummary, error) {
	m.record("TokenPools", network, tokenAddress)
	if m.TokenPoolsFunc != nil {
		return m.TokenPoolsFunc(ctx, network, tokenAddress)
	}
	return []entities.PoolSummary{{Address: TestPoolAddress, Network: network, ReserveUSD: 2_000_000}}, nil
}

func (m *MockPoolSource) PoolDetail(ctx context.Context, network, poolAddress string) (*entities.PoolDetail, error) {
	m.record("PoolDetail", network, poolAddress)
	if m.PoolDetailFunc != nil {
		return m.PoolDetailFunc(ctx, network, poolAddress)
	}
	return CreateTestPoolDetail(), nil
}

// MockExplorerSource is a mock implementation of sources.ExplorerSource
type MockExplorerSource struct {
	mu sync.Mutex

	ContractInfoFunc func(ctx context.Context, address string) (*entities.ContractInfo, error)

	Calls []MockCall
}

func (m *MockExplorerSource) ContractInfo(ctx context.Context, address string) (*entities.ContractInfo, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "ContractInfo", Args: []interface{}{address}})
	m.mu.Unlock()

	if m.ContractInfoFunc != nil {
		return m.ContractInfoFunc(ctx, address)
	}
	return CreateTestContractInfo(), nil
}

// MockSecuritySource is a mock implementation of sources.SecuritySource
type MockSecuritySource struct {
	mu sync.Mutex

	AnalyzeFunc func(ctx context.Context, network, address string) (*entities.SecurityReport, error)

	Calls []MockCall
}

func (m *MockSecuritySource) Analyze(ctx context.Context, network, address string) (*entities.SecurityReport, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Analyze", Args: []interface{}{network, address}})
	m.mu.Unlock()

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, network, address)
	}
	return CreateTestSecurityReport(), nil
}

// MockTVLSource is a mock implementation of sources.TVLSource
type MockTVLSource struct {
	mu sync.Mutex

	ProtocolTVLFunc func(ctx context.Context, slug string) (*entities.TVLData, error)

	Calls []MockCall
}

func (m *MockTVLSource) ProtocolTVL(ctx context.Context, slug string) (*entities.TVLData, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "ProtocolTVL", Args: []interface{}{slug}})
	m.mu.Unlock()

	if m.ProtocolTVLFunc != nil {
		return m.ProtocolTVLFunc(ctx, slug)
	}
	return &entities.TVLData{Protocol: "testproto", TVL: 50_000_000, TVLChange7d: 2, Chains: []string{"Ethereum"}}, nil
}

// MockSocialSource is a mock implementation of sources.SocialSource
type MockSocialSource struct {
	mu sync.Mutex

	ProfileFunc func(ctx context.Context, handle string) (*entities.SocialProfile, error)

	Calls []MockCall
}

func (m *MockSocialSource) Profile(ctx context.Context, handle string) (*entities.SocialProfile, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Profile", Args: []interface{}{handle}})
	m.mu.Unlock()

	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, handle)
	}
	return CreateTestSocialProfile(), nil
}

// MockCodeSource is a mock implementation of sources.CodeSource
type MockCodeSource struct {
	mu sync.Mutex

	RepoActivityFunc func(ctx context.Context, repo string) (*entities.CodeActivity, error)

	Calls []MockCall
}

func (m *MockCodeSource) RepoActivity(ctx context.Context, repo string) (*entities.CodeActivity, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "RepoActivity", Args: []interface{}{repo}})
	m.mu.Unlock()

	if m.RepoActivityFunc != nil {
		return m.RepoActivityFunc(ctx, repo)
	}
	return CreateTestCodeActivity(), nil
}

// MockHistoryRepository is an in-memory mock of repositories.HistoryRepository
type MockHistoryRepository struct {
	mu      sync.Mutex
	records []entities.ScanRecord

	AppendFunc    func(ctx context.Context, record *entities.ScanRecord) error
	GetByUserFunc func(ctx context.Context, userID string, limit, offset int) ([]entities.ScanRecord, error)

	Calls []MockCall
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Append(ctx context.Context, record *entities.ScanRecord) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Append", Args: []interface{}{record}})
	m.mu.Unlock()

	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

func (m *MockHistoryRepository) GetByUser(ctx context.Context, userID string, limit, offset int) ([]entities.ScanRecord, error) {
	if m.GetByUserFunc != nil {
		return m.GetByUserFunc(ctx, userID, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []entities.ScanRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			matched = append(matched, m.records[i])
		}
	}

	if offset > len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *MockHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, r := range m.records {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Records returns a copy of the stored records
func (m *MockHistoryRepository) Records() []entities.ScanRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.ScanRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MockHealthChecker is a health check stub
type MockHealthChecker struct {
	healthy bool
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	return &MockHealthChecker{healthy: healthy}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if !m.healthy {
		return errors.New("health check failed")
	}
	return nil
}

// MockCache is an in-memory TTL cache implementing both the metrics
// and identity cache interfaces. Now is injectable so expiry can be
// tested without sleeping.
type MockCache struct {
	mu          sync.Mutex
	metrics     map[string]mockMetricsEntry
	identities  map[string]mockIdentityEntry
	MetricsTTL  time.Duration
	IdentityTTL time.Duration

	GetMetricsErr error
	PutMetricsErr error

	Now func() time.Time
}

type mockMetricsEntry struct {
	payload   entities.HealthMetrics
	expiresAt time.Time
}

type mockIdentityEntry struct {
	payload   entities.ResolvedToken
	expiresAt time.Time
}

// NewMockCache creates an in-memory cache with the given TTLs
func NewMockCache(metricsTTL, identityTTL time.Duration) *MockCache {
	return &MockCache{
		metrics:     make(map[string]mockMetricsEntry),
		identities:  make(map[string]mockIdentityEntry),
		MetricsTTL:  metricsTTL,
		IdentityTTL: identityTTL,
		Now:         time.Now,
	}
}

// ErrCacheMiss mirrors the cache package sentinel without importing it
var ErrCacheMiss = errors.New("cache miss")

func (c *MockCache) GetMetrics(ctx context.Context, key string) (*entities.HealthMetrics, error) {
	if c.GetMetricsErr != nil {
		return nil, c.GetMetricsErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.metrics[key]
	if !ok || c.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	payload := entry.payload
	return &payload, nil
}

func (c *MockCache) PutMetrics(ctx context.Context, key string, metrics *entities.HealthMetrics) error {
	if c.PutMetricsErr != nil {
		return c.PutMetricsErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[key] = mockMetricsEntry{payload: *metrics, expiresAt: c.Now().Add(c.MetricsTTL)}
	return nil
}

func (c *MockCache) GetIdentity(ctx context.Context, key string) (*entities.ResolvedToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.identities[key]
	if !ok || c.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	payload := entry.payload
	return &payload, nil
}

func (c *MockCache) PutIdentity(ctx context.Context, key string, token *entities.ResolvedToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identities[key] = mockIdentityEntry{payload: *token, expiresAt: c.Now().Add(c.IdentityTTL)}
	return nil
}
