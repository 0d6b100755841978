package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
	"github.com/tokenwatch/token-health/internal/infrastructure/providers"
)

// ErrProviderAbandoned marks a provider call still outstanding when the
// overall deadline elapsed.
var ErrProviderAbandoned = errors.New("provider call abandoned at overall deadline")

// Aggregate is the settle-all result of one fan-out. Any payload field
// may be nil; Failures records why.
type Aggregate struct {
	Market   *entities.MarketData
	PoolList []entities.PoolSummary
	Pool     *entities.PoolDetail
	Contract *entities.ContractInfo
	Security *entities.SecurityReport
	TVL      *entities.TVLData
	Social   *entities.SocialProfile
	Code     *entities.CodeActivity

	Failures    map[string]error
	DeadlineHit bool
}

// AggregatorService fans out to the providers a request needs, isolates
// per-provider failure, and returns once all issued calls settled or
// the overall deadline elapsed.
type AggregatorService struct {
	market   sources.MarketDataSource
	pools    sources.PoolSource
	explorer sources.ExplorerSource
	security sources.SecuritySource
	tvl      sources.TVLSource
	social   sources.SocialSource
	code     sources.CodeSource

	overallDeadline time.Duration
	logger          *zap.Logger
}

// NewAggregatorService creates a new aggregator service
func NewAggregatorService(
	market sources.MarketDataSource,
	pools sources.PoolSource,
	explorer sources.ExplorerSource,
	security sources.SecuritySource,
	tvl sources.TVLSource,
	social sources.SocialSource,
	code sources.CodeSource,
	overallDeadline time.Duration,
	logger *zap.Logger,
) *AggregatorService {
	return &AggregatorService{
		market:          market,
		pools:           pools,
		explorer:        explorer,
		security:        security,
		tvl:             tvl,
		social:          social,
		code:            code,
		overallDeadline: overallDeadline,
		logger:          logger,
	}
}

// collector gathers goroutine results behind one mutex so a deadline
// snapshot never races with late writers.
type collector struct {
	mu      sync.Mutex
	agg     Aggregate
	pending map[string]bool
}

func newCollector() *collector {
	return &collector{
		agg:     Aggregate{Failures: make(map[string]error)},
		pending: make(map[string]bool),
	}
}

func (c *collector) start(name string) {
	c.mu.Lock()
	c.pending[name] = true
	c.mu.Unlock()
}

func (c *collector) finish(name string, err error, apply func(*Aggregate)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, name)
	if err != nil {
		c.agg.Failures[name] = err
	}
	if apply != nil {
		apply(&c.agg)
	}
}

// snapshot copies the aggregate, marking still-pending calls as
// abandoned. Late writers after the deadline are ignored by the caller.
func (c *collector) snapshot(deadlineHit bool) *Aggregate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.agg
	out.DeadlineHit = deadlineHit
	out.Failures = make(map[string]error, len(c.agg.Failures)+len(c.pending))
	for name, err := range c.agg.Failures {
		out.Failures[name] = err
	}
	for name := range c.pending {
		out.Failures[name] = ErrProviderAbandoned
	}
	return &out
}

// Fetch runs the fan-out for one resolved token. Calls that need a
// contract address are skipped when resolution produced none; that is
// reduced scope, not a failure.
func (s *AggregatorService) Fetch(ctx context.Context, token *entities.ResolvedToken, query entities.TokenQuery) *Aggregate {
	ctx, cancel := context.WithTimeout(ctx, s.overallDeadline)
	defer cancel()

	col := newCollector()
	var wg sync.WaitGroup

	marketReady := make(chan struct{})

	if token.ID != "" {
		col.start("market_data")
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(marketReady)
			md, err := s.fetchMarket(ctx, token.ID)
			col.finish("market_data", err, func(a *Aggregate) { a.Market = md })
		}()

		col.start("tvl")
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.tvl.ProtocolTVL(ctx, token.ID)
			col.finish("tvl", err, func(a *Aggregate) { a.TVL = data })
		}()
	} else {
		close(marketReady)
	}

	col.start("social")
	wg.Add(1)
	go func() {
		defer wg.Done()
		handle := query.SocialHandle
		if handle == "" {
			// Fall back to the handle the market data source knows
			<-marketReady
			if md := col.marketResult(); md != nil {
				handle = md.TwitterHandle
			}
		}
		if handle == "" {
			col.finish("social", nil, nil)
			return
		}
		profile, err := s.social.Profile(ctx, handle)
		col.finish("social", err, func(a *Aggregate) { a.Social = profile })
	}()

	col.start("code_activity")
	wg.Add(1)
	go func() {
		defer wg.Done()
		repo := query.CodeRepo
		if repo == "" {
			<-marketReady
			if md := col.marketResult(); md != nil {
				repo = md.RepoURL
			}
		}
		if repo == "" {
			col.finish("code_activity", nil, nil)
			return
		}
		activity, err := s.code.RepoActivity(ctx, repo)
		col.finish("code_activity", err, func(a *Aggregate) { a.Code = activity })
	}()

	if token.HasAddress() {
		col.start("pools")
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchPools(ctx, col, token)
		}()

		col.start("explorer")
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := s.explorer.ContractInfo(ctx, token.ContractAddress)
			col.finish("explorer", err, func(a *Aggregate) { a.Contract = info })
		}()

		col.start("security")
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := s.security.Analyze(ctx, token.Network, token.ContractAddress)
			col.finish("security", err, func(a *Aggregate) { a.Security = report })
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	deadlineHit := false
	select {
	case <-done:
	case <-ctx.Done():
		deadlineHit = true
		s.logger.Warn("Overall deadline elapsed, returning partial results",
			zap.Duration("deadline", s.overallDeadline),
		)
	}

	agg := col.snapshot(deadlineHit)
	for name, err := range agg.Failures {
		s.logger.Warn("Provider degraded",
			zap.String("provider", name),
			zap.Error(err),
		)
	}
	return agg
}

// fetchMarket tries the full detail endpoint, falling back to the
// reduced simple-price path when the detail endpoint is unreachable.
func (s *AggregatorService) fetchMarket(ctx context.Context, id string) (*entities.MarketData, error) {
	md, err := s.market.TokenDetail(ctx, id)
	if err == nil {
		return md, nil
	}
	if !providers.IsTransport(err) || ctx.Err() != nil {
		return nil, err
	}

	s.logger.Warn("Market detail unreachable, falling back to simple price",
		zap.String("id", id),
		zap.Error(err),
	)
	return s.market.SimplePrice(ctx, id)
}

// fetchPools is two-staged: pool list first, then detail for the
// primary pool. No pools is reduced scope, not a failure.
func (s *AggregatorService) fetchPools(ctx context.Context, col *collector, token *entities.ResolvedToken) {
	list, err := s.pools.TokenPools(ctx, token.Network, token.ContractAddress)
	if err != nil {
		col.finish("pools", err, nil)
		return
	}
	if len(list) == 0 {
		col.finish("pools", nil, func(a *Aggregate) { a.PoolList = list })
		return
	}

	primary := list[0]
	for _, p := range list[1:] {
		if p.ReserveUSD > primary.ReserveUSD {
			primary = p
		}
	}

	// Keep the list even when the detail stage fails
	detail, err := s.pools.PoolDetail(ctx, token.Network, primary.Address)
	col.finish("pools", err, func(a *Aggregate) {
		a.PoolList = list
		a.Pool = detail
	})
}

func (c *collector) marketResult() *entities.MarketData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Market
}
