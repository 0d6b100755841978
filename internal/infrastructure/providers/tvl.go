package providers

import (
	"context"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure TVLClient implements TVLSource
var _ sources.TVLSource = (*TVLClient)(nil)

// TVLClient wraps the protocol TVL aggregator API (DefiLlama-style)
type TVLClient struct {
	http *httpClient
}

// NewTVLClient creates a new TVL aggregator client
func NewTVLClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *TVLClient {
	return &TVLClient{http: newHTTPClient("tvl", cfg, retryDelay, backoff, logger)}
}

type tvlPoint struct {
	Date             int64   `json:"date"`
	TotalLiquidityUSD float64 `json:"totalLiquidityUSD"`
}

type protocolResponse struct {
	Name            string             `json:"name"`
	CurrentChainTVL map[string]float64 `json:"currentChainTvls"`
	TVL             []tvlPoint         `json:"tvl"`
}

// ProtocolTVL retrieves protocol TVL, 24h/7d change, and chain spread
func (c *TVLClient) ProtocolTVL(ctx context.Context, slug string) (*entities.TVLData, error) {
	var resp protocolResponse
	if err := c.http.getJSON(ctx, "/protocol/"+url.PathEscape(slug), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.TVL) == 0 {
		return nil, &Error{Provider: "tvl", Kind: KindLogical, Message: "no tvl series for protocol"}
	}

	sort.Slice(resp.TVL, func(i, j int) bool { return resp.TVL[i].Date < resp.TVL[j].Date })

	data := &entities.TVLData{
		Protocol: resp.Name,
		TVL:      resp.TVL[len(resp.TVL)-1].TotalLiquidityUSD,
	}
	data.TVLChange24h = seriesChange(resp.TVL, 24*time.Hour)
	data.TVLChange7d = seriesChange(resp.TVL, 7*24*time.Hour)

	for chain, tvl := range resp.CurrentChainTVL {
		if tvl > 0 {
			data.Chains = append(data.Chains, chain)
		}
	}
	sort.Strings(data.Chains)
	return data, nil
}

// seriesChange computes the percent change of the latest point against
// the newest point at least `window` older.
func seriesChange(series []tvlPoint, window time.Duration) float64 {
	latest := series[len(series)-1]
	cutoff := latest.Date - int64(window.Seconds())

	var base *tvlPoint
	for i := len(series) - 2; i >= 0; i-- {
		if series[i].Date <= cutoff {
			base = &series[i]
			break
		}
	}
	if base == nil || base.TotalLiquidityUSD == 0 {
		return 0
	}
	return (latest.TotalLiquidityUSD - base.TotalLiquidityUSD) / base.TotalLiquidityUSD * 100
}
