package providers

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure PoolsClient implements PoolSource
var _ sources.PoolSource = (*PoolsClient)(nil)

// PoolsClient wraps the on-chain DEX pools API (GeckoTerminal-style)
type PoolsClient struct {
	http *httpClient
}

// NewPoolsClient creates a new pools client
func NewPoolsClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *PoolsClient {
	return &PoolsClient{http: newHTTPClient("pools", cfg, retryDelay, backoff, logger)}
}

// poolsNetworks maps network short codes to the pool API's identifiers
var poolsNetworks = map[string]string{
	"eth":       "eth",
	"bsc":       "bsc",
	"polygon":   "polygon_pos",
	"arbitrum":  "arbitrum",
	"optimism":  "optimism",
	"base":      "base",
	"avalanche": "avax",
	"fantom":    "ftm",
}

type poolListResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Address    string `json:"address"`
			Name       string `json:"name"`
			ReserveUSD string `json:"reserve_in_usd"`
		} `json:"attributes"`
	} `json:"data"`
}

type poolDetailResponse struct {
	Data struct {
		Attributes struct {
			Address       string `json:"address"`
			ReserveUSD    string `json:"reserve_in_usd"`
			PoolCreatedAt string `json:"pool_created_at"`
			VolumeUSD     struct {
				H24 string `json:"h24"`
			} `json:"volume_usd"`
			Transactions struct {
				H24 struct {
					Buys  int `json:"buys"`
					Sells int `json:"sells"`
				} `json:"h24"`
			} `json:"transactions"`
			LockedLiquidityUntil string `json:"locked_liquidity_until"`
		} `json:"attributes"`
	} `json:"data"`
}

// TokenPools lists a token's pools on one network, highest liquidity first
func (c *PoolsClient) TokenPools(ctx context.Context, network, tokenAddress string) ([]entities.PoolSummary, error) {
	netID, ok := poolsNetworks[network]
	if !ok {
		netID = "eth"
	}

	q := url.Values{}
	q.Set("sort", "h24_volume_usd_liquidity_desc")

	path := "/networks/" + netID + "/tokens/" + url.PathEscape(tokenAddress) + "/pools"
	var resp poolListResponse
	if err := c.http.getJSON(ctx, path, q, &resp); err != nil {
		return nil, err
	}

	pools := make([]entities.PoolSummary, 0, len(resp.Data))
	for _, p := range resp.Data {
		pools = append(pools, entities.PoolSummary{
			Address:    p.Attributes.Address,
			Name:       p.Attributes.Name,
			Network:    network,
			ReserveUSD: parseFloat(p.Attributes.ReserveUSD),
		})
	}
	return pools, nil
}

// PoolDetail retrieves reserves, volume, and lock data for one pool
func (c *PoolsClient) PoolDetail(ctx context.Context, network, poolAddress string) (*entities.PoolDetail, error) {
	netID, ok := poolsNetworks[network]
	if !ok {
		netID = "eth"
	}

	path := "/networks/" + netID + "/pools/" + url.PathEscape(poolAddress)
	var resp poolDetailResponse
	if err := c.http.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	attrs := resp.Data.Attributes
	detail := &entities.PoolDetail{
		Address:         attrs.Address,
		Network:         network,
		ReserveUSD:      parseFloat(attrs.ReserveUSD),
		Volume24hUSD:    parseFloat(attrs.VolumeUSD.H24),
		Transactions24h: attrs.Transactions.H24.Buys + attrs.Transactions.H24.Sells,
		CreatedAt:       parseUnixOrRFC3339(attrs.PoolCreatedAt),
	}
	if lockedUntil := parseUnixOrRFC3339(attrs.LockedLiquidityUntil); !lockedUntil.IsZero() {
		detail.LiquidityLockedTil = &lockedUntil
	}
	return detail, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
