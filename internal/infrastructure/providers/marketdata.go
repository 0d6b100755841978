package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure MarketDataClient implements MarketDataSource
var _ sources.MarketDataSource = (*MarketDataClient)(nil)

// MarketDataClient wraps the market data aggregation API (CoinGecko-style)
type MarketDataClient struct {
	http *httpClient
}

// NewMarketDataClient creates a new market data client
func NewMarketDataClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *MarketDataClient {
	c := newHTTPClient("market_data", cfg, retryDelay, backoff, logger)
	c.keyHeader = "x-cg-demo-api-key"
	return &MarketDataClient{http: c}
}

type searchResponse struct {
	Coins []struct {
		ID        string `json:"id"`
		Symbol    string `json:"symbol"`
		Name      string `json:"name"`
		Platforms map[string]string `json:"platforms"`
	} `json:"coins"`
}

type coinDetailResponse struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Platforms map[string]string `json:"platforms"`
	Links     struct {
		TwitterScreenName string   `json:"twitter_screen_name"`
		ReposURL          struct {
			Github []string `json:"github"`
		} `json:"repos_url"`
	} `json:"links"`
	MarketCapRank int `json:"market_cap_rank"`
	MarketData    struct {
		CurrentPrice       map[string]float64 `json:"current_price"`
		MarketCap          map[string]float64 `json:"market_cap"`
		TotalVolume        map[string]float64 `json:"total_volume"`
		PriceChange24h     float64            `json:"price_change_percentage_24h"`
		MarketCapChange24h float64            `json:"market_cap_change_percentage_24h"`
	} `json:"market_data"`
	CommunityData struct {
		TwitterFollowers  int64 `json:"twitter_followers"`
		RedditSubscribers int64 `json:"reddit_subscribers"`
		TelegramUsers     int64 `json:"telegram_channel_user_count"`
	} `json:"community_data"`
}

type simplePriceEntry struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// Search performs a free-text token search
func (c *MarketDataClient) Search(ctx context.Context, query string) ([]entities.SearchHit, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp searchResponse
	if err := c.http.getJSON(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}

	hits := make([]entities.SearchHit, 0, len(resp.Coins))
	for _, coin := range resp.Coins {
		hit := entities.SearchHit{
			ID:     coin.ID,
			Symbol: coin.Symbol,
			Name:   coin.Name,
		}
		hit.Network, hit.ContractAddress = primaryPlatform(coin.Platforms)
		hits = append(hits, hit)
	}
	return hits, nil
}

// TokenDetail retrieves the full market payload for a token id
func (c *MarketDataClient) TokenDetail(ctx context.Context, id string) (*entities.MarketData, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("community_data", "true")
	q.Set("developer_data", "false")

	var resp coinDetailResponse
	if err := c.http.getJSON(ctx, "/coins/"+url.PathEscape(id), q, &resp); err != nil {
		return nil, err
	}

	md := &entities.MarketData{
		ID:                 resp.ID,
		Symbol:             strings.ToUpper(resp.Symbol),
		Name:               resp.Name,
		CurrentPrice:       resp.MarketData.CurrentPrice["usd"],
		PriceChange24h:     resp.MarketData.PriceChange24h,
		MarketCap:          resp.MarketData.MarketCap["usd"],
		MarketCapRank:      resp.MarketCapRank,
		MarketCapChange24h: resp.MarketData.MarketCapChange24h,
		Volume24h:          resp.MarketData.TotalVolume["usd"],
		TwitterHandle:      resp.Links.TwitterScreenName,
		Community: entities.CommunityStats{
			TwitterFollowers:  resp.CommunityData.TwitterFollowers,
			RedditSubscribers: resp.CommunityData.RedditSubscribers,
			TelegramUsers:     resp.CommunityData.TelegramUsers,
		},
	}
	md.Network, md.ContractAddress = primaryPlatform(resp.Platforms)
	if len(resp.Links.ReposURL.Github) > 0 {
		md.RepoURL = resp.Links.ReposURL.Github[0]
	}
	return md, nil
}

// SimplePrice retrieves a reduced price-only payload for a token id.
// Used as the fallback path when the detail endpoint is unreachable.
func (c *MarketDataClient) SimplePrice(ctx context.Context, id string) (*entities.MarketData, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", "usd")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")

	var resp map[string]simplePriceEntry
	if err := c.http.getJSON(ctx, "/simple/price", q, &resp); err != nil {
		return nil, err
	}

	entry, ok := resp[id]
	if !ok {
		return nil, &Error{Provider: "market_data", Kind: KindLogical, Message: "token not in simple price response"}
	}

	return &entities.MarketData{
		ID:             id,
		CurrentPrice:   entry.USD,
		MarketCap:      entry.USDMarketCap,
		Volume24h:      entry.USD24hVol,
		PriceChange24h: entry.USD24hChange,
	}, nil
}

// platformNetworks maps market data platform names to network short codes
var platformNetworks = map[string]string{
	"ethereum":            "eth",
	"binance-smart-chain": "bsc",
	"polygon-pos":         "polygon",
	"arbitrum-one":        "arbitrum",
	"optimistic-ethereum": "optimism",
	"base":                "base",
	"avalanche":           "avalanche",
	"fantom":              "fantom",
}

// primaryPlatform picks a contract address from a platform map,
// preferring ethereum.
func primaryPlatform(platforms map[string]string) (network, address string) {
	if addr, ok := platforms["ethereum"]; ok && addr != "" {
		return "eth", addr
	}
	for platform, addr := range platforms {
		if addr == "" {
			continue
		}
		if short, ok := platformNetworks[platform]; ok {
			return short, addr
		}
	}
	return "", ""
}
