package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// ResolverService maps a free-text query to a canonical token identity.
// Resolution never fails: when nothing can be determined it degrades to
// an identity with no contract address on the default network.
type ResolverService struct {
	market sources.MarketDataSource
	cache  IdentityCache
	logger *zap.Logger
}

// NewResolverService creates a new resolver service
func NewResolverService(market sources.MarketDataSource, cache IdentityCache, logger *zap.Logger) *ResolverService {
	return &ResolverService{
		market: market,
		cache:  cache,
		logger: logger,
	}
}

var searchCleaner = regexp.MustCompile(`[^a-z0-9-]`)

// isContractAddress reports whether s is a 0x-prefixed hex address
func isContractAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// networkAliases maps provider long names and aliases to short codes
var networkAliases = map[string]string{
	"eth":                 "eth",
	"ethereum":            "eth",
	"bsc":                 "bsc",
	"binance-smart-chain": "bsc",
	"polygon":             "polygon",
	"polygon-pos":         "polygon",
	"arbitrum":            "arbitrum",
	"arbitrum-one":        "arbitrum",
	"optimism":            "optimism",
	"optimistic-ethereum": "optimism",
	"base":                "base",
	"avalanche":           "avalanche",
	"avax":                "avalanche",
	"fantom":              "fantom",
	"ftm":                 "fantom",
}

// NormalizeQuery trims, strips a leading $, and lowercases a raw query
func NormalizeQuery(raw string) string {
	q := strings.TrimSpace(raw)
	q = strings.TrimPrefix(q, "$")
	return strings.ToLower(q)
}

// NormalizeNetwork maps a network name to a known short code,
// defaulting to eth.
func NormalizeNetwork(name string) string {
	if short, ok := networkAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return short
	}
	return "eth"
}

// Resolve turns a query into a best-effort canonical identity
func (s *ResolverService) Resolve(ctx context.Context, query entities.TokenQuery) *entities.ResolvedToken {
	normalized := NormalizeQuery(query.Raw)

	if s.cache != nil {
		if cached, err := s.cache.GetIdentity(ctx, normalized); err == nil {
			s.logger.Debug("Identity cache hit", zap.String("query", normalized))
			return cached
		}
	}

	resolved := s.resolve(ctx, normalized, query.NetworkHint)

	if s.cache != nil {
		if err := s.cache.PutIdentity(ctx, normalized, resolved); err != nil {
			s.logger.Warn("Failed to cache identity", zap.Error(err))
		}
	}

	return resolved
}

func (s *ResolverService) resolve(ctx context.Context, normalized, networkHint string) *entities.ResolvedToken {
	// Direct contract address
	if isContractAddress(normalized) {
		network := "eth"
		if networkHint != "" {
			network = NormalizeNetwork(networkHint)
		}
		return &entities.ResolvedToken{
			ID:              normalized,
			ContractAddress: common.HexToAddress(normalized).Hex(),
			Network:         network,
		}
	}

	// network:address form
	if before, after, found := strings.Cut(normalized, ":"); found && isContractAddress(after) {
		return &entities.ResolvedToken{
			ID:              after,
			ContractAddress: common.HexToAddress(after).Hex(),
			Network:         NormalizeNetwork(before),
		}
	}

	return s.search(ctx, normalized, networkHint)
}

func (s *ResolverService) search(ctx context.Context, normalized, networkHint string) *entities.ResolvedToken {
	cleaned := searchCleaner.ReplaceAllString(normalized, "")
	if cleaned == "" {
		cleaned = normalized
	}

	fallback := &entities.ResolvedToken{
		ID:      cleaned,
		Symbol:  strings.ToUpper(cleaned),
		Name:    normalized,
		Network: NormalizeNetwork(networkHint),
		Guessed: true,
	}

	hits, err := s.market.Search(ctx, cleaned)
	if err != nil || len(hits) == 0 {
		if err != nil {
			s.logger.Warn("Token search failed, degrading to bare identity",
				zap.String("query", cleaned),
				zap.Error(err),
			)
		}
		return fallback
	}

	hit := pickHit(hits, normalized)

	resolved := &entities.ResolvedToken{
		ID:              hit.ID,
		Symbol:          strings.ToUpper(hit.Symbol),
		Name:            hit.Name,
		ContractAddress: hit.ContractAddress,
		Network:         NormalizeNetwork(hit.Network),
	}
	if resolved.ID == "" {
		resolved.ID = cleaned
	}
	return resolved
}

// pickHit selects a search hit by priority: exact symbol, exact name,
// symbol substring both ways, name substring both ways (longer queries
// only), then the first result.
func pickHit(hits []entities.SearchHit, query string) entities.SearchHit {
	for _, h := range hits {
		if strings.EqualFold(h.Symbol, query) {
			return h
		}
	}
	for _, h := range hits {
		if strings.EqualFold(h.Name, query) {
			return h
		}
	}
	for _, h := range hits {
		sym := strings.ToLower(h.Symbol)
		if sym != "" && (strings.Contains(sym, query) || strings.Contains(query, sym)) {
			return h
		}
	}
	if len(query) > 3 {
		for _, h := range hits {
			name := strings.ToLower(h.Name)
			if name != "" && (strings.Contains(name, query) || strings.Contains(query, name)) {
				return h
			}
		}
	}
	return hits[0]
}
