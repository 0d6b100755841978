package sources

import (
	"context"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// MarketDataSource exposes price, market cap, community and developer
// stats, and free-text token search.
type MarketDataSource interface {
	// Search performs a free-text token search
	Search(ctx context.Context, query string) ([]entities.SearchHit, error)

	// TokenDetail retrieves the full market payload for a token id
	TokenDetail(ctx context.Context, id string) (*entities.MarketData, error)

	// SimplePrice retrieves a reduced price-only payload for a token id.
	// Used as the fallback path when the detail endpoint is unreachable.
	SimplePrice(ctx context.Context, id string) (*entities.MarketData, error)
}

// PoolSource exposes per-network DEX pool lists and pool detail
type PoolSource interface {
	// TokenPools lists a token's pools on one network, highest liquidity first
	TokenPools(ctx context.Context, network, tokenAddress string) ([]entities.PoolSummary, error)

	// PoolDetail retrieves reserves, volume, and lock data for one pool
	PoolDetail(ctx context.Context, network, poolAddress string) (*entities.PoolDetail, error)
}

// ExplorerSource exposes verified-source status, holders, and creator data
type ExplorerSource interface {
	ContractInfo(ctx context.Context, address string) (*entities.ContractInfo, error)
}

// SecuritySource exposes heuristic contract risk analysis
type SecuritySource interface {
	Analyze(ctx context.Context, network, address string) (*entities.SecurityReport, error)
}

// TVLSource exposes protocol TVL, TVL history, and chain distribution
type TVLSource interface {
	ProtocolTVL(ctx context.Context, slug string) (*entities.TVLData, error)
}

// SocialSource exposes social account profiles
type SocialSource interface {
	Profile(ctx context.Context, handle string) (*entities.SocialProfile, error)
}

// CodeSource exposes repository activity stats
type CodeSource interface {
	RepoActivity(ctx context.Context, repo string) (*entities.CodeActivity, error)
}
