package entities

import "time"

// SearchHit is one result from a market data text search
type SearchHit struct {
	ID              string `json:"id"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Network         string `json:"network"`
	ContractAddress string `json:"contract_address"`
}

// CommunityStats holds community counters reported by the market data source
type CommunityStats struct {
	TwitterFollowers  int64 `json:"twitter_followers"`
	RedditSubscribers int64 `json:"reddit_subscribers"`
	TelegramUsers     int64 `json:"telegram_users"`
}

// MarketData is the market data provider payload
type MarketData struct {
	ID                 string         `json:"id"`
	Symbol             string         `json:"symbol"`
	Name               string         `json:"name"`
	ContractAddress    string         `json:"contract_address"`
	Network            string         `json:"network"`
	CurrentPrice       float64        `json:"current_price"`
	PriceChange24h     float64        `json:"price_change_24h"`
	MarketCap          float64        `json:"market_cap"`
	MarketCapRank      int            `json:"market_cap_rank"`
	MarketCapChange24h float64        `json:"market_cap_change_24h"`
	Volume24h          float64        `json:"volume_24h"`
	Community          CommunityStats `json:"community"`
	TwitterHandle      string         `json:"twitter_handle"`
	RepoURL            string         `json:"repo_url"`
}

// PoolSummary is one entry of a token's DEX pool list
type PoolSummary struct {
	Address    string  `json:"address"`
	Name       string  `json:"name"`
	Network    string  `json:"network"`
	ReserveUSD float64 `json:"reserve_usd"`
}

// PoolDetail holds reserve, volume, and lock data for a single pool
type PoolDetail struct {
	Address            string     `json:"address"`
	Network            string     `json:"network"`
	ReserveUSD         float64    `json:"reserve_usd"`
	Volume24hUSD       float64    `json:"volume_24h_usd"`
	Transactions24h    int        `json:"transactions_24h"`
	CreatedAt          time.Time  `json:"created_at"`
	LiquidityLockedTil *time.Time `json:"liquidity_locked_until"`
}

// HolderBalance is one holder row from the contract explorer.
// Balance is a raw integer amount kept as a string; token supplies
// overflow float64.
type HolderBalance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// ContractInfo is the contract explorer payload
type ContractInfo struct {
	SourceVerified bool            `json:"source_verified"`
	ContractName   string          `json:"contract_name"`
	CreatorAddress string          `json:"creator_address"`
	OwnerAddress   string          `json:"owner_address"`
	TotalSupply    string          `json:"total_supply"`
	Holders        []HolderBalance `json:"holders"`
}

// SecurityReport holds heuristic contract risk flags
type SecurityReport struct {
	IsHoneypot            bool    `json:"is_honeypot"`
	IsMintable            bool    `json:"is_mintable"`
	IsBurnable            bool    `json:"is_burnable"`
	IsFreezable           bool    `json:"is_freezable"`
	IsProxy               bool    `json:"is_proxy"`
	IsMultiSig            bool    `json:"is_multisig"`
	IsOpenSource          bool    `json:"is_open_source"`
	OwnershipRenounced    bool    `json:"ownership_renounced"`
	CanTakeBackOwnership  bool    `json:"can_take_back_ownership"`
	OwnerCanChangeBalance bool    `json:"owner_can_change_balance"`
	HasSelfDestruct       bool    `json:"has_self_destruct"`
	BuyTaxPct             float64 `json:"buy_tax_pct"`
	SellTaxPct            float64 `json:"sell_tax_pct"`
	RiskLevel             string  `json:"risk_level"`
}

// Renounced is the canonical "ownership renounced" definition: the
// analyzer reports a zero/burn owner and no take-back capability.
func (s *SecurityReport) Renounced() bool {
	return s.OwnershipRenounced && !s.CanTakeBackOwnership
}

// TVLData is the TVL aggregator payload
type TVLData struct {
	Protocol     string   `json:"protocol"`
	TVL          float64  `json:"tvl"`
	TVLChange24h float64  `json:"tvl_change_24h"`
	TVLChange7d  float64  `json:"tvl_change_7d"`
	Chains       []string `json:"chains"`
}

// SocialProfile is the social profile payload
type SocialProfile struct {
	Handle          string    `json:"handle"`
	Followers       int64     `json:"followers"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
	Tweets          int64     `json:"tweets"`
	FollowerGrowth  float64   `json:"follower_growth"`
}

// AccountAgeDays returns the profile age in whole days at the given instant
func (s *SocialProfile) AccountAgeDays(now time.Time) int {
	if s.CreatedAt.IsZero() || s.CreatedAt.After(now) {
		return 0
	}
	return int(now.Sub(s.CreatedAt).Hours() / 24)
}

// CodeActivity is the code activity payload
type CodeActivity struct {
	Repo         string    `json:"repo"`
	Commits      int       `json:"commits"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	Contributors int       `json:"contributors"`
	IsOpenSource bool      `json:"is_open_source"`
	LastCommitAt time.Time `json:"last_commit_at"`
}

// IsActive reports whether the repo saw a commit in the last 90 days
func (c *CodeActivity) IsActive(now time.Time) bool {
	if c.LastCommitAt.IsZero() {
		return false
	}
	return now.Sub(c.LastCommitAt) <= 90*24*time.Hour
}
