package entities

// Category identifies one of the five scored dimensions
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryLiquidity   Category = "liquidity"
	CategoryTokenomics  Category = "tokenomics"
	CategoryCommunity   Category = "community"
	CategoryDevelopment Category = "development"
)

// Categories lists every scored dimension in weighting order
var Categories = []Category{
	CategorySecurity,
	CategoryLiquidity,
	CategoryTokenomics,
	CategoryCommunity,
	CategoryDevelopment,
}

// CategoryScore is one bounded dimension score
type CategoryScore struct {
	Category Category `json:"category"`
	Value    int      `json:"value"`
}

// DataQuality flags whether a result was backed by high-signal sources
type DataQuality string

const (
	DataQualityComplete DataQuality = "complete"
	DataQualityPartial  DataQuality = "partial"
)

// Placeholder values for fields no provider could fill
const (
	ValueUnavailable = "N/A"
	StatusUnknown    = "Unknown"
)

// HealthMetrics is the assembled output record for one scan.
// Every field is always present; unavailable values carry an explicit
// placeholder rather than being dropped.
type HealthMetrics struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	ContractAddress string `json:"contract_address"`
	Network         string `json:"network"`

	MarketCap          string  `json:"market_cap"`
	MarketCapValue     float64 `json:"market_cap_value"`
	MarketCapChange24h float64 `json:"market_cap_change_24h"`
	CurrentPrice       float64 `json:"current_price"`
	PriceChange24h     float64 `json:"price_change_24h"`

	TVL          string  `json:"tvl"`
	TVLValue     float64 `json:"tvl_value"`
	TVLChange24h float64 `json:"tvl_change_24h"`

	LiquidityLock     string `json:"liquidity_lock"`
	LiquidityLockDays int    `json:"liquidity_lock_days"`

	TopHoldersPercentage string  `json:"top_holders_percentage"`
	TopHoldersValue      float64 `json:"top_holders_value"`
	TopHoldersTrend      string  `json:"top_holders_trend"`

	AuditStatus string `json:"audit_status"`

	SocialFollowers       string `json:"social_followers"`
	SocialFollowersCount  int64  `json:"social_followers_count"`
	SocialFollowersChange float64 `json:"social_followers_change"`

	Categories  map[Category]CategoryScore `json:"categories"`
	HealthScore int                        `json:"health_score"`
	DataQuality DataQuality                `json:"data_quality"`
	LastUpdated int64                      `json:"last_updated"`
}

// Score returns the stored value for a category, zero when absent
func (m *HealthMetrics) Score(c Category) int {
	if s, ok := m.Categories[c]; ok {
		return s.Value
	}
	return 0
}
