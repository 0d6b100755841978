// Package scoring turns whatever provider signals arrived into five
// bounded category scores and a weighted composite. Every function is
// pure and total: absent signals contribute nothing, and every score is
// clamped to [0,100].
package scoring

import (
	"math"
	"time"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// Signals carries the per-provider results available for one scan.
// Any field may be nil.
type Signals struct {
	Market   *entities.MarketData
	Pool     *entities.PoolDetail
	Contract *entities.ContractInfo
	Security *entities.SecurityReport
	TVL      *entities.TVLData
	Social   *entities.SocialProfile
	Code     *entities.CodeActivity

	// TopHoldersPct is the top-10 holder concentration percent,
	// nil when holder data was unavailable.
	TopHoldersPct *float64

	// Now anchors age-based signals; the zero value means time.Now
	Now time.Time
}

func (s *Signals) now() time.Time {
	if s.Now.IsZero() {
		return time.Now().UTC()
	}
	return s.Now
}

// Weights for the composite score. They sum to exactly 1.00.
const (
	WeightSecurity    = 0.25
	WeightLiquidity   = 0.25
	WeightTokenomics  = 0.20
	WeightCommunity   = 0.15
	WeightDevelopment = 0.15
)

// ScoreAll computes all five category scores
func ScoreAll(sig Signals) map[entities.Category]entities.CategoryScore {
	return map[entities.Category]entities.CategoryScore{
		entities.CategorySecurity:    {Category: entities.CategorySecurity, Value: Security(sig)},
		entities.CategoryLiquidity:   {Category: entities.CategoryLiquidity, Value: Liquidity(sig)},
		entities.CategoryTokenomics:  {Category: entities.CategoryTokenomics, Value: Tokenomics(sig)},
		entities.CategoryCommunity:   {Category: entities.CategoryCommunity, Value: Community(sig)},
		entities.CategoryDevelopment: {Category: entities.CategoryDevelopment, Value: Development(sig)},
	}
}

// Composite combines category scores using the fixed weights
func Composite(scores map[entities.Category]entities.CategoryScore) int {
	value := WeightSecurity*float64(scores[entities.CategorySecurity].Value) +
		WeightLiquidity*float64(scores[entities.CategoryLiquidity].Value) +
		WeightTokenomics*float64(scores[entities.CategoryTokenomics].Value) +
		WeightCommunity*float64(scores[entities.CategoryCommunity].Value) +
		WeightDevelopment*float64(scores[entities.CategoryDevelopment].Value)
	return clamp(int(math.Round(value)))
}

// Quality reports complete when at least one high-signal source (pool
// or TVL data) contributed. Informational only.
func Quality(sig Signals) entities.DataQuality {
	if sig.Pool != nil || sig.TVL != nil {
		return entities.DataQualityComplete
	}
	return entities.DataQualityPartial
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
