package services

import (
	"fmt"
	"math/big"
	"time"

	"github.com/tokenwatch/token-health/internal/application/scoring"
	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// assemble merges resolution output, provider results, and scores into
// one complete record. Every field is set; unavailable values carry an
// explicit placeholder.
func (s *HealthService) assemble(resolved *entities.ResolvedToken, agg *Aggregate) *entities.HealthMetrics {
	now := s.now()

	metrics := &entities.HealthMetrics{
		ID:              resolved.ID,
		Name:            resolved.Name,
		Symbol:          resolved.Symbol,
		ContractAddress: resolved.ContractAddress,
		Network:         resolved.Network,

		MarketCap:            entities.ValueUnavailable,
		TVL:                  entities.ValueUnavailable,
		LiquidityLock:        entities.StatusUnknown,
		TopHoldersPercentage: entities.ValueUnavailable,
		TopHoldersTrend:      "stable",
		AuditStatus:          entities.StatusUnknown,
		SocialFollowers:      entities.ValueUnavailable,

		LastUpdated: now.UnixMilli(),
	}

	sig := scoring.Signals{
		Market:   agg.Market,
		Pool:     agg.Pool,
		Contract: agg.Contract,
		Security: agg.Security,
		TVL:      agg.TVL,
		Social:   agg.Social,
		Code:     agg.Code,
		Now:      now,
	}

	if md := agg.Market; md != nil {
		if metrics.Name == "" {
			metrics.Name = md.Name
		}
		if metrics.Symbol == "" {
			metrics.Symbol = md.Symbol
		}
		if metrics.ContractAddress == "" && md.ContractAddress != "" {
			metrics.ContractAddress = md.ContractAddress
			metrics.Network = md.Network
		}
		metrics.MarketCap = formatMoney(md.MarketCap)
		metrics.MarketCapValue = md.MarketCap
		metrics.MarketCapChange24h = md.MarketCapChange24h
		metrics.CurrentPrice = md.CurrentPrice
		metrics.PriceChange24h = md.PriceChange24h
	}

	if tvl := agg.TVL; tvl != nil {
		metrics.TVL = formatMoney(tvl.TVL)
		metrics.TVLValue = tvl.TVL
		metrics.TVLChange24h = tvl.TVLChange24h
	}

	if pool := agg.Pool; pool != nil {
		metrics.LiquidityLock, metrics.LiquidityLockDays = classifyLock(pool, now)
	}

	if contract := agg.Contract; contract != nil {
		if contract.SourceVerified {
			metrics.AuditStatus = "Verified"
		} else {
			metrics.AuditStatus = "Unverified"
		}

		if pct, label, ok := topHoldersShare(contract.Holders, contract.TotalSupply); ok {
			metrics.TopHoldersPercentage = label
			metrics.TopHoldersValue = pct
			metrics.TopHoldersTrend = concentrationTrend(pct)
			sig.TopHoldersPct = &pct
		}
	}

	if social := agg.Social; social != nil {
		metrics.SocialFollowers = formatCount(social.Followers)
		metrics.SocialFollowersCount = social.Followers
		metrics.SocialFollowersChange = social.FollowerGrowth
	}

	if metrics.Name == "" {
		metrics.Name = entities.StatusUnknown
	}
	if metrics.Symbol == "" {
		metrics.Symbol = entities.StatusUnknown
	}

	metrics.Categories = scoring.ScoreAll(sig)
	metrics.HealthScore = scoring.Composite(metrics.Categories)
	metrics.DataQuality = scoring.Quality(sig)

	return metrics
}

// topHoldersShare computes the top-10 concentration with integer
// arithmetic; token supplies overflow float64.
func topHoldersShare(holders []entities.HolderBalance, totalSupply string) (float64, string, bool) {
	total, ok := new(big.Int).SetString(totalSupply, 10)
	if !ok || total.Sign() <= 0 || len(holders) == 0 {
		return 0, "", false
	}

	sum := new(big.Int)
	count := 0
	for _, h := range holders {
		if count == 10 {
			break
		}
		balance, ok := new(big.Int).SetString(h.Balance, 10)
		if !ok {
			continue
		}
		sum.Add(sum, balance)
		count++
	}
	if count == 0 {
		return 0, "", false
	}

	// Basis points keep two decimal places without float precision loss
	bps := new(big.Int).Mul(sum, big.NewInt(10000))
	bps.Quo(bps, total)
	if !bps.IsInt64() {
		return 0, "", false
	}

	points := bps.Int64()
	if points > 10000 {
		points = 10000
	}
	label := fmt.Sprintf("%d.%02d%%", points/100, points%100)
	return float64(points) / 100, label, true
}

func concentrationTrend(pct float64) string {
	switch {
	case pct < 30:
		return "down"
	case pct > 60:
		return "up"
	}
	return "stable"
}

// classifyLock renders a pool's liquidity lock state
func classifyLock(pool *entities.PoolDetail, now time.Time) (string, int) {
	if pool.LiquidityLockedTil == nil {
		return "Not locked", 0
	}
	if !pool.LiquidityLockedTil.After(now) {
		return "Expired", 0
	}
	days := int(pool.LiquidityLockedTil.Sub(now).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%d days", days), days
}

// formatMoney renders a USD amount as $1.23B style, N/A for zero
func formatMoney(v float64) string {
	if v <= 0 {
		return entities.ValueUnavailable
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatCount renders a follower count as 1.2M style
func formatCount(v int64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1e3)
	}
	return fmt.Sprintf("%d", v)
}
