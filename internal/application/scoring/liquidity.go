package scoring

import "time"

// Liquidity scores trading depth and TVL footing. Base 50.
func Liquidity(sig Signals) int {
	score := 50

	if m := sig.Market; m != nil {
		if m.MarketCap > 0 {
			switch ratio := m.Volume24h / m.MarketCap; {
			case ratio > 0.3:
				score += 15
			case ratio > 0.1:
				score += 10
			case ratio > 0.05:
				score += 5
			}
		}
		switch {
		case m.Volume24h > 10_000_000:
			score += 10
		case m.Volume24h > 1_000_000:
			score += 7
		case m.Volume24h > 100_000:
			score += 3
		}
	}

	if p := sig.Pool; p != nil {
		switch {
		case p.ReserveUSD > 5_000_000:
			score += 10
		case p.ReserveUSD > 1_000_000:
			score += 7
		case p.ReserveUSD > 100_000:
			score += 3
		}
		switch {
		case p.Transactions24h > 1000:
			score += 5
		case p.Transactions24h > 100:
			score += 3
		}
		if !p.CreatedAt.IsZero() {
			switch age := sig.now().Sub(p.CreatedAt); {
			case age > 365*24*time.Hour:
				score += 5
			case age > 90*24*time.Hour:
				score += 3
			}
		}
	}

	if t := sig.TVL; t != nil {
		switch {
		case t.TVL > 100_000_000:
			score += 10
		case t.TVL > 10_000_000:
			score += 7
		case t.TVL > 1_000_000:
			score += 3
		}
		if t.TVLChange7d > 0 {
			score += 5
		} else if t.TVLChange7d < -20 {
			score -= 10
		}
		switch {
		case len(t.Chains) >= 5:
			score += 5
		case len(t.Chains) >= 2:
			score += 3
		}
	}

	return clamp(score)
}
