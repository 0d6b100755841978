package scoring

import "time"

// Security scores contract and ownership safety. Base 50.
func Security(sig Signals) int {
	score := 50

	if m := sig.Market; m != nil {
		switch {
		case m.MarketCapRank > 0 && m.MarketCapRank <= 10:
			score += 20
		case m.MarketCapRank > 0 && m.MarketCapRank <= 100:
			score += 15
		case m.MarketCapRank > 0 && m.MarketCapRank <= 1000:
			score += 10
		}
		if m.MarketCap > 0 {
			score += 5
		}
	}

	if hasPublicRepo(sig) {
		score += 5
	}

	if p := sig.Pool; p != nil {
		if p.LiquidityLockedTil != nil && p.LiquidityLockedTil.After(sig.now()) {
			if p.LiquidityLockedTil.Sub(sig.now()) >= 365*24*time.Hour {
				score += 10
			} else {
				score += 5
			}
		} else {
			score -= 5
		}
	}

	if s := sig.Security; s != nil {
		if s.Renounced() {
			score += 15
		} else {
			score -= 10
		}
		if s.IsMintable {
			score -= 5
		} else {
			score += 10
		}
		if s.IsFreezable {
			score -= 2
		} else {
			score += 5
		}
		if s.IsMultiSig {
			score += 10
		}
		if s.IsHoneypot {
			score -= 40
		}
		if s.OwnerCanChangeBalance {
			score -= 20
		}
		if s.HasSelfDestruct {
			score -= 15
		}
		if s.IsOpenSource {
			score += 10
		} else {
			score -= 10
		}

		switch s.RiskLevel {
		case "High":
			if score > 30 {
				score = 30
			}
		case "Low":
			if score < 60 {
				score = 60
			}
		}
	}

	return clamp(score)
}

func hasPublicRepo(sig Signals) bool {
	if sig.Code != nil && sig.Code.IsOpenSource {
		return true
	}
	return sig.Market != nil && sig.Market.RepoURL != ""
}
