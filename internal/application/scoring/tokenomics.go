package scoring

// Tokenomics scores supply mechanics and holder distribution. Base 65.
func Tokenomics(sig Signals) int {
	score := 65

	if s := sig.Security; s != nil {
		if s.IsBurnable {
			score += 10
		}
		if s.IsMintable {
			score -= 10
		}
		score -= taxPenalty(s.BuyTaxPct)
		score -= taxPenalty(s.SellTaxPct)
	}

	if pct := sig.TopHoldersPct; pct != nil {
		switch {
		case *pct < 30:
			score += 10
		case *pct < 50:
			score += 5
		case *pct > 80:
			score -= 15
		case *pct > 60:
			score -= 8
		}
	}

	// A honeypot makes every other supply property moot
	if sig.Security != nil && sig.Security.IsHoneypot && score > 20 {
		score = 20
	}

	return clamp(score)
}

func taxPenalty(pct float64) int {
	switch {
	case pct > 10:
		return 10
	case pct > 5:
		return 5
	}
	return 0
}
