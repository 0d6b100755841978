package scoring

// Development scores code activity. Base 50.
func Development(sig Signals) int {
	score := 50

	if c := sig.Code; c != nil {
		switch {
		case c.Commits > 1000:
			score += 15
		case c.Commits > 100:
			score += 10
		case c.Commits > 10:
			score += 5
		}
		switch {
		case c.Stars > 10_000:
			score += 15
		case c.Stars > 1_000:
			score += 10
		case c.Stars > 100:
			score += 5
		}
		switch {
		case c.Forks > 1_000:
			score += 10
		case c.Forks > 100:
			score += 5
		}
		switch {
		case c.Contributors > 50:
			score += 10
		case c.Contributors > 10:
			score += 5
		}
		if c.IsOpenSource {
			score += 10
		}
		if c.IsActive(sig.now()) {
			score += 5
		}
	}

	return clamp(score)
}
