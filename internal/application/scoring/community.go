package scoring

// Community scores social reach and engagement. Base 50.
func Community(sig Signals) int {
	score := 50

	if s := sig.Social; s != nil {
		switch {
		case s.Followers > 1_000_000:
			score += 20
		case s.Followers > 100_000:
			score += 15
		case s.Followers > 10_000:
			score += 10
		case s.Followers > 1_000:
			score += 5
		}
		if s.Verified {
			score += 10
		}
		switch age := s.AccountAgeDays(sig.now()); {
		case age > 5*365:
			score += 10
		case age > 365:
			score += 5
		}
		switch {
		case s.Tweets > 10_000:
			score += 5
		case s.Tweets > 1_000:
			score += 3
		}
		if s.FollowerGrowth > 0 {
			score += 5
		}
	}

	if m := sig.Market; m != nil {
		switch {
		case m.Community.RedditSubscribers > 100_000:
			score += 10
		case m.Community.RedditSubscribers > 10_000:
			score += 5
		}
		switch {
		case m.Community.TelegramUsers > 50_000:
			score += 10
		case m.Community.TelegramUsers > 5_000:
			score += 5
		}
	}

	return clamp(score)
}
