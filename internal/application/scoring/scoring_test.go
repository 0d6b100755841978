package scoring

import (
	"testing"
	"time"

	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/testutil"
)

var scoringNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightSecurity + WeightLiquidity + WeightTokenomics + WeightCommunity + WeightDevelopment
	if sum != 1.0 {
		t.Errorf("expected weights to sum to 1.0, got %v", sum)
	}
}

func TestScoreAll_NoSignals(t *testing.T) {
	scores := ScoreAll(Signals{Now: scoringNow})

	expected := map[entities.Category]int{
		entities.CategorySecurity:    50,
		entities.CategoryLiquidity:   50,
		entities.CategoryTokenomics:  65,
		entities.CategoryCommunity:   50,
		entities.CategoryDevelopment: 50,
	}
	for category, want := range expected {
		if got := scores[category].Value; got != want {
			t.Errorf("%s: expected %d with no signals, got %d", category, want, got)
		}
	}

	if got := Composite(scores); got != 53 {
		t.Errorf("expected composite 53 with no signals, got %d", got)
	}
}

func TestScoreAll_AlwaysInBounds(t *testing.T) {
	worst := Signals{
		Now: scoringNow,
		Security: &entities.SecurityReport{
			IsHoneypot:            true,
			IsMintable:            true,
			IsFreezable:           true,
			OwnerCanChangeBalance: true,
			HasSelfDestruct:       true,
			CanTakeBackOwnership:  true,
			BuyTaxPct:             50,
			SellTaxPct:            50,
		},
		Pool: &entities.PoolDetail{},
		TVL:  &entities.TVLData{TVLChange7d: -50},
	}
	pct := 95.0
	worst.TopHoldersPct = &pct

	best := Signals{
		Now:      scoringNow,
		Market:   testutil.CreateTestMarketData(func(m *entities.MarketData) { m.MarketCapRank = 3 }),
		Pool:     testutil.CreateTestPoolDetail(),
		Security: testutil.CreateTestSecurityReport(func(s *entities.SecurityReport) { s.IsMultiSig = true }),
		TVL:      &entities.TVLData{TVL: 500_000_000, TVLChange7d: 10, Chains: []string{"a", "b", "c", "d", "e"}},
		Social:   testutil.CreateTestSocialProfile(func(s *entities.SocialProfile) { s.Followers = 2_000_000 }),
		Code:     testutil.CreateTestCodeActivity(func(c *entities.CodeActivity) { c.Stars = 20_000 }),
	}

	for name, sig := range map[string]Signals{"worst": worst, "best": best} {
		for category, score := range ScoreAll(sig) {
			if score.Value < 0 || score.Value > 100 {
				t.Errorf("%s case: %s score %d out of [0,100]", name, category, score.Value)
			}
		}
	}
}

func TestSecurity_RankTiers(t *testing.T) {
	tests := []struct {
		name     string
		rank     int
		expected int
	}{
		{"top 10", 5, 50 + 20 + 5},
		{"top 100", 92, 50 + 15 + 5},
		{"top 1000", 800, 50 + 10 + 5},
		{"unranked", 0, 50 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Signals{
				Now: scoringNow,
				Market: &entities.MarketData{
					MarketCapRank: tt.rank,
					MarketCap:     1_000_000,
				},
			}
			if got := Security(sig); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestSecurity_CleanRenouncedContract(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		Security: &entities.SecurityReport{
			IsOpenSource:       true,
			OwnershipRenounced: true,
		},
	}

	// base 50, renounced +15, not mintable +10, not freezable +5, open source +10
	if got := Security(sig); got != 90 {
		t.Errorf("expected 90, got %d", got)
	}
}

func TestSecurity_TakeBackOwnershipNegatesRenounce(t *testing.T) {
	renounced := Signals{
		Now:      scoringNow,
		Security: &entities.SecurityReport{OwnershipRenounced: true},
	}
	revocable := Signals{
		Now: scoringNow,
		Security: &entities.SecurityReport{
			OwnershipRenounced:   true,
			CanTakeBackOwnership: true,
		},
	}

	if Security(renounced) <= Security(revocable) {
		t.Errorf("expected renounced (%d) to outscore revocable (%d)",
			Security(renounced), Security(revocable))
	}
}

func TestSecurity_HoneypotPenalty(t *testing.T) {
	sig := Signals{
		Now:      scoringNow,
		Security: &entities.SecurityReport{IsHoneypot: true},
	}

	// base 50, not renounced -10, not mintable +10, not freezable +5,
	// honeypot -40, closed source -10
	if got := Security(sig); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestSecurity_RiskLevelOverrides(t *testing.T) {
	highRisk := Signals{
		Now: scoringNow,
		Security: &entities.SecurityReport{
			IsOpenSource:       true,
			OwnershipRenounced: true,
			RiskLevel:          "High",
		},
	}
	if got := Security(highRisk); got != 30 {
		t.Errorf("expected high risk cap at 30, got %d", got)
	}

	lowRisk := Signals{
		Now:      scoringNow,
		Security: &entities.SecurityReport{RiskLevel: "Low"},
	}
	if got := Security(lowRisk); got != 60 {
		t.Errorf("expected low risk floor at 60, got %d", got)
	}
}

func TestSecurity_LiquidityLock(t *testing.T) {
	longLock := scoringNow.Add(400 * 24 * time.Hour)
	shortLock := scoringNow.Add(30 * 24 * time.Hour)
	expired := scoringNow.Add(-time.Hour)

	tests := []struct {
		name     string
		lock     *time.Time
		expected int
	}{
		{"locked over a year", &longLock, 60},
		{"locked under a year", &shortLock, 55},
		{"lock expired", &expired, 45},
		{"never locked", nil, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Signals{
				Now:  scoringNow,
				Pool: &entities.PoolDetail{LiquidityLockedTil: tt.lock},
			}
			if got := Security(sig); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestLiquidity_VolumeAndReserves(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		Market: &entities.MarketData{
			MarketCap: 680_000_000,
			Volume24h: 45_000_000,
		},
		Pool: &entities.PoolDetail{
			ReserveUSD:      2_000_000,
			Transactions24h: 1_400,
			CreatedAt:       scoringNow.Add(-400 * 24 * time.Hour),
		},
	}

	// base 50, volume ratio ~6.6% +5, volume over 10M +10,
	// reserve over 1M +7, over 1000 txns +5, pool older than a year +5
	if got := Liquidity(sig); got != 82 {
		t.Errorf("expected 82, got %d", got)
	}
}

func TestLiquidity_TVLContribution(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		TVL: &entities.TVLData{
			TVL:         50_000_000,
			TVLChange7d: 2,
			Chains:      []string{"Ethereum", "Arbitrum"},
		},
	}

	// base 50, TVL over 10M +7, growing +5, two chains +3
	if got := Liquidity(sig); got != 65 {
		t.Errorf("expected 65, got %d", got)
	}
}

func TestLiquidity_TVLCollapse(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		TVL: &entities.TVLData{TVL: 50_000_000, TVLChange7d: -35},
	}

	// base 50, TVL over 10M +7, collapse -10
	if got := Liquidity(sig); got != 47 {
		t.Errorf("expected 47, got %d", got)
	}
}

func TestTokenomics_Concentration(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		expected int
	}{
		{"well distributed", 25, 75},
		{"moderate", 45, 70},
		{"neutral", 55, 65},
		{"concentrated", 70, 57},
		{"extreme", 85, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct := tt.pct
			sig := Signals{Now: scoringNow, TopHoldersPct: &pct}
			if got := Tokenomics(sig); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestTokenomics_TaxesAndFlags(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		Security: &entities.SecurityReport{
			IsBurnable: true,
			IsMintable: true,
			BuyTaxPct:  7,
			SellTaxPct: 12,
		},
	}

	// base 65, burnable +10, mintable -10, buy tax -5, sell tax -10
	if got := Tokenomics(sig); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}

func TestTokenomics_HoneypotCap(t *testing.T) {
	pct := 20.0
	sig := Signals{
		Now:           scoringNow,
		TopHoldersPct: &pct,
		Security: &entities.SecurityReport{
			IsHoneypot: true,
			IsBurnable: true,
		},
	}

	if got := Tokenomics(sig); got != 20 {
		t.Errorf("expected honeypot cap at 20, got %d", got)
	}
}

func TestCommunity_FullProfile(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		Social: &entities.SocialProfile{
			Followers:      210_000,
			Verified:       true,
			CreatedAt:      scoringNow.Add(-3 * 365 * 24 * time.Hour),
			Tweets:         8_200,
			FollowerGrowth: 3.5,
		},
		Market: &entities.MarketData{
			Community: entities.CommunityStats{
				RedditSubscribers: 12_000,
				TelegramUsers:     35_000,
			},
		},
	}

	// base 50, followers +15, verified +10, age over a year +5,
	// tweets +3, growth +5, reddit +5, telegram +5
	if got := Community(sig); got != 98 {
		t.Errorf("expected 98, got %d", got)
	}
}

func TestDevelopment_ActiveRepo(t *testing.T) {
	sig := Signals{
		Now: scoringNow,
		Code: &entities.CodeActivity{
			Commits:      2_400,
			Stars:        620,
			Forks:        180,
			Contributors: 34,
			IsOpenSource: true,
			LastCommitAt: scoringNow.Add(-5 * 24 * time.Hour),
		},
	}

	// base 50, commits +15, stars +5, forks +5, contributors +5,
	// open source +10, active +5
	if got := Development(sig); got != 95 {
		t.Errorf("expected 95, got %d", got)
	}
}

func TestDevelopment_StaleRepo(t *testing.T) {
	active := Signals{
		Now:  scoringNow,
		Code: &entities.CodeActivity{LastCommitAt: scoringNow.Add(-89 * 24 * time.Hour)},
	}
	stale := Signals{
		Now:  scoringNow,
		Code: &entities.CodeActivity{LastCommitAt: scoringNow.Add(-91 * 24 * time.Hour)},
	}

	if Development(active) != 55 || Development(stale) != 50 {
		t.Errorf("expected 90 day activity window, got active=%d stale=%d",
			Development(active), Development(stale))
	}
}

func TestComposite_WeightedSum(t *testing.T) {
	scores := map[entities.Category]entities.CategoryScore{
		entities.CategorySecurity:    {Value: 80},
		entities.CategoryLiquidity:   {Value: 70},
		entities.CategoryTokenomics:  {Value: 65},
		entities.CategoryCommunity:   {Value: 60},
		entities.CategoryDevelopment: {Value: 50},
	}

	// 0.25*80 + 0.25*70 + 0.20*65 + 0.15*60 + 0.15*50 = 67
	if got := Composite(scores); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestComposite_Extremes(t *testing.T) {
	all := func(v int) map[entities.Category]entities.CategoryScore {
		scores := make(map[entities.Category]entities.CategoryScore)
		for _, c := range entities.Categories {
			scores[c] = entities.CategoryScore{Category: c, Value: v}
		}
		return scores
	}

	if got := Composite(all(100)); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := Composite(all(0)); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestQuality(t *testing.T) {
	if got := Quality(Signals{Pool: &entities.PoolDetail{}}); got != entities.DataQualityComplete {
		t.Errorf("expected complete with pool data, got %s", got)
	}
	if got := Quality(Signals{TVL: &entities.TVLData{}}); got != entities.DataQualityComplete {
		t.Errorf("expected complete with TVL data, got %s", got)
	}
	if got := Quality(Signals{Market: &entities.MarketData{}}); got != entities.DataQualityPartial {
		t.Errorf("expected partial without pool or TVL data, got %s", got)
	}
}
