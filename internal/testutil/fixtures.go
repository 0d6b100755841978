package testutil

import (
	"time"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// Well-known fixture addresses
const (
	TestTokenAddress = "0x808507121B80c02388fAd14726482e061B8da827"
	TestPoolAddress  = "0x57aF956d3E2cCa3B86f3D8C6772C03ddca3eAacB"
	TestOwnerAddress = "0x0000000000000000000000000000000000000000"
	TestUserID       = "user-42"
)

// CreateTestResolvedToken returns a fully resolved token identity
func CreateTestResolvedToken(opts ...func(*entities.ResolvedToken)) *entities.ResolvedToken {
	token := &entities.ResolvedToken{
		ID:              "pendle",
		Symbol:          "PENDLE",
		Name:            "Pendle",
		ContractAddress: TestTokenAddress,
		Network:         "eth",
	}
	for _, opt := range opts {
		opt(token)
	}
	return token
}

// CreateTestMarketData returns market data for a mid-cap token
func CreateTestMarketData(opts ...func(*entities.MarketData)) *entities.MarketData {
	data := &entities.MarketData{
		ID:                 "pendle",
		Symbol:             "PENDLE",
		Name:               "Pendle",
		ContractAddress:    TestTokenAddress,
		Network:            "eth",
		CurrentPrice:       4.20,
		PriceChange24h:     -1.3,
		MarketCap:          680_000_000,
		MarketCapRank:      92,
		MarketCapChange24h: -0.8,
		Volume24h:          45_000_000,
		Community: entities.CommunityStats{
			TwitterFollowers:  210_000,
			RedditSubscribers: 12_000,
			TelegramUsers:     35_000,
		},
		TwitterHandle: "pendle_fi",
		RepoURL:       "https://github.com/pendle-finance/pendle-core",
	}
	for _, opt := range opts {
		opt(data)
	}
	return data
}

// CreateTestPoolDetail returns pool detail with a live liquidity lock
func CreateTestPoolDetail(opts ...func(*entities.PoolDetail)) *entities.PoolDetail {
	lockedTil := time.Now().Add(120 * 24 * time.Hour)
	pool := &entities.PoolDetail{
		Address:            TestPoolAddress,
		Network:            "eth",
		ReserveUSD:         2_000_000,
		Volume24hUSD:       600_000,
		Transactions24h:    1_400,
		CreatedAt:          time.Now().Add(-400 * 24 * time.Hour),
		LiquidityLockedTil: &lockedTil,
	}
	for _, opt := range opts {
		opt(pool)
	}
	return pool
}

// CreateTestContractInfo returns contract info with a small holder list
func CreateTestContractInfo(opts ...func(*entities.ContractInfo)) *entities.ContractInfo {
	info := &entities.ContractInfo{
		SourceVerified: true,
		ContractName:   "PendleToken",
		CreatorAddress: "0x1FcCC097db89A86Bfc474A1f39Ffaee5910C3Ba2",
		OwnerAddress:   TestOwnerAddress,
		TotalSupply:    "1000000000000000000000000",
		// 15% + 9% + 4% of the supply, 28% concentration total
		Holders: []entities.HolderBalance{
			{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Balance: "150000000000000000000000"},
			{Address: "0xBE0eB53F46cd790Cd13851d5EFf43D12404d33E8", Balance: "90000000000000000000000"},
			{Address: "0xF977814e90dA44bFA03b6295A0616a897441aceC", Balance: "40000000000000000000000"},
		},
	}
	for _, opt := range opts {
		opt(info)
	}
	return info
}

// CreateTestSecurityReport returns a clean security report
func CreateTestSecurityReport(opts ...func(*entities.SecurityReport)) *entities.SecurityReport {
	report := &entities.SecurityReport{
		IsOpenSource:       true,
		OwnershipRenounced: true,
		BuyTaxPct:          0,
		SellTaxPct:         0,
		RiskLevel:          "Low",
	}
	for _, opt := range opts {
		opt(report)
	}
	return report
}

// CreateTestSocialProfile returns an established verified profile
func CreateTestSocialProfile(opts ...func(*entities.SocialProfile)) *entities.SocialProfile {
	profile := &entities.SocialProfile{
		Handle:         "pendle_fi",
		Followers:      210_000,
		Verified:       true,
		CreatedAt:      time.Now().Add(-3 * 365 * 24 * time.Hour),
		Tweets:         8_200,
		FollowerGrowth: 3.5,
	}
	for _, opt := range opts {
		opt(profile)
	}
	return profile
}

// CreateTestCodeActivity returns an actively developed repo
func CreateTestCodeActivity(opts ...func(*entities.CodeActivity)) *entities.CodeActivity {
	activity := &entities.CodeActivity{
		Repo:         "pendle-finance/pendle-core",
		Commits:      2_400,
		Stars:        620,
		Forks:        180,
		Contributors: 34,
		IsOpenSource: true,
		LastCommitAt: time.Now().Add(-5 * 24 * time.Hour),
	}
	for _, opt := range opts {
		opt(activity)
	}
	return activity
}

// CreateTestScanRecord returns a persisted scan row
func CreateTestScanRecord(opts ...func(*entities.ScanRecord)) *entities.ScanRecord {
	record := &entities.ScanRecord{
		ID:               "3f1e9e0a-5a3d-4f2b-8d6c-1b2a3c4d5e6f",
		UserID:           TestUserID,
		TokenID:          "pendle",
		Symbol:           "PENDLE",
		Name:             "Pendle",
		ContractAddress:  TestTokenAddress,
		HealthScore:      72,
		SecurityScore:    85,
		LiquidityScore:   70,
		TokenomicsScore:  65,
		CommunityScore:   68,
		DevScore:         74,
		CreatedAt:        time.Now(),
	}
	for _, opt := range opts {
		opt(record)
	}
	return record
}
