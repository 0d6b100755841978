package services

import (
	"testing"
	"time"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

func TestTopHoldersShare(t *testing.T) {
	// 1e24 raw units, top holders sum to 42.5%
	supply := "1000000000000000000000000"
	holders := []entities.HolderBalance{
		{Address: "0x1", Balance: "300000000000000000000000"},
		{Address: "0x2", Balance: "100000000000000000000000"},
		{Address: "0x3", Balance: "25000000000000000000000"},
	}

	pct, label, ok := topHoldersShare(holders, supply)
	if !ok {
		t.Fatal("expected computable share")
	}
	if label != "42.50%" {
		t.Errorf("expected 42.50%%, got %q", label)
	}
	if pct != 42.5 {
		t.Errorf("expected 42.5, got %v", pct)
	}
}

func TestTopHoldersShare_TopTenOnly(t *testing.T) {
	supply := "1000000000000000"
	holders := make([]entities.HolderBalance, 12)
	for i := range holders {
		// each holder owns 5% of supply
		holders[i] = entities.HolderBalance{Address: "0x1", Balance: "50000000000000"}
	}

	pct, label, ok := topHoldersShare(holders, supply)
	if !ok {
		t.Fatal("expected computable share")
	}
	if pct != 50 || label != "50.00%" {
		t.Errorf("expected top ten capped at 50.00%%, got %v %q", pct, label)
	}
}

func TestTopHoldersShare_CapsAtFullSupply(t *testing.T) {
	// stale holder rows can sum past the reported supply
	pct, label, ok := topHoldersShare([]entities.HolderBalance{
		{Address: "0x1", Balance: "1500"},
	}, "1000")
	if !ok {
		t.Fatal("expected computable share")
	}
	if pct != 100 || label != "100.00%" {
		t.Errorf("expected cap at 100.00%%, got %v %q", pct, label)
	}
}

func TestTopHoldersShare_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		holders []entities.HolderBalance
		supply  string
	}{
		{"no holders", nil, "1000"},
		{"bad supply", []entities.HolderBalance{{Balance: "10"}}, "not-a-number"},
		{"zero supply", []entities.HolderBalance{{Balance: "10"}}, "0"},
		{"bad balances only", []entities.HolderBalance{{Balance: "??"}}, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := topHoldersShare(tt.holders, tt.supply); ok {
				t.Error("expected no computable share")
			}
		})
	}
}

func TestConcentrationTrend(t *testing.T) {
	if got := concentrationTrend(25); got != "down" {
		t.Errorf("expected down, got %q", got)
	}
	if got := concentrationTrend(45); got != "stable" {
		t.Errorf("expected stable, got %q", got)
	}
	if got := concentrationTrend(65); got != "up" {
		t.Errorf("expected up, got %q", got)
	}
}

func TestClassifyLock(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	soon := now.Add(12 * time.Hour)
	future := now.Add(120 * 24 * time.Hour)

	tests := []struct {
		name     string
		lock     *time.Time
		expected string
		days     int
	}{
		{"never locked", nil, "Not locked", 0},
		{"expired", &past, "Expired", 0},
		{"under a day left", &soon, "1 days", 1},
		{"long lock", &future, "120 days", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &entities.PoolDetail{LiquidityLockedTil: tt.lock}
			label, days := classifyLock(pool, now)
			if label != tt.expected || days != tt.days {
				t.Errorf("expected %q/%d, got %q/%d", tt.expected, tt.days, label, days)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1.5e12, "$1.50T"},
		{2.34e9, "$2.34B"},
		{680_000_000, "$680.00M"},
		{45_000, "$45.00K"},
		{12.5, "$12.50"},
		{0, entities.ValueUnavailable},
		{-5, entities.ValueUnavailable},
	}

	for _, tt := range tests {
		if got := formatMoney(tt.value); got != tt.expected {
			t.Errorf("formatMoney(%v): expected %q, got %q", tt.value, tt.expected, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		value    int64
		expected string
	}{
		{1_500_000, "1.5M"},
		{210_000, "210.0K"},
		{950, "950"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := formatCount(tt.value); got != tt.expected {
			t.Errorf("formatCount(%d): expected %q, got %q", tt.value, tt.expected, got)
		}
	}
}
