package entities

import "time"

// ScanRecord is one append-only scan history row for an authenticated user
type ScanRecord struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	TokenID         string    `db:"token_id"`
	Symbol          string    `db:"symbol"`
	Name            string    `db:"name"`
	ContractAddress string    `db:"contract_address"`
	HealthScore     int       `db:"health_score"`
	SecurityScore   int       `db:"security_score"`
	LiquidityScore  int       `db:"liquidity_score"`
	TokenomicsScore int       `db:"tokenomics_score"`
	CommunityScore  int       `db:"community_score"`
	DevScore        int       `db:"dev_score"`
	CreatedAt       time.Time `db:"created_at"`
}
