package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure SecurityClient implements SecuritySource
var _ sources.SecuritySource = (*SecurityClient)(nil)

// SecurityClient wraps the contract security analyzer API (GoPlus-style)
type SecurityClient struct {
	http *httpClient
}

// NewSecurityClient creates a new security analyzer client
func NewSecurityClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *SecurityClient {
	return &SecurityClient{http: newHTTPClient("security", cfg, retryDelay, backoff, logger)}
}

// securityTokenEntry uses the analyzer's "0"/"1" string flags
type securityTokenEntry struct {
	IsHoneypot           string `json:"is_honeypot"`
	IsMintable           string `json:"is_mintable"`
	CanBurn              string `json:"is_burnable"`
	TransferPausable     string `json:"transfer_pausable"`
	IsProxy              string `json:"is_proxy"`
	IsMultisig           string `json:"is_multisig"`
	IsOpenSource         string `json:"is_open_source"`
	CanTakeBackOwnership string `json:"can_take_back_ownership"`
	OwnerChangeBalance   string `json:"owner_change_balance"`
	SelfDestruct         string `json:"selfdestruct"`
	OwnerAddress         string `json:"owner_address"`
	BuyTax               string `json:"buy_tax"`
	SellTax              string `json:"sell_tax"`
	TrustList            string `json:"trust_list"`
}

type securityResponse struct {
	Code    int                           `json:"code"`
	Message string                        `json:"message"`
	Result  map[string]securityTokenEntry `json:"result"`
}

// Analyze retrieves heuristic contract risk flags for a token
func (c *SecurityClient) Analyze(ctx context.Context, network, address string) (*entities.SecurityReport, error) {
	lower := strings.ToLower(address)

	q := url.Values{}
	q.Set("contract_addresses", lower)

	var resp securityResponse
	if err := c.http.getJSON(ctx, "/token_security/"+ChainID(network), q, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 1 {
		return nil, &Error{Provider: "security", Kind: KindLogical, Message: resp.Message}
	}

	entry, ok := resp.Result[lower]
	if !ok {
		return nil, &Error{Provider: "security", Kind: KindLogical, Message: "contract not analyzed"}
	}

	report := &entities.SecurityReport{
		IsHoneypot:            entry.IsHoneypot == "1",
		IsMintable:            entry.IsMintable == "1",
		IsBurnable:            entry.CanBurn == "1",
		IsFreezable:           entry.TransferPausable == "1",
		IsProxy:               entry.IsProxy == "1",
		IsMultiSig:            entry.IsMultisig == "1",
		IsOpenSource:          entry.IsOpenSource == "1",
		OwnershipRenounced:    isRenouncedOwner(entry.OwnerAddress),
		CanTakeBackOwnership:  entry.CanTakeBackOwnership == "1",
		OwnerCanChangeBalance: entry.OwnerChangeBalance == "1",
		HasSelfDestruct:       entry.SelfDestruct == "1",
		BuyTaxPct:             parseTax(entry.BuyTax),
		SellTaxPct:            parseTax(entry.SellTax),
	}
	report.RiskLevel = riskLevel(report, entry.TrustList == "1")
	return report, nil
}

// Burn addresses treated as equivalent to renounced ownership
var burnOwners = map[string]bool{
	"":                                           true,
	"0x0000000000000000000000000000000000000000": true,
	"0x000000000000000000000000000000000000dead": true,
}

func isRenouncedOwner(owner string) bool {
	return burnOwners[strings.ToLower(owner)]
}

// parseTax converts the analyzer's 0..1 fraction to a percentage
func parseTax(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * 100
}

// riskLevel summarizes the analyzer flags into High, Low, or ""
func riskLevel(r *entities.SecurityReport, trusted bool) string {
	if r.IsHoneypot || r.HasSelfDestruct || r.OwnerCanChangeBalance {
		return "High"
	}
	if trusted || (r.IsOpenSource && r.Renounced() && !r.IsMintable && !r.IsFreezable) {
		return "Low"
	}
	return ""
}
