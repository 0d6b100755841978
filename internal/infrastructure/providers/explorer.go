package providers

import (
	"context"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure ExplorerClient implements ExplorerSource
var _ sources.ExplorerSource = (*ExplorerClient)(nil)

// ExplorerClient wraps the contract explorer API (Etherscan-style)
type ExplorerClient struct {
	http   *httpClient
	apiKey string
}

// NewExplorerClient creates a new contract explorer client
func NewExplorerClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *ExplorerClient {
	h := newHTTPClient("explorer", cfg, retryDelay, backoff, logger)
	// The explorer takes its key as a query parameter, not a header
	h.apiKey = ""
	return &ExplorerClient{http: h, apiKey: cfg.APIKey}
}

type explorerSourceResponse struct {
	Status string `json:"status"`
	Result []struct {
		SourceCode   string `json:"SourceCode"`
		ContractName string `json:"ContractName"`
	} `json:"result"`
}

type explorerHoldersResponse struct {
	Status string `json:"status"`
	Result []struct {
		Address  string `json:"TokenHolderAddress"`
		Quantity string `json:"TokenHolderQuantity"`
	} `json:"result"`
}

type explorerCreatorResponse struct {
	Status string `json:"status"`
	Result []struct {
		ContractCreator string `json:"contractCreator"`
	} `json:"result"`
}

// ContractInfo retrieves verified-source status, top holders, and the
// contract creator for an address. The explorer exposes these as three
// modules; a failure in the holder or creator lookup degrades the
// payload rather than failing the call.
func (c *ExplorerClient) ContractInfo(ctx context.Context, address string) (*entities.ContractInfo, error) {
	if !common.IsHexAddress(address) {
		return nil, &Error{Provider: "explorer", Kind: KindLogical, Message: "invalid contract address"}
	}
	checksummed := common.HexToAddress(address).Hex()

	var srcResp explorerSourceResponse
	if err := c.http.getJSON(ctx, "", c.query("contract", "getsourcecode", checksummed), &srcResp); err != nil {
		return nil, err
	}

	info := &entities.ContractInfo{}
	if len(srcResp.Result) > 0 {
		info.SourceVerified = srcResp.Result[0].SourceCode != ""
		info.ContractName = srcResp.Result[0].ContractName
	}

	var holdersResp explorerHoldersResponse
	if err := c.http.getJSON(ctx, "", c.query("token", "tokenholderlist", checksummed), &holdersResp); err == nil {
		for _, h := range holdersResp.Result {
			info.Holders = append(info.Holders, entities.HolderBalance{
				Address: h.Address,
				Balance: h.Quantity,
			})
		}
	} else {
		c.http.logger.Warn("Holder list lookup failed", zap.String("address", checksummed), zap.Error(err))
	}

	var creatorResp explorerCreatorResponse
	if err := c.http.getJSON(ctx, "", c.query("contract", "getcontractcreation", checksummed), &creatorResp); err == nil {
		if len(creatorResp.Result) > 0 {
			info.CreatorAddress = creatorResp.Result[0].ContractCreator
		}
	} else {
		c.http.logger.Warn("Creator lookup failed", zap.String("address", checksummed), zap.Error(err))
	}

	return info, nil
}

func (c *ExplorerClient) query(module, action, address string) url.Values {
	q := url.Values{}
	q.Set("module", module)
	q.Set("action", action)
	q.Set("address", address)
	if action == "tokenholderlist" {
		q.Set("contractaddress", address)
		q.Set("page", "1")
		q.Set("offset", "10")
	}
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	return q
}
