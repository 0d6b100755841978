package providers

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure SocialClient implements SocialSource
var _ sources.SocialSource = (*SocialClient)(nil)

// SocialClient wraps the social profile API
type SocialClient struct {
	http *httpClient
}

// NewSocialClient creates a new social profile client
func NewSocialClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *SocialClient {
	return &SocialClient{http: newHTTPClient("social", cfg, retryDelay, backoff, logger)}
}

type socialProfileResponse struct {
	Handle         string  `json:"screen_name"`
	FollowersCount int64   `json:"followers_count"`
	Verified       bool    `json:"verified"`
	CreatedAt      string  `json:"created_at"`
	StatusesCount  int64   `json:"statuses_count"`
	FollowerGrowth float64 `json:"follower_growth_30d"`
}

// Profile retrieves follower count, verification, age, and growth for a handle
func (c *SocialClient) Profile(ctx context.Context, handle string) (*entities.SocialProfile, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, &Error{Provider: "social", Kind: KindLogical, Message: "empty handle"}
	}

	var resp socialProfileResponse
	if err := c.http.getJSON(ctx, "/users/"+handle, nil, &resp); err != nil {
		return nil, err
	}

	return &entities.SocialProfile{
		Handle:         resp.Handle,
		Followers:      resp.FollowersCount,
		Verified:       resp.Verified,
		CreatedAt:      parseUnixOrRFC3339(resp.CreatedAt),
		Tweets:         resp.StatusesCount,
		FollowerGrowth: resp.FollowerGrowth,
	}, nil
}
