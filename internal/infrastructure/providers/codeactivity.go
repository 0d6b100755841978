package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/domain/sources"
)

// Ensure CodeActivityClient implements CodeSource
var _ sources.CodeSource = (*CodeActivityClient)(nil)

// CodeActivityClient wraps the code hosting API (GitHub-style)
type CodeActivityClient struct {
	http *httpClient
}

// NewCodeActivityClient creates a new code activity client
func NewCodeActivityClient(cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *CodeActivityClient {
	return &CodeActivityClient{http: newHTTPClient("code_activity", cfg, retryDelay, backoff, logger)}
}

type repoResponse struct {
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	Stars    int    `json:"stargazers_count"`
	Forks    int    `json:"forks_count"`
	PushedAt string `json:"pushed_at"`
}

type contributorEntry struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// RepoActivity retrieves commit, star, fork, and contributor stats for
// a repo. Accepts "owner/name" or a full repository URL.
func (c *CodeActivityClient) RepoActivity(ctx context.Context, repo string) (*entities.CodeActivity, error) {
	slug := repoSlug(repo)
	if slug == "" {
		return nil, &Error{Provider: "code_activity", Kind: KindLogical, Message: "unrecognized repo reference"}
	}

	var repoResp repoResponse
	if err := c.http.getJSON(ctx, "/repos/"+slug, nil, &repoResp); err != nil {
		return nil, err
	}

	activity := &entities.CodeActivity{
		Repo:         repoResp.FullName,
		Stars:        repoResp.Stars,
		Forks:        repoResp.Forks,
		IsOpenSource: !repoResp.Private,
		LastCommitAt: parseUnixOrRFC3339(repoResp.PushedAt),
	}

	q := url.Values{}
	q.Set("per_page", "100")
	var contributors []contributorEntry
	if err := c.http.getJSON(ctx, "/repos/"+slug+"/contributors", q, &contributors); err == nil {
		activity.Contributors = len(contributors)
		for _, entry := range contributors {
			activity.Commits += entry.Contributions
		}
	} else {
		c.http.logger.Warn("Contributor lookup failed", zap.String("repo", slug), zap.Error(err))
	}

	return activity, nil
}

// repoSlug extracts "owner/name" from a repo reference or URL
func repoSlug(repo string) string {
	repo = strings.TrimSpace(repo)
	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")

	if idx := strings.Index(repo, "://"); idx >= 0 {
		repo = repo[idx+3:]
		if slash := strings.Index(repo, "/"); slash >= 0 {
			repo = repo[slash+1:]
		} else {
			return ""
		}
	}

	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}
