package services

import (
	"context"

	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// MetricsCache is the TTL store for computed health metrics
type MetricsCache interface {
	GetMetrics(ctx context.Context, key string) (*entities.HealthMetrics, error)
	PutMetrics(ctx context.Context, key string, metrics *entities.HealthMetrics) error
}

// IdentityCache is the TTL store for resolved token identities
type IdentityCache interface {
	GetIdentity(ctx context.Context, key string) (*entities.ResolvedToken, error)
	PutIdentity(ctx context.Context, key string, token *entities.ResolvedToken) error
}
