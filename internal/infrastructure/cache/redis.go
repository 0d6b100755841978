package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
)

// ErrCacheMiss indicates the key was not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")

// Key prefixes separate the two logical stores: computed metrics
// (short TTL) and resolved identities (long TTL).
const (
	metricsPrefix  = "metrics:"
	identityPrefix = "identity:"
)

var (
	cacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total cache operations by store and outcome",
		},
		[]string{"store", "outcome"},
	)
)

// RedisCache provides the metrics and identity caches backed by Redis
type RedisCache struct {
	client      *redis.Client
	logger      *zap.Logger
	metricsTTL  time.Duration
	identityTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(cfg config.RedisConfig, metricsTTL, identityTTL time.Duration, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return &RedisCache{
		client:      client,
		logger:      logger,
		metricsTTL:  metricsTTL,
		identityTTL: identityTTL,
	}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetMetrics retrieves a cached health metrics record.
// A read failure is treated as a miss.
func (c *RedisCache) GetMetrics(ctx context.Context, key string) (*entities.HealthMetrics, error) {
	var metrics entities.HealthMetrics
	if err := c.get(ctx, "metrics", metricsPrefix+key, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// PutMetrics stores a health metrics record under the metrics TTL
func (c *RedisCache) PutMetrics(ctx context.Context, key string, metrics *entities.HealthMetrics) error {
	return c.put(ctx, "metrics", metricsPrefix+key, metrics, c.metricsTTL)
}

// GetIdentity retrieves a cached resolved identity.
// A read failure is treated as a miss.
func (c *RedisCache) GetIdentity(ctx context.Context, key string) (*entities.ResolvedToken, error) {
	var token entities.ResolvedToken
	if err := c.get(ctx, "identity", identityPrefix+key, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// PutIdentity stores a resolved identity under the identity TTL
func (c *RedisCache) PutIdentity(ctx context.Context, key string, token *entities.ResolvedToken) error {
	return c.put(ctx, "identity", identityPrefix+key, token, c.identityTTL)
}

func (c *RedisCache) get(ctx context.Context, store, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			cacheOpsTotal.WithLabelValues(store, "miss").Inc()
			return ErrCacheMiss
		}
		// Read failures degrade to a miss; the pipeline recomputes
		cacheOpsTotal.WithLabelValues(store, "read_error").Inc()
		c.logger.Warn("Cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return ErrCacheMiss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		cacheOpsTotal.WithLabelValues(store, "read_error").Inc()
		c.logger.Warn("Cached value unreadable, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return ErrCacheMiss
	}

	cacheOpsTotal.WithLabelValues(store, "hit").Inc()
	return nil
}

func (c *RedisCache) put(ctx context.Context, store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		cacheOpsTotal.WithLabelValues(store, "write_error").Inc()
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		cacheOpsTotal.WithLabelValues(store, "write_error").Inc()
		return fmt.Errorf("failed to set cache: %w", err)
	}

	cacheOpsTotal.WithLabelValues(store, "write").Inc()
	return nil
}

// HealthCheck checks if Redis is reachable
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
