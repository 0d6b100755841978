package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// External data source configuration
	Providers ProvidersConfig

	// Database configuration (scan history)
	Database DatabaseConfig

	// Redis configuration (result + identity caches)
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Aggregation configuration
	Aggregator AggregatorConfig

	// Logging configuration
	Log LogConfig
}

// ProviderConfig holds settings shared by every external data source client
type ProviderConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// ProvidersConfig holds per-source connection settings
type ProvidersConfig struct {
	MarketDataURL     string        `envconfig:"MARKET_DATA_URL" default:"https://api.coingecko.com/api/v3"`
	MarketDataKey     string        `envconfig:"MARKET_DATA_API_KEY" default:""`
	MarketDataTimeout time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"10s"`

	PoolsURL     string        `envconfig:"POOLS_URL" default:"https://api.geckoterminal.com/api/v2"`
	PoolsTimeout time.Duration `envconfig:"POOLS_TIMEOUT" default:"8s"`

	ExplorerURL     string        `envconfig:"EXPLORER_URL" default:"https://api.etherscan.io/api"`
	ExplorerKey     string        `envconfig:"EXPLORER_API_KEY" default:""`
	ExplorerTimeout time.Duration `envconfig:"EXPLORER_TIMEOUT" default:"8s"`

	SecurityURL     string        `envconfig:"SECURITY_URL" default:"https://api.gopluslabs.io/api/v1"`
	SecurityTimeout time.Duration `envconfig:"SECURITY_TIMEOUT" default:"12s"`

	TVLURL     string        `envconfig:"TVL_URL" default:"https://api.llama.fi"`
	TVLTimeout time.Duration `envconfig:"TVL_TIMEOUT" default:"8s"`

	SocialURL     string        `envconfig:"SOCIAL_URL" default:"https://api.socialdata.dev/v1"`
	SocialKey     string        `envconfig:"SOCIAL_API_KEY" default:""`
	SocialTimeout time.Duration `envconfig:"SOCIAL_TIMEOUT" default:"5s"`

	CodeActivityURL     string        `envconfig:"CODE_ACTIVITY_URL" default:"https://api.github.com"`
	CodeActivityKey     string        `envconfig:"CODE_ACTIVITY_API_KEY" default:""`
	CodeActivityTimeout time.Duration `envconfig:"CODE_ACTIVITY_TIMEOUT" default:"8s"`

	MaxRetries   int           `envconfig:"PROVIDER_MAX_RETRIES" default:"2"`
	RetryDelay   time.Duration `envconfig:"PROVIDER_RETRY_DELAY" default:"1s"`
	RetryBackoff float64       `envconfig:"PROVIDER_RETRY_BACKOFF" default:"1.5"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"tokenhealth"`
	Password        string        `envconfig:"DB_PASSWORD" default:"tokenhealth"`
	Name            string        `envconfig:"DB_NAME" default:"token_health"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"35s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"20"`
}

// AggregatorConfig holds aggregation pipeline settings
type AggregatorConfig struct {
	OverallDeadline time.Duration `envconfig:"AGGREGATOR_OVERALL_DEADLINE" default:"25s"`
	MetricsTTL      time.Duration `envconfig:"AGGREGATOR_METRICS_TTL" default:"5m"`
	IdentityTTL     time.Duration `envconfig:"AGGREGATOR_IDENTITY_TTL" default:"24h"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MarketData returns the market data client settings
func (p *ProvidersConfig) MarketData() ProviderConfig {
	return ProviderConfig{BaseURL: p.MarketDataURL, APIKey: p.MarketDataKey, Timeout: p.MarketDataTimeout, MaxRetries: p.MaxRetries}
}

// Pools returns the on-chain pools client settings
func (p *ProvidersConfig) Pools() ProviderConfig {
	return ProviderConfig{BaseURL: p.PoolsURL, Timeout: p.PoolsTimeout, MaxRetries: p.MaxRetries}
}

// Explorer returns the contract explorer client settings
func (p *ProvidersConfig) Explorer() ProviderConfig {
	return ProviderConfig{BaseURL: p.ExplorerURL, APIKey: p.ExplorerKey, Timeout: p.ExplorerTimeout, MaxRetries: p.MaxRetries}
}

// Security returns the security analyzer client settings
func (p *ProvidersConfig) Security() ProviderConfig {
	return ProviderConfig{BaseURL: p.SecurityURL, Timeout: p.SecurityTimeout, MaxRetries: p.MaxRetries}
}

// TVL returns the TVL aggregator client settings
func (p *ProvidersConfig) TVL() ProviderConfig {
	return ProviderConfig{BaseURL: p.TVLURL, Timeout: p.TVLTimeout, MaxRetries: p.MaxRetries}
}

// Social returns the social profile client settings
func (p *ProvidersConfig) Social() ProviderConfig {
	return ProviderConfig{BaseURL: p.SocialURL, APIKey: p.SocialKey, Timeout: p.SocialTimeout, MaxRetries: p.MaxRetries}
}

// CodeActivity returns the code activity client settings
func (p *ProvidersConfig) CodeActivity() ProviderConfig {
	return ProviderConfig{BaseURL: p.CodeActivityURL, APIKey: p.CodeActivityKey, Timeout: p.CodeActivityTimeout, MaxRetries: p.MaxRetries}
}
