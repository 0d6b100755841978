package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tokenwatch/token-health/internal/application/services"
	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/infrastructure/providers"
)

// scan runs a single health scan from the command line and prints the
// metrics as JSON. Provider credentials come from the environment, the
// same variables the API server reads.
func main() {
	var (
		network  = flag.String("network", "", "network hint for contract address queries")
		social   = flag.String("social", "", "social handle override")
		codeRepo = flag.String("repo", "", "code repository override (owner/name)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scan [flags] <symbol|name|address|network:address>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(*verbose)
	defer logger.Sync()

	retryDelay := cfg.Providers.RetryDelay
	backoff := cfg.Providers.RetryBackoff
	marketClient := providers.NewMarketDataClient(cfg.Providers.MarketData(), retryDelay, backoff, logger)
	poolsClient := providers.NewPoolsClient(cfg.Providers.Pools(), retryDelay, backoff, logger)
	explorerClient := providers.NewExplorerClient(cfg.Providers.Explorer(), retryDelay, backoff, logger)
	securityClient := providers.NewSecurityClient(cfg.Providers.Security(), retryDelay, backoff, logger)
	tvlClient := providers.NewTVLClient(cfg.Providers.TVL(), retryDelay, backoff, logger)
	socialClient := providers.NewSocialClient(cfg.Providers.Social(), retryDelay, backoff, logger)
	codeClient := providers.NewCodeActivityClient(cfg.Providers.CodeActivity(), retryDelay, backoff, logger)

	// One-shot run, no cache and no history
	resolver := services.NewResolverService(marketClient, nil, logger)
	aggregator := services.NewAggregatorService(
		marketClient, poolsClient, explorerClient, securityClient,
		tvlClient, socialClient, codeClient,
		cfg.Aggregator.OverallDeadline, logger,
	)
	healthService := services.NewHealthService(resolver, aggregator, nil, nil, logger)

	query := entities.TokenQuery{
		Raw:          flag.Arg(0),
		NetworkHint:  *network,
		SocialHandle: *social,
		CodeRepo:     *codeRepo,
		ForceRefresh: true,
	}

	metrics, err := healthService.Scan(context.Background(), query, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func setupLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
