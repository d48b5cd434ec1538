package config

import (
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/joho/godotenv"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

// Config holds the configuration for the deployer service
type Config struct {
	// Generated identifier length bounds for contract templates
	MinLength int
	MaxLength int

	// TitleCaseChance is the probability of title-casing the generated contract name
	TitleCaseChance float64

	// MaxGwei is the gas price ceiling on the reference chain
	MaxGwei float64

	// BridgeAmount is the funding threshold on the destination chain, in wei
	BridgeAmount *big.Int

	// Inter-account pacing bounds
	MinSleepTime time.Duration
	MaxSleepTime time.Duration

	// Polling and patience
	PollInterval      time.Duration
	ReceiptTimeout    time.Duration
	BridgeWaitTimeout time.Duration

	// Chain endpoints
	Ethereum ChainEndpoint
	Arbitrum ChainEndpoint
	Scroll   ChainEndpoint

	// BridgeAddress is the bridge contract on the source chain
	BridgeAddress string

	MetricsPort     string
	SolcPath        string
	PrivateKeysFile string
	CircuitBreaker  CircuitBreakerConfig
	LoggerConfig    LoggerConfig
}

// ChainEndpoint holds the configuration for a specific blockchain
type ChainEndpoint struct {
	ChainID     int
	RPCURL      string
	ExplorerURL string
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	minLength, err := GetEnvMinLength()
	if err != nil {
		return nil, err
	}

	maxLength, err := GetEnvMaxLength()
	if err != nil {
		return nil, err
	}

	titleCaseChance, err := GetEnvTitleCaseChance()
	if err != nil {
		return nil, err
	}

	maxGwei, err := GetEnvMaxGwei()
	if err != nil {
		return nil, err
	}

	bridgeAmount, err := GetEnvBridgeAmount()
	if err != nil {
		return nil, err
	}

	minSleepTime, err := GetEnvMinSleepTime()
	if err != nil {
		return nil, err
	}

	maxSleepTime, err := GetEnvMaxSleepTime()
	if err != nil {
		return nil, err
	}

	pollInterval, err := GetEnvPollInterval()
	if err != nil {
		return nil, err
	}

	receiptTimeout, err := GetEnvReceiptTimeout()
	if err != nil {
		return nil, err
	}

	bridgeWaitTimeout, err := GetEnvBridgeWaitTimeout()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	bridgeAddress, err := GetEnvBridgeAddress()
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvCircuitBreakerWindow()
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvCircuitBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	eth, arbitrum, scroll, err := GetEnvChainEndpoints()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MinLength:         minLength,
		MaxLength:         maxLength,
		TitleCaseChance:   titleCaseChance,
		MaxGwei:           maxGwei,
		BridgeAmount:      bridgeAmount,
		MinSleepTime:      minSleepTime,
		MaxSleepTime:      maxSleepTime,
		PollInterval:      pollInterval,
		ReceiptTimeout:    receiptTimeout,
		BridgeWaitTimeout: bridgeWaitTimeout,
		Ethereum:          eth,
		Arbitrum:          arbitrum,
		Scroll:            scroll,
		BridgeAddress:     bridgeAddress,
		MetricsPort:       metricsPort,
		SolcPath:          GetEnvSolcPath(),
		PrivateKeysFile:   GetEnvPrivateKeysFile(),
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.MinLength > cfg.MaxLength {
		return fmt.Errorf("MIN_LENGTH (%d) must not exceed MAX_LENGTH (%d)", cfg.MinLength, cfg.MaxLength)
	}
	if cfg.MinSleepTime > cfg.MaxSleepTime {
		return fmt.Errorf("MIN_SLEEP_TIME (%v) must not exceed MAX_SLEEP_TIME (%v)", cfg.MinSleepTime, cfg.MaxSleepTime)
	}
	return nil
}
