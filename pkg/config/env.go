package config

import (
	"fmt"
	"math/big"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

const (
	// DefaultMinLength defines the default minimum length of generated identifiers
	DefaultMinLength = 8

	// DefaultMaxLength defines the default maximum length of generated identifiers
	DefaultMaxLength = 15

	// DefaultMaxGwei defines the default gas price ceiling in gwei
	DefaultMaxGwei = 20.0

	// DefaultBridgeAmount defines the default funding threshold in ETH
	// The LayerZero airdrop field caps the amount at 13 hex digits of wei (~0.0045 ETH)
	DefaultBridgeAmount = "0.004"

	// DefaultMinSleepTime defines the default minimum inter-account delay in seconds
	DefaultMinSleepTime = 60

	// DefaultMaxSleepTime defines the default maximum inter-account delay in seconds
	DefaultMaxSleepTime = 300

	// DefaultTitleCaseChance defines the default probability of title-casing the contract name
	DefaultTitleCaseChance = 0.5

	// DefaultPollInterval defines the default interval for gas, receipt and balance polling
	DefaultPollInterval = 10 * time.Second

	// DefaultReceiptTimeout defines the default patience for transaction receipts
	DefaultReceiptTimeout = 5 * time.Minute

	// DefaultBridgeWaitTimeout defines the default patience for cross-chain settlement
	DefaultBridgeWaitTimeout = 30 * time.Minute

	// DefaultMetricsPort defines the default port for the metrics server
	DefaultMetricsPort = "8080"

	// DefaultSolcPath defines the default solc binary to invoke
	DefaultSolcPath = "solc"

	// DefaultPrivateKeysFile defines the default file holding one private key per line
	DefaultPrivateKeysFile = "private_keys.txt"

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = false

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window for the circuit breaker
	DefaultCircuitBreakerWindow = 10 * time.Minute

	// DefaultCircuitBreakerReset defines the reset timeout for the circuit breaker
	DefaultCircuitBreakerReset = 30 * time.Minute

	// Chain identifiers

	EthereumChainID = 1
	ArbitrumChainID = 42161
	ScrollChainID   = 534352

	// ScrollLayerZeroChainID is the LayerZero endpoint id for Scroll, distinct from the EVM chain id
	ScrollLayerZeroChainID = 214

	// MerklyBridgeAddress is the Merkly gas refuel contract on Arbitrum
	MerklyBridgeAddress = "0x4Ae8CEBcCD7027820ba83188DFD73CCAD0A92806"

	// BridgeDstGasLimit is the gas provided for delivery on the destination chain
	BridgeDstGasLimit = 200000

	DefaultEthereumRPCURL = "https://eth.llamarpc.com"

	DefaultArbitrumRPCURL      = "https://arb1.arbitrum.io/rpc"
	DefaultArbitrumExplorerURL = "https://arbiscan.io/tx/"

	DefaultScrollRPCURL      = "https://rpc.scroll.io"
	DefaultScrollExplorerURL = "https://scrollscan.com/tx/"
)

// GetEnvMinLength returns the minimum generated identifier length from environment variables
func GetEnvMinLength() (int, error) {
	return getEnvPositiveInt("MIN_LENGTH", DefaultMinLength)
}

// GetEnvMaxLength returns the maximum generated identifier length from environment variables
func GetEnvMaxLength() (int, error) {
	return getEnvPositiveInt("MAX_LENGTH", DefaultMaxLength)
}

// GetEnvMaxGwei returns the gas price ceiling in gwei from environment variables
func GetEnvMaxGwei() (float64, error) {
	maxGwei := os.Getenv("MAX_GWEI")
	if maxGwei == "" {
		return DefaultMaxGwei, nil
	}

	parsed, err := strconv.ParseFloat(maxGwei, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid MAX_GWEI value: %s, must be a number", maxGwei)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("MAX_GWEI must be greater than 0")
	}
	return parsed, nil
}

// GetEnvBridgeAmount returns the funding threshold in wei from environment variables
// The value is expressed in ETH as a decimal string, e.g. "0.004"
func GetEnvBridgeAmount() (*big.Int, error) {
	bridgeAmount := os.Getenv("BRIDGE_AMOUNT")
	if bridgeAmount == "" {
		bridgeAmount = DefaultBridgeAmount
	}

	eth, ok := new(big.Float).SetString(bridgeAmount)
	if !ok {
		return nil, fmt.Errorf("invalid BRIDGE_AMOUNT value: %s, must be a decimal number", bridgeAmount)
	}
	if eth.Sign() <= 0 {
		return nil, fmt.Errorf("BRIDGE_AMOUNT must be greater than 0")
	}

	wei, _ := new(big.Float).Mul(eth, big.NewFloat(params.Ether)).Int(nil)
	return wei, nil
}

// GetEnvMinSleepTime returns the minimum inter-account delay from environment variables
func GetEnvMinSleepTime() (time.Duration, error) {
	seconds, err := getEnvPositiveInt("MIN_SLEEP_TIME", DefaultMinSleepTime)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvMaxSleepTime returns the maximum inter-account delay from environment variables
func GetEnvMaxSleepTime() (time.Duration, error) {
	seconds, err := getEnvPositiveInt("MAX_SLEEP_TIME", DefaultMaxSleepTime)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvTitleCaseChance returns the probability of title-casing the generated contract name
func GetEnvTitleCaseChance() (float64, error) {
	chance := os.Getenv("TITLE_CASE_CHANCE")
	if chance == "" {
		return DefaultTitleCaseChance, nil
	}

	parsed, err := strconv.ParseFloat(chance, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid TITLE_CASE_CHANCE value: %s, must be a number", chance)
	}
	if parsed < 0 || parsed > 1 {
		return 0, fmt.Errorf("TITLE_CASE_CHANCE must be between 0 and 1")
	}
	return parsed, nil
}

// GetEnvPollInterval returns the polling interval from environment variables
func GetEnvPollInterval() (time.Duration, error) {
	return getEnvDuration("POLL_INTERVAL", DefaultPollInterval)
}

// GetEnvReceiptTimeout returns the receipt wait timeout from environment variables
func GetEnvReceiptTimeout() (time.Duration, error) {
	return getEnvDuration("RECEIPT_TIMEOUT", DefaultReceiptTimeout)
}

// GetEnvBridgeWaitTimeout returns the cross-chain settlement timeout from environment variables
func GetEnvBridgeWaitTimeout() (time.Duration, error) {
	return getEnvDuration("BRIDGE_WAIT_TIMEOUT", DefaultBridgeWaitTimeout)
}

// GetEnvMetricsPort returns the metrics server port from environment variables
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return DefaultMetricsPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", fmt.Errorf("invalid METRICS_PORT value: %s, must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvSolcPath returns the solc binary path from environment variables
func GetEnvSolcPath() string {
	solcPath := os.Getenv("SOLC_PATH")
	if solcPath == "" {
		return DefaultSolcPath
	}
	return solcPath
}

// GetEnvPrivateKeysFile returns the private keys file path from environment variables
func GetEnvPrivateKeysFile() string {
	keysFile := os.Getenv("PRIVATE_KEYS_FILE")
	if keysFile == "" {
		return DefaultPrivateKeysFile
	}
	return keysFile
}

// GetEnvBridgeAddress returns the bridge contract address from environment variables
func GetEnvBridgeAddress() (string, error) {
	bridgeAddress := os.Getenv("BRIDGE_ADDRESS")
	if bridgeAddress == "" {
		return MerklyBridgeAddress, nil
	}

	if !common.IsHexAddress(bridgeAddress) {
		return "", fmt.Errorf("invalid BRIDGE_ADDRESS value: %s, must be a valid Ethereum address", bridgeAddress)
	}
	return bridgeAddress, nil
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled from environment variables
func GetEnvCircuitBreakerEnabled() (bool, error) {
	enabled := os.Getenv("CIRCUIT_BREAKER_ENABLED")
	if enabled == "" {
		return DefaultCircuitBreakerEnabled, nil
	}

	if enabled == "true" {
		return true, nil
	} else if enabled == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED value: %s, must be 'true' or 'false'", enabled)
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvCircuitBreakerThreshold() (int, error) {
	return getEnvPositiveInt("CIRCUIT_BREAKER_THRESHOLD", DefaultCircuitBreakerThreshold)
}

// GetEnvCircuitBreakerWindow returns the circuit breaker window duration from environment variables
func GetEnvCircuitBreakerWindow() (time.Duration, error) {
	return getEnvDuration("CIRCUIT_BREAKER_WINDOW", DefaultCircuitBreakerWindow)
}

// GetEnvCircuitBreakerReset returns the circuit breaker reset timeout from environment variables
func GetEnvCircuitBreakerReset() (time.Duration, error) {
	return getEnvDuration("CIRCUIT_BREAKER_RESET", DefaultCircuitBreakerReset)
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "":
		return logger.InfoLevel, nil
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be one of 'debug', 'info', 'notice', 'error'", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be 'true' or 'false'", coloring)
}

// GetEnvChainEndpoints returns the endpoint configuration for the three chains of interest
func GetEnvChainEndpoints() (eth, arbitrum, scroll ChainEndpoint, err error) {
	ethRPC := os.Getenv("ETHEREUM_RPC_URL")
	if ethRPC == "" {
		ethRPC = DefaultEthereumRPCURL
	}

	arbitrumRPC := os.Getenv("ARBITRUM_RPC_URL")
	if arbitrumRPC == "" {
		arbitrumRPC = DefaultArbitrumRPCURL
	}
	arbitrumExplorer := os.Getenv("ARBITRUM_EXPLORER_URL")
	if arbitrumExplorer == "" {
		arbitrumExplorer = DefaultArbitrumExplorerURL
	}

	scrollRPC := os.Getenv("SCROLL_RPC_URL")
	if scrollRPC == "" {
		scrollRPC = DefaultScrollRPCURL
	}
	scrollExplorer := os.Getenv("SCROLL_EXPLORER_URL")
	if scrollExplorer == "" {
		scrollExplorer = DefaultScrollExplorerURL
	}

	for _, rpc := range []string{ethRPC, arbitrumRPC, scrollRPC} {
		if _, err := url.ParseRequestURI(rpc); err != nil {
			return ChainEndpoint{}, ChainEndpoint{}, ChainEndpoint{},
				fmt.Errorf("invalid RPC URL: %s, must be a valid URL", rpc)
		}
	}

	eth = ChainEndpoint{ChainID: EthereumChainID, RPCURL: ethRPC}
	arbitrum = ChainEndpoint{ChainID: ArbitrumChainID, RPCURL: arbitrumRPC, ExplorerURL: arbitrumExplorer}
	scroll = ChainEndpoint{ChainID: ScrollChainID, RPCURL: scrollRPC, ExplorerURL: scrollExplorer}
	return eth, arbitrum, scroll, nil
}

func getEnvPositiveInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be an integer", key, value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be a valid duration string", key, value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}
