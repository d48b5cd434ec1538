package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/scroll-fleet/deployer/pkg/accounts"
	"github.com/scroll-fleet/deployer/pkg/bridge"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/circuitbreaker"
	"github.com/scroll-fleet/deployer/pkg/compiler"
	"github.com/scroll-fleet/deployer/pkg/config"
	"github.com/scroll-fleet/deployer/pkg/contracts"
	"github.com/scroll-fleet/deployer/pkg/deployer"
	"github.com/scroll-fleet/deployer/pkg/fees"
	"github.com/scroll-fleet/deployer/pkg/health"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/txmgr"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	stdLogger := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Received termination signal, shutting down gracefully...")
		cancel()
	}()

	accts, err := accounts.Load(cfg.PrivateKeysFile)
	if err != nil {
		log.Fatalf("Failed to load accounts: %v", err)
	}

	// Chain clients
	ethereum, err := chainclient.New(cfg.Ethereum, stdLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Ethereum: %v", err)
	}
	arbitrum, err := chainclient.New(cfg.Arbitrum, stdLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Arbitrum: %v", err)
	}
	scroll, err := chainclient.New(cfg.Scroll, stdLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Scroll: %v", err)
	}

	estimator := fees.NewEstimator(fees.NewHTTPSuggester(), stdLogger)
	gasGate := chainclient.NewGasGate(ethereum, cfg.MaxGwei, cfg.PollInterval, stdLogger)

	// Transaction lifecycles for the bridge (source) and deployment (destination) chains
	bridgeLifecycle := txmgr.NewLifecycle(arbitrum,
		txmgr.NewReceiptWaiter(arbitrum, cfg.PollInterval, cfg.ReceiptTimeout, stdLogger), stdLogger)
	deployLifecycle := txmgr.NewLifecycle(scroll,
		txmgr.NewReceiptWaiter(scroll, cfg.PollInterval, cfg.ReceiptTimeout, stdLogger), stdLogger)

	funder, err := bridge.New(arbitrum, scroll, estimator, bridgeLifecycle, bridge.Options{
		Contract:     common.HexToAddress(cfg.BridgeAddress),
		DstChainID:   config.ScrollLayerZeroChainID,
		DstGasLimit:  config.BridgeDstGasLimit,
		PollInterval: cfg.PollInterval,
		WaitTimeout:  cfg.BridgeWaitTimeout,
	}, stdLogger)
	if err != nil {
		log.Fatalf("Failed to create bridge: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	orchestrator := deployer.NewOrchestrator(
		scroll,
		gasGate,
		estimator,
		funder,
		compiler.NewSolc(cfg.SolcPath, stdLogger),
		deployLifecycle,
		cfg.BridgeAmount,
		contracts.GenOptions{
			MinLength:       cfg.MinLength,
			MaxLength:       cfg.MaxLength,
			TitleCaseChance: cfg.TitleCaseChance,
		},
		rng,
		stdLogger,
	)

	breaker := circuitbreaker.NewCircuitBreaker(
		cfg.CircuitBreaker.Enabled,
		cfg.CircuitBreaker.Threshold,
		cfg.CircuitBreaker.WindowDuration,
		cfg.CircuitBreaker.ResetTimeout,
		stdLogger,
	)

	runner := deployer.NewRunner(orchestrator, breaker, scroll.ChainID,
		cfg.MinSleepTime, cfg.MaxSleepTime, rng, stdLogger)

	addresses := make([]common.Address, len(accts))
	for i, acct := range accts {
		addresses[i] = acct.Address
	}

	// Health and metrics server
	healthServer := health.NewServer(cfg.MetricsPort, map[int]*chainclient.Client{
		ethereum.ChainID: ethereum,
		arbitrum.ChainID: arbitrum,
		scroll.ChainID:   scroll,
	}, addresses, breaker, runner.Snapshot)
	go healthServer.Start()

	runner.Run(ctx, accts)
}
