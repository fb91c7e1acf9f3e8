package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/config"
	"github.com/cyrusai/agent-console/internal/infrastructure/wallet"
	"github.com/cyrusai/agent-console/internal/usecase"
)

// Probes the wallet signer bridge and, if one answers, runs the read-only part
// of the handshake (enable + account listing).
func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Probing wallet bridge at %s...\n", cfg.Wallet.BridgeURL)

	log := zap.NewNop()
	bridge := wallet.NewBridge(cfg.Wallet.BridgeURL, log)
	pollTimeout := time.Duration(cfg.Wallet.PollTimeoutMs) * time.Millisecond
	auth := usecase.NewAuthService(bridge, nil, log, cfg.Chain.ID,
		time.Duration(cfg.Wallet.PollIntervalMs)*time.Millisecond, pollTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout+time.Second)
	defer cancel()

	result := auth.DiscoverProvider(ctx)
	fmt.Printf("Discovery result: %s\n", result)
	if result != usecase.ProviderFound {
		os.Exit(1)
	}

	if err := bridge.Enable(ctx, cfg.Chain.ID); err != nil {
		fmt.Printf("❌ Failed to enable chain %s: %v\n", cfg.Chain.ID, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Chain enabled: %s\n", cfg.Chain.ID)

	accounts, err := bridge.GetAccounts(ctx, cfg.Chain.ID)
	if err != nil {
		fmt.Printf("❌ Failed to list accounts: %v\n", err)
		os.Exit(1)
	}
	for _, acc := range accounts {
		fmt.Printf("✅ Account: %s\n", acc.Address)
	}
}
