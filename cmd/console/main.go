package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/config"
	"github.com/cyrusai/agent-console/internal/domain"
	"github.com/cyrusai/agent-console/internal/infrastructure/logger"
	"github.com/cyrusai/agent-console/internal/infrastructure/sessionapi"
	"github.com/cyrusai/agent-console/internal/infrastructure/storage"
	"github.com/cyrusai/agent-console/internal/infrastructure/wallet"
	"github.com/cyrusai/agent-console/internal/scheduler"
	"github.com/cyrusai/agent-console/internal/usecase"
	"github.com/cyrusai/agent-console/internal/web"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	// Seed the demo ledger on first run.
	if trades, err := store.ListTrades(ctx); err != nil {
		log.Fatal("Failed to read ledger", zap.Error(err))
	} else if len(trades) == 0 {
		if err := store.SeedTrades(ctx, storage.SampleTrades()); err != nil {
			log.Fatal("Failed to seed ledger", zap.Error(err))
		}
		log.Info("Seeded sample trade ledger")
	}

	// 4. Init the session API (real or simulated backend)
	apiTimeout := time.Duration(cfg.SessionAPI.TimeoutMs) * time.Millisecond
	var api domain.SessionAPI
	if cfg.SessionAPI.Simulated {
		api = sessionapi.NewSimulated()
		log.Info("Using simulated session API")
	} else {
		api = sessionapi.NewClient(cfg.SessionAPI.BaseURL, apiTimeout)
	}

	// 5. Init Services
	notifier := usecase.NewRingNotifier(64)
	sessions := usecase.NewSessionService(api, store, notifier, log)

	bridge := wallet.NewBridge(cfg.Wallet.BridgeURL, log)
	auth := usecase.NewAuthService(bridge, sessions, log, cfg.Chain.ID,
		time.Duration(cfg.Wallet.PollIntervalMs)*time.Millisecond,
		time.Duration(cfg.Wallet.PollTimeoutMs)*time.Millisecond)

	history, err := usecase.NewHistoryService(ctx, store, cfg.History.PageSize)
	if err != nil {
		log.Fatal("Failed to load trade history", zap.Error(err))
	}

	// 6. Restore a persisted session, if any
	if identity, err := sessions.Restore(ctx); err != nil {
		log.Warn("Session restore failed, starting unauthenticated", zap.Error(err))
	} else if identity != nil {
		log.Info("Restored session", zap.String("wallet", identity.WalletAddress))
	}

	// 7. Periodic session refresh
	sched := scheduler.New(log)
	refreshJob := usecase.NewRefreshJob(sessions, apiTimeout)
	schedule := fmt.Sprintf("@every %ds", cfg.Refresh.IntervalSec)
	if err := sched.AddJob(schedule, refreshJob); err != nil {
		log.Fatal("Failed to schedule refresh", zap.Error(err))
	}
	sched.Start()

	// 8. Web Server
	server := web.NewServer(cfg.Server.Port, sessions, auth, history, notifier, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	// 9. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
}
