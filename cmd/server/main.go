package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infco/internal/config"
	"infco/internal/db"
	"infco/internal/handlers"
	"infco/internal/logger"
	"infco/internal/pricing"
	"infco/internal/services"
	"infco/internal/store"
	"infco/internal/websocket"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	policy, err := pricing.ParsePolicy(cfg.EarningCapPolicy)
	if err != nil {
		log.Fatal("invalid earning cap policy", zap.String("policy", cfg.EarningCapPolicy), zap.Error(err))
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	profiles := store.NewProfileStore(database)
	campaigns := store.NewCampaignStore(database)
	applications := store.NewApplicationStore(database)
	contents := store.NewContentStore(database)
	wallets := store.NewWalletStore(database)
	ledger := store.NewLedgerStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	calculator := pricing.NewCalculator(policy)

	svcs := handlers.Services{
		Accounts:  services.NewAccountService(txRunner, users, profiles, wallets, audit, cfg),
		Campaigns: services.NewCampaignService(txRunner, campaigns, applications, contents, profiles, audit, calculator),
		Wallets:   services.NewWalletService(txRunner, contents, wallets, ledger, audit, calculator, hub),
	}
	stores := handlers.Stores{
		Users:        users,
		Profiles:     profiles,
		Campaigns:    campaigns,
		Applications: applications,
		Contents:     contents,
		Wallets:      wallets,
		Ledger:       ledger,
		Audit:        audit,
	}

	handler := handlers.New(cfg, stores, svcs, hub, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("infco API listening",
			zap.String("addr", server.Addr),
			zap.String("earning_cap_policy", string(calculator.Policy())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
