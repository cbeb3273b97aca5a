package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/lodgeguard/lodgeguard/internal/alert"
	alertStore "github.com/lodgeguard/lodgeguard/internal/alert/store"
	"github.com/lodgeguard/lodgeguard/internal/audit"
	auditStore "github.com/lodgeguard/lodgeguard/internal/audit/store"
	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/config"
	"github.com/lodgeguard/lodgeguard/internal/contribution"
	contributionStore "github.com/lodgeguard/lodgeguard/internal/contribution/store"
	"github.com/lodgeguard/lodgeguard/internal/cycle"
	cycleStore "github.com/lodgeguard/lodgeguard/internal/cycle/store"
	"github.com/lodgeguard/lodgeguard/internal/database"
	"github.com/lodgeguard/lodgeguard/internal/event"
	"github.com/lodgeguard/lodgeguard/internal/forecast"
	lodgeguardHttp "github.com/lodgeguard/lodgeguard/internal/http"
	contributionHandler "github.com/lodgeguard/lodgeguard/internal/http/contribution"
	coverageHandler "github.com/lodgeguard/lodgeguard/internal/http/coverage"
	cycleHandler "github.com/lodgeguard/lodgeguard/internal/http/cycle"
	forecastHandler "github.com/lodgeguard/lodgeguard/internal/http/forecast"
	importHandler "github.com/lodgeguard/lodgeguard/internal/http/importcsv"
	securingHandler "github.com/lodgeguard/lodgeguard/internal/http/securing"
	"github.com/lodgeguard/lodgeguard/internal/idempotency"
	idempotencyStore "github.com/lodgeguard/lodgeguard/internal/idempotency/store"
	"github.com/lodgeguard/lodgeguard/internal/importer"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
	ledgerStore "github.com/lodgeguard/lodgeguard/internal/ledger/store"
	"github.com/lodgeguard/lodgeguard/internal/securing"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var bus event.Publisher = event.Noop{}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			slog.Error("failed to connect to nats", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		bus = event.NewBus(nc)
	}

	var locker cycle.Locker = cycle.NewLocalLocker()

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()

		locker = cycle.NewRedisLocker(rdb)
	}

	var (
		gateway  *banking.Gateway
		provider ledger.BalanceProvider = ledger.LocalProvider{}
		partner  ledger.PartnerGateway
	)

	if cfg.Partner.BaseURL != "" {
		gateway = banking.NewGateway(cfg.Partner.BaseURL, cfg.Partner.APIKey, cfg.Partner.Timeout)
		provider = ledger.NewPartnerProvider(gateway)
		partner = gateway
	}

	var (
		auditService        = audit.NewService(auditStore.New(db), bus)
		guard               = idempotency.NewGuard(idempotencyStore.New(db))
		alertService        = alert.NewService(alertStore.New(db), bus)
		contributionService = contribution.NewService(contributionStore.New(db), guard)
		ledgerService       = ledger.NewService(ledgerStore.New(db), provider, alertService)
		applier             = ledger.NewApplier(ledgerStore.New(db), auditService, bus, partner)
		securingService     = securing.NewService(contributionService, ledgerService, applier, securing.Schedule(cfg.Securing.Schedule))
		cycleService        = cycle.NewService(cycleStore.New(db), ledgerService, alertService, auditService, bus, locker)
		forecastService     = forecast.NewService(cycleService)
		importService       = importer.NewService(contributionService)
	)

	var (
		contributionsH = contributionHandler.NewHandler(contributionService)
		importH        = importHandler.NewHandler(importService)
		securingH      = securingHandler.NewHandler(securingService)
		coverageH      = coverageHandler.NewHandler(ledgerService)
		cyclesH        = cycleHandler.NewHandler(cycleService)
		forecastH      = forecastHandler.NewHandler(forecastService, ledgerService)
	)

	router := lodgeguardHttp.New(contributionsH, importH, securingH, coverageH, cyclesH, forecastH)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
