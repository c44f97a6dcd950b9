package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"dotfolio/internal/app/port"
	"dotfolio/internal/config"
	"dotfolio/internal/infrastructure/chainclient"
	"dotfolio/internal/infrastructure/httpclient"
	"dotfolio/internal/infrastructure/restapi"
	"dotfolio/internal/infrastructure/walletloader"
	"dotfolio/internal/infrastructure/walletstore"
	"dotfolio/internal/pkg/metrics"
	"dotfolio/internal/service"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge slog callers onto the zap core.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// Per-chain fetchers.
	timeouts := chainclient.Timeouts{
		Connection:   time.Duration(cfg.Timeouts.ConnectionSeconds) * time.Second,
		BalanceQuery: time.Duration(cfg.Timeouts.BalanceQuerySeconds) * time.Second,
	}
	fetchers := make([]port.ChainFetcher, 0, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		fetchers = append(fetchers, chainclient.NewFetcher(chain, timeouts, zapLogger))
	}
	zapLogger.Info("Chain fetchers initialized", zap.Int("count", len(fetchers)))

	// Price feed.
	priceTimeout := time.Duration(cfg.PriceAPI.RequestTimeoutMillis) * time.Millisecond
	coinGeckoClient := httpclient.NewCoinGeckoClient(cfg.PriceAPI.BaseURL, priceTimeout, zapLogger)
	priceCache := service.NewPriceCache(cfg.PriceAPI)
	priceSvc := service.NewPriceService(coinGeckoClient, priceCache, cfg.PriceAPI, zapLogger)
	zapLogger.Info("Price service initialized", zap.String("base_url", cfg.PriceAPI.BaseURL))

	// Aggregation and polling.
	portfolioSvc := service.NewPortfolioService(fetchers, priceSvc, zapLogger)
	refreshInterval := time.Duration(cfg.Refresh.ChainDataSeconds) * time.Second
	refresher := service.NewRefreshService(portfolioSvc, refreshInterval, zapLogger)

	// Wallet session.
	extension := walletloader.NewFileExtension(cfg.Wallet.AccountsFile, zapLogger)
	sessionStore := walletstore.NewFileStore(cfg.Wallet.SessionFile)
	walletSvc := service.NewWalletService(extension, sessionStore, refresher, zapLogger)

	// AI advisor is optional.
	var advisor port.Advisor
	if cfg.Advisor.Enabled {
		advisorSvc, err := service.NewAdvisorService(context.Background(), cfg.Advisor, zapLogger)
		if err != nil {
			zapLogger.Warn("AI advisor disabled: client initialization failed", zap.Error(err))
		} else {
			advisor = advisorSvc
			zapLogger.Info("AI advisor initialized", zap.String("model", cfg.Advisor.Model))
		}
	}

	xcmSvc := service.NewXCMService(zapLogger)

	// Resume the previous session if one was persisted.
	walletSvc.TryAutoReconnect(context.Background())

	handler := restapi.NewDashboardHandler(walletSvc, refresher, priceSvc, xcmSvc, advisor, cfg.Chains, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	refresher.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
