package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrental/internal/api"
	"carrental/internal/config"
	"carrental/internal/database"
	"carrental/internal/events"
	"carrental/internal/identity"
	"carrental/internal/logging"
	"carrental/internal/metrics"
	"carrental/internal/notify"
	"carrental/internal/payments"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	logger.Info().
		Str("environment", cfg.App.Environment).
		Int("port", cfg.HTTP.Port).
		Msg("starting")

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	verifier, err := buildVerifier(cfg, logger)
	if err != nil {
		return fmt.Errorf("init identity verifier: %w", err)
	}

	paymentsClient, err := payments.NewClient(cfg.Payments.SecretKey, cfg.Payments.Currency)
	if err != nil {
		return fmt.Errorf("init payments client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBus()
	startNotifyWorker(ctx, cfg, bus, logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, logger)
	}

	srv := api.NewServer(cfg, db, verifier, paymentsClient, bus, *logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildVerifier selects local JWT verification when a signing secret is
// configured and falls back to the provider's userinfo endpoint otherwise.
// With Redis available, verifications are cached for the configured TTL.
func buildVerifier(cfg *config.Config, logger *zerolog.Logger) (identity.Verifier, error) {
	var verifier identity.Verifier
	var err error

	if cfg.Identity.JWTSecret != "" {
		verifier, err = identity.NewJWTVerifier(cfg.Identity.JWTSecret)
	} else {
		verifier, err = identity.NewHTTPVerifier(cfg.Identity.BaseURL, cfg.Identity.APIKey)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Address == "" {
		return verifier, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, identity cache disabled")
		return verifier, nil
	}

	ttl := time.Duration(cfg.Identity.CacheTTLSeconds) * time.Second
	return identity.NewCachedVerifier(verifier, client, ttl, logger), nil
}

func startNotifyWorker(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.AdminChatID == 0 {
		logger.Info().Msg("telegram not configured, notifications disabled")
		return
	}

	sender, err := notify.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, notifications disabled")
		return
	}

	worker := notify.NewWorker(sender, notify.RetryPolicy{}, logger)
	handler := worker.BookingEventHandler()
	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingConfirmed, handler)
	bus.Subscribe(events.EventBookingCancelled, handler)

	go worker.Start(ctx)
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics server starting")
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
}
