package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/zammad-bridge/internal/api/http"
	"github.com/spec-kit/zammad-bridge/internal/api/http/handlers"
	"github.com/spec-kit/zammad-bridge/internal/config"
	"github.com/spec-kit/zammad-bridge/internal/journal"
	"github.com/spec-kit/zammad-bridge/internal/observability"
	"github.com/spec-kit/zammad-bridge/internal/persistence"
	"github.com/spec-kit/zammad-bridge/internal/relay"
	"github.com/spec-kit/zammad-bridge/pkg/notify"
	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := newZammadClient(cfg.Zammad)
	if err != nil {
		logger.Fatal("failed to build zammad client", zap.Error(err))
	}

	monitor := notify.NewMonitor(logger)
	source := notify.APISource{Client: client}
	resolver := notify.NewUserResolver(source)
	metrics := observability.NewMetrics()

	for _, kind := range notify.Kinds() {
		kind := kind
		monitor.Subscribe(kind, func(context.Context, notify.Event) error {
			metrics.RecordEvent(string(kind))
			return nil
		})
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pool := pg.PoolHandle(); pool != nil {
		eventJournal := journal.NewJournal(pool, logger)
		if err := eventJournal.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare event journal", zap.Error(err))
		}
		eventJournal.RegisterHandlers(monitor)
		logger.Info("event journal enabled")
	}

	var redisConn *persistence.Redis
	if cfg.Redis.RelayChannel != "" {
		redisConn = persistence.NewRedis(cfg.Redis, logger)
		defer redisConn.Close()

		eventRelay := relay.NewRelay(redisConn.Client, cfg.Redis.RelayChannel, logger)
		eventRelay.RegisterHandlers(monitor)
		logger.Info("event relay enabled", zap.String("channel", cfg.Redis.RelayChannel))
	}

	if cfg.Webhook.Enabled && cfg.Poller.Enabled {
		logger.Warn("both webhook and poller ingestion enabled; expect duplicate events")
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var webhookHandler *notify.WebhookHandler
	if cfg.Webhook.Enabled {
		webhookHandler = notify.NewWebhookHandler(monitor, resolver, logger, notify.WebhookConfig{
			Path:            cfg.Webhook.Path,
			Secret:          cfg.Webhook.Secret,
			SignatureHeader: cfg.Webhook.SignatureHeader,
			EventHeader:     cfg.Webhook.EventHeader,
		})
		if cfg.Webhook.Secret == "" {
			logger.Warn("webhook signature verification disabled, no secret configured")
		}
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Webhook: webhookHandler,
	})

	var poller *notify.Poller
	if cfg.Poller.Enabled {
		poller = notify.NewPoller(source, resolver, monitor, logger, notify.PollerConfig{
			Interval: cfg.Poller.Interval(),
			PageSize: cfg.Poller.PageSize,
		})
		poller.Start()
	} else {
		monitor.Start()
		defer monitor.Stop()
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if poller != nil {
		poller.Stop()
	}
	_ = app.Shutdown()
}

func newZammadClient(cfg config.ZammadConfig) (*zammad.Client, error) {
	opts := []zammad.Option{}
	switch {
	case cfg.Token != "":
		opts = append(opts, zammad.WithToken(cfg.Token))
	case cfg.OAuthToken != "":
		opts = append(opts, zammad.WithOAuth(cfg.OAuthToken))
	case cfg.Username != "":
		opts = append(opts, zammad.WithBasicAuth(cfg.Username, cfg.Password))
	}
	return zammad.New(cfg.BaseURL, opts...)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
