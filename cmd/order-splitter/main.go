package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/order-splitter/internal/config"
	"github.com/jcmexdev/order-splitter/internal/coordinator"
	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/order-splitter/internal/infra/adapters/shopify"
	"github.com/jcmexdev/order-splitter/internal/infra/httpx"
	"github.com/jcmexdev/order-splitter/internal/pkg/cache"
	"github.com/jcmexdev/order-splitter/internal/pkg/telemetry"
)

const cacheNamespace = "order-splitter"

func main() {
	if err := run(); err != nil {
		slog.Error("order-splitter exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		telemetry.InitLogger(os.Stderr, "info")
		return err
	}
	telemetry.InitLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Environment: cfg.Telemetry.Environment,
			Endpoint:    cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("failed to initialise tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	var tokenStore cache.Cache
	if cfg.Redis.Addr != "" {
		tokenStore, err = cache.NewRedisCache(ctx, cfg.Redis.Addr, cacheNamespace)
		if err != nil {
			return err
		}
		defer tokenStore.Close()
	}
	credentials := shopify.NewCredentialProvider(cfg.Shopify.AdminAccessToken, tokenStore)

	var (
		journal sagalog.Repository
		history sagalog.Reader
	)
	if cfg.Journal.Path != "" {
		repo, err := sqlite.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer repo.Close()
		journal, history = repo, repo
		slog.Info("run journal enabled", "path", cfg.Journal.Path)
	}

	client := shopify.NewClient(shopify.ClientConfig{
		StoreDomain: cfg.Shopify.StoreDomain,
		APIVersion:  cfg.Shopify.APIVersion,
		Timeout:     cfg.Shopify.Timeout,
	}, credentials)
	splitter := coordinator.NewSplitter(shopify.NewGateway(client), cfg.Split.Policy(), journal)

	handler := httpx.NewHandler(splitter, cfg.Split.Policy(), httpx.HandlerOptions{
		Credentials: credentials,
		History:     history,
	})
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: httpx.NewRouter(handler, httpx.RouterConfig{
			WebhookSecret: cfg.Shopify.WebhookSecret,
			AdminPassword: cfg.Admin.Password,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Shopify.WebhookSecret == "" {
		slog.Warn("SHOPIFY_WEBHOOK_SECRET is empty, webhooks will be rejected")
	}
	if cfg.Admin.Password == "" {
		slog.Warn("ADMIN_PASSWORD is empty, manual endpoints will be rejected")
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("order splitter listening",
			"addr", srv.Addr,
			"store", cfg.Shopify.StoreDomain,
			"split_tag", cfg.Split.Tag,
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
