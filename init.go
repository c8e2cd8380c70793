package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/GabrielKeuer/boligretning-webhooks/internal/config"
	"github.com/GabrielKeuer/boligretning-webhooks/internal/notify"
	"github.com/GabrielKeuer/boligretning-webhooks/internal/telemetry"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform/shopify"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier/dropship"
)

// app bundles the wired components shared by the serve and sync commands.
type app struct {
	config          *config.Config
	logger          *otelzap.Logger
	tracer          trace.Tracer
	platform        platform.Client
	suppliers       *supplier.Registry
	supplierVendors map[string][]string
	reconciler      *recon.Reconciler
	resolver        *recon.Resolver
	notifier        recon.Notifier
}

// initApp loads configuration and wires every component. The returned
// cleanup flushes the logger and shuts down the tracer.
func initApp(ctx context.Context) (*app, func(context.Context), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		return nil, nil, err
	}

	tracer, tracerShutdown, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		Enabled:     cfg.OTELEnabled,
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
	})
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}

	platformClient := shopify.New(shopify.Config{
		StoreURL:    cfg.ShopifyStoreURL,
		AccessToken: cfg.ShopifyAdminToken,
		APIVersion:  cfg.ShopifyAPIVersion,
		UseMock:     cfg.ShopifyUseMock,
	}, logger, tracer)

	registry, vendors := initSupplierRegistry(cfg, logger, tracer)

	notifier := notify.New(notify.Config{
		APIKey: cfg.ResendAPIKey,
		From:   cfg.ReportFrom,
		To:     cfg.ReportTo,
	}, logger)

	reconciler := recon.NewReconciler(recon.Config{
		WindowDays:     cfg.SyncWindowDays,
		NumberPrefix:   cfg.OrderNumberPrefix,
		Concurrency:    cfg.SyncConcurrency,
		NotifyCustomer: cfg.NotifyCustomer,
		TestMode:       cfg.TestMode,
	}, platformClient, registry, notifier, logger, tracer)

	resolver := recon.NewResolver(platformClient, cfg.OrderNumberPrefix, logger)

	cleanup := func(ctx context.Context) {
		logger.Sync()
		if err := tracerShutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed")
		}
	}

	return &app{
		config:          cfg,
		logger:          logger,
		tracer:          tracer,
		platform:        platformClient,
		suppliers:       registry,
		supplierVendors: vendors,
		reconciler:      reconciler,
		resolver:        resolver,
		notifier:        notifier,
	}, cleanup, nil
}

// initSupplierRegistry registers every enabled supplier and returns the
// registry together with the per-supplier vendor allowlists.
func initSupplierRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*supplier.Registry, map[string][]string) {
	registry := supplier.NewRegistry()
	vendors := make(map[string][]string)

	if cfg.VidaXLEnabled {
		v := config.SplitVendors(cfg.VidaXLVendors)
		registry.Register(dropship.New(dropship.Config{
			Name:     "vidaxl",
			BaseURL:  cfg.VidaXLBaseURL,
			Email:    cfg.VidaXLEmail,
			APIToken: cfg.VidaXLAPIToken,
			Vendors:  v,
			UseMock:  cfg.VidaXLUseMock,
		}, logger, tracer))
		vendors["vidaxl"] = v
	}

	if cfg.DropXLEnabled {
		v := config.SplitVendors(cfg.DropXLVendors)
		registry.Register(dropship.New(dropship.Config{
			Name:     "dropxl",
			BaseURL:  cfg.DropXLBaseURL,
			Email:    cfg.DropXLEmail,
			APIToken: cfg.DropXLAPIToken,
			Vendors:  v,
			UseMock:  cfg.DropXLUseMock,
		}, logger, tracer))
		vendors["dropxl"] = v
	}

	return registry, vendors
}
