package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/internal/server"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "boligretning-webhooks",
	Short:   "BoligRetning fulfillment service - drop-ship order sync and webhooks",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var syncCmd = &cobra.Command{
	Use:   "sync [supplier]",
	Short: "Run one reconciliation cycle and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSync,
}

var retryCmd = &cobra.Command{
	Use:   "retry <order> <supplier>",
	Short: "Resubmit one order to a supplier",
	Args:  cobra.ExactArgs(2),
	RunE:  runRetry,
}

var syncWindowDays int

func init() {
	syncCmd.Flags().IntVar(&syncWindowDays, "window-days", 0,
		"override the lookback window in days")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(retryCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	app.logger.Info("Starting BoligRetning fulfillment service",
		zap.Int("port", app.config.Port),
		zap.String("version", version),
		zap.Bool("test_mode", app.config.TestMode),
	)

	srv := server.New(server.Config{
		Port:            app.config.Port,
		WebhookSecret:   app.config.ShopifyWebhookSecret,
		CronSecret:      app.config.CronSecret,
		CompanyPhone:    app.config.CompanyPhone,
		WindowDays:      app.config.SyncWindowDays,
		SupplierVendors: app.supplierVendors,
	}, app.reconciler, app.suppliers, app.platform, app.resolver, app.notifier, app.logger)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	windowDays := app.config.SyncWindowDays
	if syncWindowDays > 0 {
		windowDays = syncWindowDays
	}

	var report *recon.BatchReport
	if len(args) == 1 {
		report, err = app.reconciler.RunSupplierCycle(ctx, args[0], windowDays)
	} else {
		report, err = app.reconciler.RunCycle(ctx, windowDays)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	app.logger.Info("Sync finished",
		zap.String("supplier", report.Supplier),
		zap.Int("processed", report.Processed),
		zap.Int("fulfilled", report.Fulfilled),
		zap.Int("partially_fulfilled", report.PartiallyFulfilled),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
	)
	if n := report.CriticalCount(); n > 0 {
		return fmt.Errorf("%d critical order mismatch(es), check the report email", n)
	}
	return nil
}

func runRetry(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	orderRef, supplierName := args[0], args[1]

	app, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	sup, err := app.suppliers.Get(supplierName)
	if err != nil {
		return err
	}

	order, err := app.resolver.Resolve(ctx, orderRef)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderRef, err)
	}

	eligible, counts := recon.FilterLineItems(order.LineItems, app.supplierVendors[supplierName])
	if len(eligible) == 0 {
		return fmt.Errorf("no %s items left on order %s (%d foreign, %d refunded, %d without SKU)",
			supplierName, order.Name, counts.ForeignVendor, counts.Inactive, counts.NoSKU)
	}

	resp, err := sup.CreateOrder(ctx, recon.BuildSupplierOrder(order, eligible, app.config.CompanyPhone))
	if err != nil {
		return fmt.Errorf("resubmitting %s to %s: %w", order.Name, supplierName, err)
	}

	app.logger.Info("Order resubmitted",
		zap.String("order", order.Name),
		zap.String("supplier", supplierName),
		zap.Int64("supplier_order_id", resp.OrderID),
		zap.Int("products", len(eligible)),
	)
	return nil
}
