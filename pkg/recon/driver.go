package recon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds reconciliation settings.
type Config struct {
	// WindowDays is how far back to list supplier orders. Test mode
	// narrows it to one day.
	WindowDays int

	// NumberPrefix is the store's order-number sequence prefix, used to
	// recognize name-shaped references (see Resolver).
	NumberPrefix string

	// Concurrency bounds how many supplier orders reconcile in parallel.
	Concurrency int

	// NotifyCustomer is forwarded to fulfillment submissions.
	NotifyCustomer bool

	// TestMode runs the full pipeline but submits nothing.
	TestMode bool
}

// Reconciler orchestrates reconciliation cycles: it lists supplier orders,
// resolves each to a platform order, and drives the order through
// filtering, partial analysis, tracking normalization and fulfillment.
// Failures are isolated per order; one bad order never aborts the batch.
type Reconciler struct {
	config    Config
	platform  platform.Client
	suppliers *supplier.Registry
	resolver  *Resolver
	notifier  Notifier
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// NewReconciler creates a reconciler. tracer may be nil.
func NewReconciler(cfg Config, client platform.Client, suppliers *supplier.Registry, notifier Notifier, logger *otelzap.Logger, tracer trace.Tracer) *Reconciler {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Reconciler{
		config:    cfg,
		platform:  client,
		suppliers: suppliers,
		resolver:  NewResolver(client, cfg.NumberPrefix, logger),
		notifier:  notifier,
		logger:    logger,
		tracer:    tracer,
	}
}

// windowStart computes the listing cutoff. Test mode only looks one day
// back so a test run can't touch the whole week's orders.
func (r *Reconciler) windowStart(windowDays int) time.Time {
	days := windowDays
	if days <= 0 {
		days = r.config.WindowDays
	}
	if r.config.TestMode {
		days = 1
	}
	return time.Now().AddDate(0, 0, -days)
}

// RunCycle reconciles all registered suppliers and returns one combined
// report. Only a failure to list supplier orders aborts the cycle; every
// per-order failure lands in the report instead.
func (r *Reconciler) RunCycle(ctx context.Context, windowDays int) (*BatchReport, error) {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "recon.RunCycle")
		defer span.End()
	}

	since := r.windowStart(windowDays)
	r.logger.Info("Reconciliation cycle started",
		zap.Time("since", since),
		zap.Strings("suppliers", r.suppliers.Names()),
		zap.Bool("test_mode", r.config.TestMode),
	)

	ordersBySupplier, listErrs := r.suppliers.ListAllOrders(ctx, since)
	if len(listErrs) > 0 {
		err := errors.Join(listErrs...)
		r.notifyFailure(ctx, "Supplier order listing failed", err.Error())
		return nil, fmt.Errorf("listing supplier orders: %w", err)
	}

	report := &BatchReport{Supplier: "all", StartedAt: time.Now()}
	fulfiller := NewFulfiller(FulfillerConfig{
		NotifyCustomer: r.config.NotifyCustomer,
		TestMode:       r.config.TestMode,
	}, r.platform, r.logger)

	names := make([]string, 0, len(ordersBySupplier))
	for name := range ordersBySupplier {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sup, err := r.suppliers.Get(name)
		if err != nil {
			continue
		}
		r.processSupplier(ctx, report, fulfiller, sup, ordersBySupplier[name])
	}

	r.finish(ctx, report)
	return report, nil
}

// RunSupplierCycle reconciles a single supplier's recent orders.
func (r *Reconciler) RunSupplierCycle(ctx context.Context, name string, windowDays int) (*BatchReport, error) {
	sup, err := r.suppliers.Get(name)
	if err != nil {
		return nil, err
	}

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "recon.RunSupplierCycle",
			trace.WithAttributes(attribute.String("supplier", name)))
		defer span.End()
	}

	since := r.windowStart(windowDays)
	orders, err := sup.ListOrders(ctx, since)
	if err != nil {
		r.notifyFailure(ctx, fmt.Sprintf("%s order listing failed", name), err.Error())
		return nil, fmt.Errorf("listing %s orders: %w", name, err)
	}

	r.logger.Info("Reconciliation cycle started",
		zap.String("supplier", name),
		zap.Int("orders", len(orders)),
		zap.Time("since", since),
	)

	report := &BatchReport{Supplier: name, StartedAt: time.Now()}
	fulfiller := NewFulfiller(FulfillerConfig{
		NotifyCustomer: r.config.NotifyCustomer,
		TestMode:       r.config.TestMode,
	}, r.platform, r.logger)

	r.processSupplier(ctx, report, fulfiller, sup, orders)
	r.finish(ctx, report)
	return report, nil
}

// processSupplier runs one supplier's orders through the pipeline,
// bounded-parallel across orders. Orders sharing a reference within the
// page are deduplicated first; the fulfiller additionally guards against
// two references resolving to the same platform order.
func (r *Reconciler) processSupplier(ctx context.Context, report *BatchReport, fulfiller *Fulfiller, sup supplier.Supplier, orders []supplier.Order) {
	orders = dedupeByReference(orders)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i := range orders {
		order := orders[i]

		// Cancellation takes effect between orders, never mid-order.
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			res := r.processOrder(gctx, fulfiller, sup, &order)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			switch res.Kind {
			case KindFulfilled:
				report.Fulfilled++
			case KindPartiallyFulfilled:
				report.PartiallyFulfilled++
			case KindSkipped:
				report.Skipped++
			case KindError, KindCriticalMismatch:
				report.Errors = append(report.Errors, OrderError{
					Supplier:      sup.Name(),
					SupplierOrder: supplierOrderRef(&order),
					Reference:     order.Reference,
					Detail:        res.Detail,
					Critical:      res.Kind == KindCriticalMismatch,
				})
			}
			return nil
		})
	}

	g.Wait()
}

// processOrder runs the full per-order pipeline: eligibility, identity
// resolution and verification, partial analysis, tracking normalization,
// fulfillment. The two remote calls (lookup, then fulfill) stay sequential
// so the state read is never stale when the submission lands.
func (r *Reconciler) processOrder(ctx context.Context, fulfiller *Fulfiller, sup supplier.Supplier, order *supplier.Order) *Result {
	log := r.logger.With(
		zap.String("supplier", sup.Name()),
		zap.String("reference", order.Reference),
	)

	if order.Status != supplier.StatusSent || order.Tracking == "" {
		log.Debug("Skipping order", zap.String("status", string(order.Status)))
		return &Result{Kind: KindSkipped, Detail: fmt.Sprintf("status %s, no action", order.Status)}
	}

	log.Info("Processing supplier order",
		zap.String("tracking", order.Tracking),
		zap.String("carrier_hint", order.CarrierHint),
	)

	platformOrder, err := r.resolver.Resolve(ctx, order.Reference)
	if err != nil {
		if errors.Is(err, platform.ErrOrderNotFound) || errors.Is(err, ErrAmbiguousMatch) {
			return &Result{Kind: KindError, Detail: "platform order not found"}
		}
		return &Result{Kind: KindError, Detail: err.Error()}
	}

	if err := r.resolver.Verify(platformOrder, order.Reference); err != nil {
		log.Error("ORDER MISMATCH DETECTED, stopping this order",
			zap.String("resolved", platformOrder.Name),
		)
		return &Result{Kind: KindCriticalMismatch, Detail: err.Error()}
	}

	skus := order.SKUs()
	analysis := AnalyzePartial(platformOrder.LineItems, skus)

	hint := order.CarrierHint
	if hint == "" {
		hint = DetectCarrierFromURL(order.TrackingURL)
	}
	shipment := NormalizeTracking(order.Tracking, hint, order.TrackingURL)

	return fulfiller.Apply(ctx, platformOrder, sup.Vendors(), skus, analysis, shipment)
}

// finish stamps the report and ships it to operators when it says anything.
func (r *Reconciler) finish(ctx context.Context, report *BatchReport) {
	report.FinishedAt = time.Now()

	r.logger.Info("Reconciliation cycle complete",
		zap.String("supplier", report.Supplier),
		zap.Int("processed", report.Processed),
		zap.Int("fulfilled", report.Fulfilled),
		zap.Int("partially_fulfilled", report.PartiallyFulfilled),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
		zap.Int("critical", report.CriticalCount()),
	)

	if report.HasUpdates() {
		if err := r.notifier.SyncReport(ctx, report); err != nil {
			r.logger.Warn("Failed to send sync report", zap.Error(err))
		}
	}
}

func (r *Reconciler) notifyFailure(ctx context.Context, subject, detail string) {
	if err := r.notifier.Failure(ctx, subject, detail); err != nil {
		r.logger.Warn("Failed to send failure notification", zap.Error(err))
	}
}

// dedupeByReference drops repeated references within one listing page,
// keeping the first occurrence. Submitting twice for the same platform
// order would double-fulfill it.
func dedupeByReference(orders []supplier.Order) []supplier.Order {
	seen := make(map[string]struct{}, len(orders))
	out := orders[:0:0]
	for _, o := range orders {
		if o.Reference != "" {
			if _, dup := seen[o.Reference]; dup {
				continue
			}
			seen[o.Reference] = struct{}{}
		}
		out = append(out, o)
	}
	return out
}

func supplierOrderRef(o *supplier.Order) string {
	if o.Number != "" {
		return o.Number
	}
	return strconv.FormatInt(o.ID, 10)
}
