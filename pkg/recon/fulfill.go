package recon

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// FulfillerConfig holds fulfillment submission options.
type FulfillerConfig struct {
	// NotifyCustomer tells the platform to send the customer a shipping
	// confirmation when the fulfillment is created.
	NotifyCustomer bool

	// TestMode logs what would be submitted without calling the platform.
	TestMode bool
}

// Fulfiller applies reconciliation decisions to platform orders. Per order
// and per cycle it submits at most one fulfillment request: an order that
// is already fulfilled, or that this cycle already submitted for, is
// skipped rather than re-submitted.
type Fulfiller struct {
	config   FulfillerConfig
	platform platform.Client
	logger   *otelzap.Logger

	mu        sync.Mutex
	submitted map[int64]bool
}

// NewFulfiller creates a fulfiller for one reconciliation cycle. The
// duplicate-submission guard is scoped to the fulfiller's lifetime, so a
// fresh one must be created per cycle.
func NewFulfiller(cfg FulfillerConfig, client platform.Client, logger *otelzap.Logger) *Fulfiller {
	return &Fulfiller{
		config:    cfg,
		platform:  client,
		logger:    logger,
		submitted: make(map[int64]bool),
	}
}

// reserve claims the one fulfillment slot for a platform order this cycle.
func (f *Fulfiller) reserve(orderID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted[orderID] {
		return false
	}
	f.submitted[orderID] = true
	return true
}

// Apply runs the fulfillment transition for one resolved platform order.
//
// vendors is the supplier's brand allowlist, supplierSKUs the SKU set the
// supplier shipped, analysis the order-level partial classification, and
// shipment the normalized tracking record to attach. The returned Result
// is always non-nil; remote failures come back as KindError, never as a
// panic or partial state.
func (f *Fulfiller) Apply(ctx context.Context, order *platform.Order, vendors, supplierSKUs []string, analysis PartialAnalysis, shipment TrackingShipment) *Result {
	if order.FulfillmentStatus == platform.StatusFulfilled {
		f.logger.Info("Order already fulfilled, skipping",
			zap.String("order", order.Name),
		)
		return &Result{Kind: KindSkipped, Detail: "order already fulfilled"}
	}

	if !f.reserve(order.ID) {
		f.logger.Warn("Duplicate fulfillment attempt within cycle, skipping",
			zap.String("order", order.Name),
			zap.Int64("order_id", order.ID),
		)
		return &Result{Kind: KindSkipped, Detail: ErrAlreadySubmitted.Error()}
	}

	fo, err := f.platform.FulfillableLineItems(ctx, order.ID)
	if err != nil {
		return &Result{
			Kind:   KindError,
			Detail: fmt.Sprintf("fetching fulfillment order: %v", err),
		}
	}

	claimable, skippedForeign := ClaimableItems(fo.LineItems, vendors, supplierSKUs)
	if len(claimable) == 0 {
		return &Result{Kind: KindError, Detail: ErrNoClaimableItems.Error()}
	}

	isPartial := analysis.IsPartial || skippedForeign > 0
	kind := KindFulfilled
	if isPartial {
		kind = KindPartiallyFulfilled
		f.logger.Info("Partial fulfillment",
			zap.String("order", order.Name),
			zap.Int("claimable", len(claimable)),
			zap.Int("skipped", skippedForeign),
			zap.Strings("missing_skus", analysis.MissingSKUs),
		)
	}

	if f.config.TestMode {
		f.logger.Info("TEST MODE: would submit fulfillment",
			zap.String("order", order.Name),
			zap.String("carrier", shipment.Carrier),
			zap.Strings("tracking", shipment.Numbers),
		)
		return &Result{
			Kind:           kind,
			Detail:         "test mode, not submitted",
			ItemsFulfilled: len(claimable),
			ItemsTotal:     len(fo.LineItems),
		}
	}

	req := &platform.FulfillmentRequest{
		OrderID:            order.ID,
		FulfillmentOrderID: fo.ID,
		LineItems:          make([]platform.FulfillmentRequestItem, 0, len(claimable)),
		NotifyCustomer:     f.config.NotifyCustomer,
		Tracking: platform.TrackingInfo{
			Company: shipment.Carrier,
			Numbers: shipment.Numbers,
			URLs:    shipment.URLs,
		},
	}
	for _, item := range claimable {
		req.LineItems = append(req.LineItems, platform.FulfillmentRequestItem{
			ID:       item.ID,
			Quantity: item.RemainingQuantity,
		})
	}

	fulfillmentID, err := f.platform.SubmitFulfillment(ctx, req)
	if err != nil {
		var rejection *platform.RejectionError
		if errors.As(err, &rejection) {
			// Surface the platform's detail verbatim; operators need the
			// exact product the platform refused.
			return &Result{Kind: KindError, Detail: rejection.Detail}
		}
		return &Result{
			Kind:   KindError,
			Detail: fmt.Sprintf("submitting fulfillment: %v", err),
		}
	}

	f.logger.Info("Fulfillment created",
		zap.String("order", order.Name),
		zap.String("fulfillment_id", fulfillmentID),
		zap.String("carrier", shipment.Carrier),
		zap.Int("items", len(claimable)),
	)

	return &Result{
		Kind:           kind,
		FulfillmentID:  fulfillmentID,
		ItemsFulfilled: len(claimable),
		ItemsTotal:     len(fo.LineItems),
	}
}
