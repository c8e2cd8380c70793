package recon_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier/mock"
)

func testRegistry(suppliers ...*mock.Client) *supplier.Registry {
	registry := supplier.NewRegistry()
	for _, s := range suppliers {
		registry.Register(s)
	}
	return registry
}

func testReconciler(fake *fakePlatform, registry *supplier.Registry) *recon.Reconciler {
	return recon.NewReconciler(recon.Config{
		NumberPrefix:   "36",
		NotifyCustomer: true,
	}, fake, registry, recon.NopNotifier{}, nopLogger(), nil)
}

func sentOrder(id int64, ref, tracking string, skus ...string) supplier.Order {
	products := make([]supplier.Product, 0, len(skus))
	for _, sku := range skus {
		products = append(products, supplier.Product{SKU: sku, Quantity: 1})
	}
	return supplier.Order{
		ID:          id,
		Reference:   ref,
		Status:      supplier.StatusSent,
		Tracking:    tracking,
		Products:    products,
		SubmittedAt: time.Now().Add(-24 * time.Hour),
	}
}

func TestReconciler_RunSupplierCycle(t *testing.T) {
	fake := &fakePlatform{
		orders: []platform.Order{
			{
				ID:   100,
				Name: "#362673",
				LineItems: []platform.LineItem{
					{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
				},
			},
		},
		fos: map[int64]*platform.FulfillmentOrder{
			100: {
				ID: "gid://shopify/FulfillmentOrder/1",
				LineItems: []platform.FulfillmentLineItem{
					{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
				},
			},
		},
	}

	sup := mock.New("vidaxl", "vidaXL")
	sup.Seed(
		sentOrder(1, "#362673", "01475240430954", "SKU-1"),
		supplier.Order{ID: 2, Reference: "#362674", Status: supplier.StatusDraft},
		sentOrder(3, "#999999", "01475240430955", "SKU-9"),
	)

	r := testReconciler(fake, testRegistry(sup))
	report, err := r.RunCycle(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "all", report.Supplier)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Fulfilled)
	assert.Equal(t, 1, report.Skipped) // the draft order
	require.Len(t, report.Errors, 1)   // #999999 has no platform order
	assert.Equal(t, "#999999", report.Errors[0].Reference)
	assert.Equal(t, "platform order not found", report.Errors[0].Detail)
	assert.False(t, report.Errors[0].Critical)

	subs := fake.submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "DPD", subs[0].Tracking.Company)
	assert.Equal(t, []string{"01475240430954"}, subs[0].Tracking.Numbers)
}

// A two-vendor platform order where the supplier ships only its own share
// must be marked partially fulfilled, and only the supplier's line claimed.
func TestReconciler_PartialFulfillment(t *testing.T) {
	fake := &fakePlatform{
		orders: []platform.Order{
			{
				ID:   100,
				Name: "#362673",
				LineItems: []platform.LineItem{
					{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
					{ID: 2, SKU: "SKU-2", Vendor: "Keter", Quantity: 1, FulfillableQuantity: 1},
				},
			},
		},
		fos: map[int64]*platform.FulfillmentOrder{
			100: {
				ID: "gid://shopify/FulfillmentOrder/1",
				LineItems: []platform.FulfillmentLineItem{
					{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
					{ID: "fo-li-2", SKU: "SKU-2", Vendor: "Keter", RemainingQuantity: 1},
				},
			},
		},
	}

	sup := mock.New("vidaxl", "vidaXL")
	sup.Seed(sentOrder(1, "#362673", "01475240430954", "SKU-1"))

	r := testReconciler(fake, testRegistry(sup))
	report, err := r.RunSupplierCycle(context.Background(), "vidaxl", 7)

	require.NoError(t, err)
	assert.Equal(t, "vidaxl", report.Supplier)
	assert.Equal(t, 1, report.PartiallyFulfilled)
	assert.Zero(t, report.Fulfilled)

	subs := fake.submissions()
	require.Len(t, subs, 1)
	require.Len(t, subs[0].LineItems, 1)
	assert.Equal(t, "fo-li-1", subs[0].LineItems[0].ID)
}

// Two supplier orders with the same reference in one page must fulfill
// the platform order exactly once.
func TestReconciler_DuplicateReferencesDeduped(t *testing.T) {
	fake := &fakePlatform{
		orders: []platform.Order{
			{
				ID:   100,
				Name: "#362673",
				LineItems: []platform.LineItem{
					{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
				},
			},
		},
		fos: map[int64]*platform.FulfillmentOrder{
			100: {
				ID: "gid://shopify/FulfillmentOrder/1",
				LineItems: []platform.FulfillmentLineItem{
					{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
				},
			},
		},
	}

	sup := mock.New("vidaxl", "vidaXL")
	sup.Seed(
		sentOrder(1, "#362673", "01475240430954", "SKU-1"),
		sentOrder(2, "#362673", "01475240430954", "SKU-1"),
	)

	r := testReconciler(fake, testRegistry(sup))
	report, err := r.RunSupplierCycle(context.Background(), "vidaxl", 7)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Len(t, fake.submissions(), 1)
}

func TestReconciler_ListFailureAbortsCycle(t *testing.T) {
	sup := mock.New("vidaxl", "vidaXL")
	sup.ListErr = errors.New("portal down")

	r := testReconciler(&fakePlatform{}, testRegistry(sup))

	_, err := r.RunCycle(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "portal down")
}

func TestReconciler_UnknownSupplier(t *testing.T) {
	r := testReconciler(&fakePlatform{}, testRegistry())

	_, err := r.RunSupplierCycle(context.Background(), "nosuch", 7)
	assert.ErrorIs(t, err, supplier.ErrSupplierNotFound)
}

func TestReconciler_TestModeSubmitsNothing(t *testing.T) {
	fake := &fakePlatform{
		orders: []platform.Order{
			{
				ID:   100,
				Name: "#362673",
				LineItems: []platform.LineItem{
					{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
				},
			},
		},
		fos: map[int64]*platform.FulfillmentOrder{
			100: {
				ID: "gid://shopify/FulfillmentOrder/1",
				LineItems: []platform.FulfillmentLineItem{
					{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
				},
			},
		},
	}

	sup := mock.New("vidaxl", "vidaXL")
	sup.Seed(sentOrder(1, "#362673", "01475240430954", "SKU-1"))

	r := recon.NewReconciler(recon.Config{
		NumberPrefix: "36",
		TestMode:     true,
	}, fake, testRegistry(sup), recon.NopNotifier{}, nopLogger(), nil)

	report, err := r.RunSupplierCycle(context.Background(), "vidaxl", 7)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Fulfilled)
	assert.Empty(t, fake.submissions())
}

// The notifier only fires when the cycle actually did or found something.
func TestReconciler_NotifierReceivesReport(t *testing.T) {
	fake := &fakePlatform{
		orders: []platform.Order{
			{
				ID:   100,
				Name: "#362673",
				LineItems: []platform.LineItem{
					{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
				},
			},
		},
		fos: map[int64]*platform.FulfillmentOrder{
			100: {
				ID: "gid://shopify/FulfillmentOrder/1",
				LineItems: []platform.FulfillmentLineItem{
					{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
				},
			},
		},
	}

	sup := mock.New("vidaxl", "vidaXL")
	sup.Seed(sentOrder(1, "#362673", "01475240430954", "SKU-1"))

	notifier := &recordingNotifier{}
	r := recon.NewReconciler(recon.Config{NumberPrefix: "36"},
		fake, testRegistry(sup), notifier, nopLogger(), nil)

	_, err := r.RunSupplierCycle(context.Background(), "vidaxl", 7)

	require.NoError(t, err)
	require.Len(t, notifier.reports, 1)
	assert.Equal(t, "vidaxl", notifier.reports[0].Supplier)
}

func TestReconciler_QuietCycleSendsNoReport(t *testing.T) {
	sup := mock.New("vidaxl", "vidaXL")

	notifier := &recordingNotifier{}
	r := recon.NewReconciler(recon.Config{NumberPrefix: "36"},
		&fakePlatform{}, testRegistry(sup), notifier, nopLogger(), nil)

	_, err := r.RunSupplierCycle(context.Background(), "vidaxl", 7)

	require.NoError(t, err)
	assert.Empty(t, notifier.reports)
}

type recordingNotifier struct {
	reports  []*recon.BatchReport
	failures []string
}

func (n *recordingNotifier) SyncReport(ctx context.Context, report *recon.BatchReport) error {
	n.reports = append(n.reports, report)
	return nil
}

func (n *recordingNotifier) Failure(ctx context.Context, subject, detail string) error {
	n.failures = append(n.failures, subject)
	return nil
}
