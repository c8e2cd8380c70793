package recon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

func testOrder() *platform.Order {
	return &platform.Order{
		ID:   100,
		Name: "#362673",
		LineItems: []platform.LineItem{
			{ID: 1, SKU: "SKU-1", Vendor: "vidaXL", Quantity: 1, FulfillableQuantity: 1},
		},
	}
}

func testFulfillmentOrder() *platform.FulfillmentOrder {
	return &platform.FulfillmentOrder{
		ID:     "gid://shopify/FulfillmentOrder/1",
		Status: "OPEN",
		LineItems: []platform.FulfillmentLineItem{
			{ID: "fo-li-1", SKU: "SKU-1", Vendor: "vidaXL", RemainingQuantity: 1},
		},
	}
}

func testShipment() recon.TrackingShipment {
	return recon.TrackingShipment{
		Carrier: "DPD",
		Numbers: []string{"01475240430954"},
		URLs:    []string{"https://tracking.dpd.de/parcelstatus?query=01475240430954"},
	}
}

func TestFulfiller_Apply_Fulfilled(t *testing.T) {
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()}}
	f := recon.NewFulfiller(recon.FulfillerConfig{NotifyCustomer: true}, fake, nopLogger())

	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindFulfilled, res.Kind)
	assert.Equal(t, 1, res.ItemsFulfilled)
	assert.Equal(t, 1, res.ItemsTotal)
	assert.NotEmpty(t, res.FulfillmentID)

	subs := fake.submissions()
	require.Len(t, subs, 1)
	assert.True(t, subs[0].NotifyCustomer)
	assert.Equal(t, "DPD", subs[0].Tracking.Company)
	require.Len(t, subs[0].LineItems, 1)
	assert.Equal(t, "fo-li-1", subs[0].LineItems[0].ID)
	assert.Equal(t, 1, subs[0].LineItems[0].Quantity)
}

func TestFulfiller_Apply_PartialWhenSKUsMissing(t *testing.T) {
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()}}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{IsPartial: true, MissingSKUs: []string{"SKU-2"}}, testShipment())

	assert.Equal(t, recon.KindPartiallyFulfilled, res.Kind)
}

func TestFulfiller_Apply_PartialWhenItemsLeftForOthers(t *testing.T) {
	fo := testFulfillmentOrder()
	fo.LineItems = append(fo.LineItems, platform.FulfillmentLineItem{
		ID: "fo-li-2", SKU: "SKU-2", Vendor: "SomeoneElse", RemainingQuantity: 1,
	})
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: fo}}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindPartiallyFulfilled, res.Kind)
	assert.Equal(t, 1, res.ItemsFulfilled)
	assert.Equal(t, 2, res.ItemsTotal)
}

func TestFulfiller_Apply_AlreadyFulfilledSkipped(t *testing.T) {
	fake := &fakePlatform{}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	order := testOrder()
	order.FulfillmentStatus = platform.StatusFulfilled

	res := f.Apply(context.Background(), order, []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindSkipped, res.Kind)
	assert.Empty(t, fake.submissions())
}

// Two supplier orders referencing the same platform order within one cycle
// must produce exactly one submission.
func TestFulfiller_Apply_AtMostOncePerCycle(t *testing.T) {
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()}}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	first := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())
	second := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindFulfilled, first.Kind)
	assert.Equal(t, recon.KindSkipped, second.Kind)
	assert.Len(t, fake.submissions(), 1)
}

func TestFulfiller_Apply_NoClaimableItems(t *testing.T) {
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()}}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	// the supplier shipped a SKU the order does not hold
	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-OTHER"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindError, res.Kind)
	assert.Empty(t, fake.submissions())
}

func TestFulfiller_Apply_RejectionDetailVerbatim(t *testing.T) {
	fake := &fakePlatform{
		fos:       map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()},
		submitErr: &platform.RejectionError{Detail: `[{"field":"lineItems","message":"invalid quantity"}]`},
	}
	f := recon.NewFulfiller(recon.FulfillerConfig{}, fake, nopLogger())

	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindError, res.Kind)
	assert.Equal(t, `[{"field":"lineItems","message":"invalid quantity"}]`, res.Detail)
}

func TestFulfiller_Apply_TestModeSubmitsNothing(t *testing.T) {
	fake := &fakePlatform{fos: map[int64]*platform.FulfillmentOrder{100: testFulfillmentOrder()}}
	f := recon.NewFulfiller(recon.FulfillerConfig{TestMode: true}, fake, nopLogger())

	res := f.Apply(context.Background(), testOrder(), []string{"vidaXL"}, []string{"SKU-1"},
		recon.PartialAnalysis{}, testShipment())

	assert.Equal(t, recon.KindFulfilled, res.Kind)
	assert.Empty(t, fake.submissions())
}
