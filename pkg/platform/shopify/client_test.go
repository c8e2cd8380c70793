package shopify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform/shopify"
)

func newTestClient(mockClient *shopify.MockAPIClient) *shopify.Client {
	logger := otelzap.New(zap.NewNop())
	return shopify.NewWithAPIClient(
		shopify.Config{},
		mockClient,
		logger,
		nil,
	)
}

func TestClient_FindOrdersByName_Success(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	orders, err := client.FindOrdersByName(context.Background(), "#362673")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "#362673", orders[0].Name)
	assert.Equal(t, "kunde@example.dk", orders[0].Email)
	require.Len(t, orders[0].LineItems, 2)
	assert.Equal(t, "vidaXL", orders[0].LineItems[0].Vendor)
}

func TestClient_FindOrdersByName_NoMatch(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	orders, err := client.FindOrdersByName(context.Background(), "#999999")

	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestClient_FindOrdersByName_APIError(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.FindOrdersByName(context.Background(), "#362673")
	assert.Error(t, err)
}

func TestClient_GetOrderByID_Success(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	order, err := client.GetOrderByID(context.Background(), "5580000000001")

	require.NoError(t, err)
	assert.Equal(t, "#362673", order.Name)
	assert.Equal(t, platform.StatusUnfulfilled, order.FulfillmentStatus)
}

func TestClient_GetOrderByID_NotFound(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.GetOrderByID(context.Background(), "1")
	assert.ErrorIs(t, err, platform.ErrOrderNotFound)
}

func TestClient_FulfillableLineItems_Success(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	fo, err := client.FulfillableLineItems(context.Background(), 5580000000001)

	require.NoError(t, err)
	assert.NotEmpty(t, fo.ID)
	require.Len(t, fo.LineItems, 2)
	assert.Equal(t, "8718475508556", fo.LineItems[0].SKU)
	assert.Equal(t, 1, fo.LineItems[0].RemainingQuantity)
}

func TestClient_FulfillableLineItems_NoneOpen(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	mockAPI.OnFulfillmentOrders = func(ctx context.Context, orderGID string) (*shopify.FulfillmentOrdersPayload, error) {
		return &shopify.FulfillmentOrdersPayload{}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.FulfillableLineItems(context.Background(), 5580000000001)
	assert.ErrorIs(t, err, platform.ErrNoFulfillmentOrders)
}

func TestClient_SubmitFulfillment_Success(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	client := newTestClient(mockAPI)

	id, err := client.SubmitFulfillment(context.Background(), &platform.FulfillmentRequest{
		OrderID:            5580000000001,
		FulfillmentOrderID: "gid://shopify/FulfillmentOrder/1",
		LineItems: []platform.FulfillmentRequestItem{
			{ID: "gid://shopify/FulfillmentOrderLineItem/1", Quantity: 1},
		},
		NotifyCustomer: true,
		Tracking: platform.TrackingInfo{
			Company: "DPD",
			Numbers: []string{"01475240430954"},
			URLs:    []string{"https://tracking.dpd.de/parcelstatus?query=01475240430954"},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, mockAPI.CreatedFulfillments, 1)
	input := mockAPI.CreatedFulfillments[0]
	assert.True(t, input.NotifyCustomer)
	assert.Equal(t, "DPD", input.TrackingInfo.Company)
	require.Len(t, input.LineItemsByFulfillmentOrder, 1)
	assert.Equal(t, "gid://shopify/FulfillmentOrder/1", input.LineItemsByFulfillmentOrder[0].FulfillmentOrderID)
}

func TestClient_SubmitFulfillment_UserErrorsRejected(t *testing.T) {
	mockAPI := shopify.NewMockAPIClient()
	mockAPI.OnCreateFulfillment = func(ctx context.Context, input shopify.FulfillmentV2Input) (*shopify.FulfillmentCreatePayload, error) {
		return &shopify.FulfillmentCreatePayload{
			UserErrors: []shopify.UserError{
				{Field: []string{"lineItems"}, Message: "invalid quantity"},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.SubmitFulfillment(context.Background(), &platform.FulfillmentRequest{
		OrderID:            5580000000001,
		FulfillmentOrderID: "gid://shopify/FulfillmentOrder/1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrFulfillmentRejected)

	var rejection *platform.RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Contains(t, rejection.Detail, "invalid quantity")
}
