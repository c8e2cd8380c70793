package recon_test

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
)

func nopLogger() *otelzap.Logger {
	return otelzap.New(zap.NewNop())
}

// fakePlatform is a scriptable platform.Client. Its name search returns
// prefix matches, like the real platform's search, so resolver tests can
// exercise near-miss candidates.
type fakePlatform struct {
	orders    []platform.Order
	fos       map[int64]*platform.FulfillmentOrder
	submitErr error

	mu        sync.Mutex
	submitted []*platform.FulfillmentRequest
}

func (f *fakePlatform) FindOrdersByName(ctx context.Context, name string) ([]platform.Order, error) {
	prefix := strings.TrimPrefix(name, "#")
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}

	var out []platform.Order
	for _, o := range f.orders {
		if strings.HasPrefix(strings.TrimPrefix(o.Name, "#"), prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakePlatform) GetOrderByID(ctx context.Context, id string) (*platform.Order, error) {
	for i := range f.orders {
		if strconv.FormatInt(f.orders[i].ID, 10) == id {
			return &f.orders[i], nil
		}
	}
	return nil, platform.ErrOrderNotFound
}

func (f *fakePlatform) FulfillableLineItems(ctx context.Context, orderID int64) (*platform.FulfillmentOrder, error) {
	if fo, ok := f.fos[orderID]; ok {
		return fo, nil
	}
	return nil, platform.ErrNoFulfillmentOrders
}

func (f *fakePlatform) SubmitFulfillment(ctx context.Context, req *platform.FulfillmentRequest) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	return "gid://shopify/Fulfillment/test", nil
}

func (f *fakePlatform) submissions() []*platform.FulfillmentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*platform.FulfillmentRequest(nil), f.submitted...)
}
