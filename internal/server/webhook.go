package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// webhookOrder is the Shopify order payload delivered on order webhooks.
type webhookOrder struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Note            string            `json:"note"`
	LineItems       []webhookLineItem `json:"line_items"`
	ShippingAddress *webhookAddress   `json:"shipping_address"`
}

type webhookLineItem struct {
	ID                  int64  `json:"id"`
	SKU                 string `json:"sku"`
	Vendor              string `json:"vendor"`
	Title               string `json:"title"`
	Quantity            int    `json:"quantity"`
	FulfillableQuantity int    `json:"fulfillable_quantity"`
}

type webhookAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Zip         string `json:"zip"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// verifyWebhookSignature checks the Shopify HMAC header against the raw body.
func verifyWebhookSignature(body []byte, header, secret string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}

// handleOrderWebhook receives a Shopify order and forwards the supplier's
// share of it as a drop-ship order. Supplier failures are reported by email
// but still acknowledged with 200, so Shopify does not retry endlessly.
func (s *Server) handleOrderWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supplierName := r.PathValue("supplier")

	sup, err := s.suppliers.Get(supplierName)
	if err != nil {
		s.metrics.RecordWebhook(supplierName, "unknown_supplier")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown supplier: " + supplierName})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 2<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading body: " + err.Error()})
		return
	}

	if !verifyWebhookSignature(body, r.Header.Get("X-Shopify-Hmac-Sha256"), s.config.WebhookSecret) {
		s.metrics.RecordWebhook(supplierName, "invalid_signature")
		s.logger.Ctx(ctx).Warn("webhook signature verification failed",
			zap.String("supplier", supplierName))
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid webhook signature"})
		return
	}

	var order webhookOrder
	if err := json.Unmarshal(body, &order); err != nil {
		s.metrics.RecordWebhook(supplierName, "bad_payload")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	// Order updates fire on every edit; only a RETRY command in the order
	// note turns one into a resubmission.
	if r.Header.Get("X-Shopify-Topic") == "orders/updated" &&
		!strings.Contains(strings.ToUpper(order.Note), "RETRY") {
		s.metrics.RecordWebhook(supplierName, "ignored_update")
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("update to order %s ignored, no retry command", order.Name),
		})
		return
	}

	vendors := s.config.SupplierVendors[supplierName]
	eligible, counts := recon.FilterLineItems(toPlatformItems(order.LineItems), vendors)

	logger := s.logger.Ctx(ctx)
	logger.Info("order webhook received",
		zap.String("supplier", supplierName),
		zap.String("order", order.Name),
		zap.Int("eligible", len(eligible)),
		zap.Int("foreign_vendor", counts.ForeignVendor),
		zap.Int("refunded", counts.Inactive),
		zap.Int("no_sku", counts.NoSKU))

	if len(eligible) == 0 {
		s.metrics.RecordWebhook(supplierName, "no_items")
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("no %s items on order %s", supplierName, order.Name),
		})
		return
	}

	req := buildSupplierOrder(&order, eligible, s.config.CompanyPhone)
	resp, err := sup.CreateOrder(ctx, req)
	if err != nil {
		s.metrics.RecordWebhook(supplierName, "supplier_error")
		s.metrics.RecordSupplierError(supplierName, "create_order")
		logger.Error("supplier order creation failed",
			zap.String("supplier", supplierName),
			zap.String("order", order.Name),
			zap.Error(err))
		subject := fmt.Sprintf("Ordre FEJLEDE: %s til %s", order.Name, supplierName)
		if notifyErr := s.notifier.Failure(ctx, subject, err.Error()); notifyErr != nil {
			logger.Error("failure notification not sent", zap.Error(notifyErr))
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "supplier order failed, alert sent",
			"error":   err.Error(),
		})
		return
	}

	s.metrics.RecordWebhook(supplierName, "created")
	logger.Info("supplier order created",
		zap.String("supplier", supplierName),
		zap.String("order", order.Name),
		zap.Int64("supplier_order_id", resp.OrderID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "supplier order created",
		"supplier_order_id": resp.OrderID,
	})
}

func toPlatformItems(items []webhookLineItem) []platform.LineItem {
	out := make([]platform.LineItem, 0, len(items))
	for _, li := range items {
		out = append(out, platform.LineItem{
			ID:                  li.ID,
			SKU:                 li.SKU,
			Vendor:              li.Vendor,
			Name:                li.Title,
			Quantity:            li.Quantity,
			FulfillableQuantity: li.FulfillableQuantity,
		})
	}
	return out
}

// buildSupplierOrder maps a Shopify order onto a supplier order request.
// Every product line carries its own address entry, and a company phone
// stands in when the customer left none.
func buildSupplierOrder(order *webhookOrder, items []platform.LineItem, fallbackPhone string) *supplier.CreateOrderRequest {
	addr := supplier.AddressBook{Phone: fallbackPhone, Email: order.Email}
	country := ""
	if sa := order.ShippingAddress; sa != nil {
		addr = supplier.AddressBook{
			Name:       strings.TrimSpace(sa.FirstName + " " + sa.LastName),
			Address:    sa.Address1,
			Address2:   sa.Address2,
			City:       sa.City,
			Province:   sa.Province,
			PostalCode: sa.Zip,
			Country:    sa.CountryCode,
			Email:      order.Email,
			Phone:      sa.Phone,
			Comments:   order.Note,
		}
		if addr.Phone == "" {
			addr.Phone = fallbackPhone
		}
		country = sa.CountryCode
	}

	products := make([]supplier.OrderProduct, 0, len(items))
	for _, li := range items {
		products = append(products, supplier.OrderProduct{
			SKU:      li.SKU,
			Quantity: li.Quantity,
			Address:  addr,
		})
	}

	return &supplier.CreateOrderRequest{
		Reference: order.Name,
		Country:   country,
		Products:  products,
	}
}
