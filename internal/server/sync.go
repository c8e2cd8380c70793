package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

// authorize checks the bearer token on scheduler and operator endpoints.
func (s *Server) authorize(r *http.Request) bool {
	if s.config.CronSecret == "" {
		return false
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.config.CronSecret)) == 1
}

type syncResponse struct {
	Supplier           string            `json:"supplier"`
	Processed          int               `json:"processed"`
	Fulfilled          int               `json:"fulfilled"`
	PartiallyFulfilled int               `json:"partially_fulfilled"`
	Skipped            int               `json:"skipped"`
	Errors             []syncErrorDetail `json:"errors,omitempty"`
	DurationSeconds    float64           `json:"duration_seconds"`
}

type syncErrorDetail struct {
	Supplier      string `json:"supplier"`
	SupplierOrder string `json:"supplier_order"`
	Reference     string `json:"reference"`
	Detail        string `json:"detail"`
	Critical      bool   `json:"critical,omitempty"`
}

// handleSync runs a reconciliation cycle inline and returns the report.
// With a {supplier} path segment only that supplier's orders are checked.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	ctx := r.Context()
	supplierName := r.PathValue("supplier")

	var (
		report *recon.BatchReport
		err    error
	)
	start := time.Now()
	if supplierName == "" {
		report, err = s.reconciler.RunCycle(ctx, s.config.WindowDays)
	} else {
		report, err = s.reconciler.RunSupplierCycle(ctx, supplierName, s.config.WindowDays)
	}
	if err != nil {
		s.logger.Ctx(ctx).Error("sync cycle failed",
			zap.String("supplier", supplierName),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.metrics.RecordCycle(report.Supplier, time.Since(start).Seconds())
	for range report.Errors {
		s.metrics.RecordOrder(report.Supplier, "error")
	}
	for i := 0; i < report.CriticalCount(); i++ {
		s.metrics.RecordCriticalMismatch(report.Supplier)
	}
	for i := 0; i < report.Fulfilled; i++ {
		s.metrics.RecordOrder(report.Supplier, "fulfilled")
	}
	for i := 0; i < report.PartiallyFulfilled; i++ {
		s.metrics.RecordOrder(report.Supplier, "partially_fulfilled")
	}
	for i := 0; i < report.Skipped; i++ {
		s.metrics.RecordOrder(report.Supplier, "skipped")
	}

	writeJSON(w, http.StatusOK, toSyncResponse(report))
}

func toSyncResponse(report *recon.BatchReport) syncResponse {
	resp := syncResponse{
		Supplier:           report.Supplier,
		Processed:          report.Processed,
		Fulfilled:          report.Fulfilled,
		PartiallyFulfilled: report.PartiallyFulfilled,
		Skipped:            report.Skipped,
		DurationSeconds:    report.FinishedAt.Sub(report.StartedAt).Seconds(),
	}
	for _, e := range report.Errors {
		resp.Errors = append(resp.Errors, syncErrorDetail{
			Supplier:      e.Supplier,
			SupplierOrder: e.SupplierOrder,
			Reference:     e.Reference,
			Detail:        e.Detail,
			Critical:      e.Critical,
		})
	}
	return resp
}

type retryRequest struct {
	Order    string `json:"order"`    // platform order name or numeric id
	Supplier string `json:"supplier"` // target supplier
}

// handleRetry resubmits one platform order to a supplier. Operators use it
// after fixing whatever made the original webhook submission fail.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	ctx := r.Context()

	var req retryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Order == "" || req.Supplier == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "order and supplier are required"})
		return
	}

	sup, err := s.suppliers.Get(req.Supplier)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown supplier: " + req.Supplier})
		return
	}

	order, err := s.resolver.Resolve(ctx, req.Order)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("order %s: %s", req.Order, err)})
		return
	}

	vendors := s.config.SupplierVendors[req.Supplier]
	eligible, counts := recon.FilterLineItems(order.LineItems, vendors)
	if len(eligible) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("no %s items left on order %s (%d foreign, %d refunded, %d without SKU)",
				req.Supplier, order.Name, counts.ForeignVendor, counts.Inactive, counts.NoSKU),
		})
		return
	}

	createReq := recon.BuildSupplierOrder(order, eligible, s.config.CompanyPhone)
	resp, err := sup.CreateOrder(ctx, createReq)
	if err != nil {
		s.metrics.RecordSupplierError(req.Supplier, "create_order")
		s.logger.Ctx(ctx).Error("retry submission failed",
			zap.String("supplier", req.Supplier),
			zap.String("order", order.Name),
			zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Ctx(ctx).Info("retry submission succeeded",
		zap.String("supplier", req.Supplier),
		zap.String("order", order.Name),
		zap.Int64("supplier_order_id", resp.OrderID),
		zap.Int("products", len(eligible)))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "supplier order created",
		"order":             order.Name,
		"supplier_order_id": resp.OrderID,
		"products":          len(eligible),
	})
}
