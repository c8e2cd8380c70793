package recon

import (
	"time"
)

// TrackingShipment is the normalized carrier record for one supplier
// shipment. Numbers and URLs are index-aligned: URLs[i] tracks Numbers[i].
type TrackingShipment struct {
	Carrier string
	Numbers []string
	URLs    []string
}

// ResultKind classifies the outcome of reconciling one supplier order.
type ResultKind string

const (
	// KindFulfilled means the whole platform order was marked shipped.
	KindFulfilled ResultKind = "fulfilled"

	// KindPartiallyFulfilled means only the supplier's subset was marked
	// shipped; other vendors' items remain open.
	KindPartiallyFulfilled ResultKind = "partially_fulfilled"

	// KindSkipped means the order needed no action (not sent yet, no
	// tracking, or already fulfilled).
	KindSkipped ResultKind = "skipped"

	// KindError means the order failed and should be looked at, but the
	// resolved identity was sound.
	KindError ResultKind = "error"

	// KindCriticalMismatch means the resolved platform order's name did not
	// equal the supplier's reference. Tracking was NOT attached. These are
	// flagged separately so operators never mistake them for routine errors.
	KindCriticalMismatch ResultKind = "critical_mismatch"
)

// Result is the per-order reconciliation outcome.
type Result struct {
	Kind           ResultKind
	Detail         string
	FulfillmentID  string
	ItemsFulfilled int
	ItemsTotal     int
}

// OrderError is one failed order in a batch report.
type OrderError struct {
	Supplier      string
	SupplierOrder string // the supplier's own order number or id
	Reference     string
	Detail        string
	Critical      bool
}

// BatchReport aggregates one reconciliation cycle.
type BatchReport struct {
	Supplier           string // supplier name, or "all" for a combined cycle
	StartedAt          time.Time
	FinishedAt         time.Time
	Processed          int
	Fulfilled          int
	PartiallyFulfilled int
	Skipped            int
	Errors             []OrderError
}

// CriticalCount returns the number of critical-mismatch entries.
func (r *BatchReport) CriticalCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Critical {
			n++
		}
	}
	return n
}

// HasUpdates reports whether anything was fulfilled or failed, i.e. whether
// the report is worth sending to operators.
func (r *BatchReport) HasUpdates() bool {
	return r.Fulfilled > 0 || r.PartiallyFulfilled > 0 || len(r.Errors) > 0
}

// FilterCounts breaks down why line items were rejected by the vendor
// filter. Eligible + ForeignVendor + Inactive + NoSKU always equals the
// number of input items.
type FilterCounts struct {
	Eligible      int
	ForeignVendor int
	Inactive      int
	NoSKU         int
}

// Total returns the number of items the filter saw.
func (c FilterCounts) Total() int {
	return c.Eligible + c.ForeignVendor + c.Inactive + c.NoSKU
}

// PartialAnalysis is the outcome of comparing a supplier's shipped SKU set
// against a platform order's required SKU set.
type PartialAnalysis struct {
	IsPartial   bool
	MissingSKUs []string // required by the order but absent from the shipment
}
