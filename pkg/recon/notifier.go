package recon

import (
	"context"
)

// Notifier delivers reconciliation reports to operators. Delivery is
// fire-and-forget: a notification failure must never fail the cycle that
// produced it.
type Notifier interface {
	// SyncReport sends the aggregate report for one cycle.
	SyncReport(ctx context.Context, report *BatchReport) error

	// Failure sends a single operational failure (e.g. the supplier
	// listing itself broke, or a webhook forward failed).
	Failure(ctx context.Context, subject, detail string) error
}

// NopNotifier discards all notifications. Used in tests and when no
// notification channel is configured.
type NopNotifier struct{}

func (NopNotifier) SyncReport(context.Context, *BatchReport) error { return nil }
func (NopNotifier) Failure(context.Context, string, string) error  { return nil }
