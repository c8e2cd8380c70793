// Package notify sends operational email reports through Resend.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

const resendEndpoint = "https://api.resend.com/emails"

// Config holds the settings for the Resend mailer.
type Config struct {
	APIKey string
	From   string
	To     string
}

// Mailer sends sync reports and failure alerts by email. It implements
// recon.Notifier. When no API key is configured every call is a no-op,
// so local runs work without credentials.
type Mailer struct {
	config     Config
	httpClient *http.Client
	logger     *otelzap.Logger
}

// New creates a Resend mailer.
func New(cfg Config, logger *otelzap.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SyncReport emails a summary of a finished reconciliation cycle.
func (m *Mailer) SyncReport(ctx context.Context, report *recon.BatchReport) error {
	subject := fmt.Sprintf("Sync report: %d fulfilled, %d partial, %d errors",
		report.Fulfilled, report.PartiallyFulfilled, len(report.Errors))
	if report.CriticalCount() > 0 {
		subject = fmt.Sprintf("⚠️ KRITISK: %d order mismatch - %s", report.CriticalCount(), subject)
	}
	return m.send(ctx, subject, renderReport(report))
}

// Failure emails a one-off failure alert.
func (m *Mailer) Failure(ctx context.Context, subject, detail string) error {
	html := fmt.Sprintf("<h2>%s</h2><pre>%s</pre>", htmlEscape(subject), htmlEscape(detail))
	return m.send(ctx, subject, html)
}

func (m *Mailer) send(ctx context.Context, subject, html string) error {
	if m.config.APIKey == "" {
		m.logger.Ctx(ctx).Debug("no Resend API key configured, skipping email",
			zap.String("subject", subject))
		return nil
	}

	body, err := json.Marshal(emailRequest{
		From:    m.config.From,
		To:      []string{m.config.To},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(detail))
	}

	m.logger.Ctx(ctx).Info("email sent",
		zap.String("subject", subject),
		zap.String("to", m.config.To))
	return nil
}
