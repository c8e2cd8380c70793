package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Shopify
	ShopifyStoreURL      string `envconfig:"SHOPIFY_STORE_URL"`
	ShopifyAdminToken    string `envconfig:"SHOPIFY_ADMIN_TOKEN"`
	ShopifyAPIVersion    string `envconfig:"SHOPIFY_API_VERSION" default:"2024-01"`
	ShopifyWebhookSecret string `envconfig:"SHOPIFY_WEBHOOK_SECRET"`
	ShopifyUseMock       bool   `envconfig:"SHOPIFY_USE_MOCK" default:"false"`

	// VidaXL
	VidaXLEmail    string `envconfig:"VIDAXL_EMAIL"`
	VidaXLAPIToken string `envconfig:"VIDAXL_API_TOKEN"`
	VidaXLBaseURL  string `envconfig:"VIDAXL_BASE_URL" default:"https://b2b.vidaxl.com/api_customer"`
	VidaXLVendors  string `envconfig:"VIDAXL_VENDORS" default:"vidaXL"`
	VidaXLEnabled  bool   `envconfig:"VIDAXL_ENABLED" default:"true"`
	VidaXLUseMock  bool   `envconfig:"VIDAXL_USE_MOCK" default:"false"`

	// DropXL
	DropXLEmail    string `envconfig:"DROPXL_EMAIL"`
	DropXLAPIToken string `envconfig:"DROPXL_API_TOKEN"`
	DropXLBaseURL  string `envconfig:"DROPXL_BASE_URL" default:"https://b2b.dropxl.com/api_customer"`
	DropXLVendors  string `envconfig:"DROPXL_VENDORS" default:"vidaXL,Bestway,Keter"`
	DropXLEnabled  bool   `envconfig:"DROPXL_ENABLED" default:"true"`
	DropXLUseMock  bool   `envconfig:"DROPXL_USE_MOCK" default:"false"`

	// Reconciliation
	SyncWindowDays    int    `envconfig:"SYNC_WINDOW_DAYS" default:"7"`
	SyncConcurrency   int    `envconfig:"SYNC_CONCURRENCY" default:"4"`
	OrderNumberPrefix string `envconfig:"ORDER_NUMBER_PREFIX" default:"36"`
	NotifyCustomer    bool   `envconfig:"NOTIFY_CUSTOMER" default:"true"`
	TestMode          bool   `envconfig:"TEST_MODE" default:"false"`
	CronSecret        string `envconfig:"CRON_SECRET"`

	// Notifications (Resend)
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	ReportFrom   string `envconfig:"REPORT_FROM" default:"BoligRetning <onboarding@resend.dev>"`
	ReportTo     string `envconfig:"REPORT_TO" default:"kontakt@boligretning.dk"`

	// Company fallback used when an order carries no phone number;
	// suppliers require one on every address entry.
	CompanyPhone string `envconfig:"COMPANY_PHONE" default:"70701870"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"boligretning-webhooks"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from the environment. A local .env file is
// loaded first when present, so development runs match production wiring.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// SplitVendors parses a comma-delimited vendor allowlist.
func SplitVendors(raw string) []string {
	var vendors []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vendors = append(vendors, v)
		}
	}
	return vendors
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("vidaxl.enabled", c.VidaXLEnabled),
		attribute.Bool("dropxl.enabled", c.DropXLEnabled),
		attribute.Bool("test_mode", c.TestMode),
	}
}
