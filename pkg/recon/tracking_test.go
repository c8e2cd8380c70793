package recon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

func TestNormalizeTracking_CarrierShapes(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		carrier string
		url     string
	}{
		{
			name:    "DPD 14 digits",
			number:  "01475240430954",
			carrier: "DPD",
			url:     "https://tracking.dpd.de/parcelstatus?query=01475240430954",
		},
		{
			name:    "DPD 15 digits",
			number:  "014752404309541",
			carrier: "DPD",
			url:     "https://tracking.dpd.de/parcelstatus?query=014752404309541",
		},
		{
			name:    "GLS 8 alphanumeric",
			number:  "YNZX9BHU",
			carrier: "GLS",
			url:     "https://gls-group.eu/EU/en/parcel-tracking?match=YNZX9BHU",
		},
		{
			name:    "PostNord 18 digits",
			number:  "003011234567890123",
			carrier: "PostNord",
			url:     "https://www.postnord.dk/en/track-and-trace?id=003011234567890123",
		},
		{
			name:    "UPS 1Z prefix",
			number:  "1Z999AA10123456784",
			carrier: "UPS",
			url:     "https://www.ups.com/track?tracknum=1Z999AA10123456784",
		},
		{
			name:    "DHL 10 digits",
			number:  "1234567890",
			carrier: "DHL",
			url:     "https://www.dhl.com/en/express/tracking.html?AWB=1234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := recon.NormalizeTracking(tt.number, "Other", "")

			assert.Equal(t, tt.carrier, s.Carrier)
			require.Len(t, s.Numbers, 1)
			assert.Equal(t, tt.number, s.Numbers[0])
			require.Len(t, s.URLs, 1)
			assert.Equal(t, tt.url, s.URLs[0])
		})
	}
}

// A 14-digit number starting with 7 fits both the DPD and DAO shapes;
// DPD is declared first and must win.
func TestNormalizeTracking_DPDShadowsDAO(t *testing.T) {
	s := recon.NormalizeTracking("71234567890123", "Other", "")
	assert.Equal(t, "DPD", s.Carrier)
}

func TestNormalizeTracking_CommaDelimited(t *testing.T) {
	s := recon.NormalizeTracking("01475240430954, 01475240430955", "Other", "")

	assert.Equal(t, "DPD", s.Carrier)
	assert.Equal(t, []string{"01475240430954", "01475240430955"}, s.Numbers)
	require.Len(t, s.URLs, 2)
	assert.Equal(t, "https://tracking.dpd.de/parcelstatus?query=01475240430954", s.URLs[0])
	assert.Equal(t, "https://tracking.dpd.de/parcelstatus?query=01475240430955", s.URLs[1])
}

func TestNormalizeTracking_FallbackCarrierAndURL(t *testing.T) {
	// nine alphanumerics match no shape
	s := recon.NormalizeTracking("ABCDEF123", "GLS",
		"https://gls-group.eu/EU/en/parcel-tracking?match=ABCDEF123")

	assert.Equal(t, "GLS", s.Carrier)
	require.Len(t, s.URLs, 1)
	assert.Equal(t, "https://gls-group.eu/EU/en/parcel-tracking?match=ABCDEF123", s.URLs[0])
}

// A supplier URL carrying all numbers comma-joined must be rewritten to
// one URL per parcel.
func TestNormalizeTracking_FallbackURLSubstitution(t *testing.T) {
	raw := "https://example.com/track?match=AAA111BBB,CCC222DDD"
	s := recon.NormalizeTracking("AAA111BBB,CCC222DDD", "Other", raw)

	require.Len(t, s.URLs, 2)
	assert.Equal(t, "https://example.com/track?match=AAA111BBB", s.URLs[0])
	assert.Equal(t, "https://example.com/track?match=CCC222DDD", s.URLs[1])
}

func TestNormalizeTracking_PluralityVote(t *testing.T) {
	// two DPD numbers against one DHL number
	s := recon.NormalizeTracking("01475240430954,1234567890,01475240430955", "Other", "")
	assert.Equal(t, "DPD", s.Carrier)
}

func TestNormalizeTracking_TieGoesToFirstSeen(t *testing.T) {
	// one DHL, one DPD: first token wins
	s := recon.NormalizeTracking("1234567890,01475240430954", "Other", "")
	assert.Equal(t, "DHL", s.Carrier)
}

func TestNormalizeTracking_Empty(t *testing.T) {
	s := recon.NormalizeTracking("", "Other", "")

	assert.Empty(t, s.Numbers)
	assert.Empty(t, s.URLs)
	assert.Equal(t, "", s.Carrier)
}

func TestDetectCarrierFromURL(t *testing.T) {
	tests := []struct {
		url     string
		carrier string
	}{
		{"https://www.postnord.dk/en/track-and-trace?id=1", "PostNord"},
		{"https://gls-group.eu/EU/en/parcel-tracking?match=X", "GLS"},
		{"https://www.dao.as/tracking?code=1", "DAO"},
		{"https://www.ups.com/track?tracknum=1", "UPS"},
		{"https://www.dhl.com/en/express/tracking.html?AWB=1", "DHL"},
		{"https://tracking.dpd.de/parcelstatus?query=1", "DPD"},
		{"https://tracking.bring.dk/tracking/1", "Bring"},
		{"https://www.fedex.com/fedextrack/?trknbr=1", "FedEx"},
		{"https://unknown-carrier.example.com/1", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.carrier, recon.DetectCarrierFromURL(tt.url), tt.url)
	}
}
