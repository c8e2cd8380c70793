package recon

import (
	"regexp"
	"strings"
)

// carrierRule detects one carrier by tracking-number shape and builds the
// canonical tracking URL for a single number.
type carrierRule struct {
	carrier string
	pattern *regexp.Regexp
	url     func(num string) string
}

// carrierRules is evaluated top to bottom; the first match wins. The order
// matters because the patterns overlap (a 14-digit number starting with 7
// satisfies both the DPD and DAO shapes).
var carrierRules = []carrierRule{
	{
		carrier: "DPD",
		pattern: regexp.MustCompile(`^\d{14,15}$`),
		url:     func(num string) string { return "https://tracking.dpd.de/parcelstatus?query=" + num },
	},
	{
		carrier: "GLS",
		pattern: regexp.MustCompile(`^[A-Z0-9]{8}$`),
		url:     func(num string) string { return "https://gls-group.eu/EU/en/parcel-tracking?match=" + num },
	},
	{
		carrier: "PostNord",
		pattern: regexp.MustCompile(`^\d{18}$`),
		url:     func(num string) string { return "https://www.postnord.dk/en/track-and-trace?id=" + num },
	},
	{
		carrier: "DAO",
		pattern: regexp.MustCompile(`^7\d{13}$`),
		url:     func(num string) string { return "https://www.dao.as/tracking?code=" + num },
	},
	{
		carrier: "UPS",
		pattern: regexp.MustCompile(`^1Z[A-Z0-9]+$`),
		url:     func(num string) string { return "https://www.ups.com/track?tracknum=" + num },
	},
	{
		carrier: "DHL",
		pattern: regexp.MustCompile(`^\d{10}$`),
		url:     func(num string) string { return "https://www.dhl.com/en/express/tracking.html?AWB=" + num },
	},
}

var (
	queryParamRe = regexp.MustCompile(`query=[\w,]+`)
	matchParamRe = regexp.MustCompile(`match=[\w,]+`)
)

// fallbackURL rewrites a supplier-provided tracking URL for a single
// number. Supplier URLs sometimes carry all numbers comma-joined in one
// query or match parameter; substituting keeps one URL per parcel.
func fallbackURL(raw, num string) string {
	switch {
	case strings.Contains(raw, "query="):
		return queryParamRe.ReplaceAllString(raw, "query="+num)
	case strings.Contains(raw, "match="):
		return matchParamRe.ReplaceAllString(raw, "match="+num)
	default:
		return raw
	}
}

// NormalizeTracking parses a comma-delimited tracking string into one
// TrackingShipment. Each token is one parcel: the carrier is inferred from
// the number's shape, falling back to fallbackCarrier (and fallbackURL)
// when no shape matches. When tokens disagree on the carrier, the
// shipment's single carrier is the most frequent one, ties broken by
// first-seen token. Pure function.
func NormalizeTracking(raw, fallbackCarrier, fallback string) TrackingShipment {
	var numbers []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			numbers = append(numbers, tok)
		}
	}

	carriers := make([]string, len(numbers))
	urls := make([]string, len(numbers))

	for i, num := range numbers {
		matched := false
		for _, rule := range carrierRules {
			if rule.pattern.MatchString(num) {
				carriers[i] = rule.carrier
				urls[i] = rule.url(num)
				matched = true
				break
			}
		}
		if !matched {
			carriers[i] = fallbackCarrier
			urls[i] = fallbackURL(fallback, num)
		}
	}

	return TrackingShipment{
		Carrier: resolveCarrier(carriers),
		Numbers: numbers,
		URLs:    urls,
	}
}

// resolveCarrier picks the single carrier for a shipment by plurality
// vote. Ties go to the carrier seen first.
func resolveCarrier(carriers []string) string {
	if len(carriers) == 0 {
		return ""
	}

	counts := make(map[string]int, len(carriers))
	for _, c := range carriers {
		counts[c]++
	}

	best := carriers[0]
	for _, c := range carriers {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// DetectCarrierFromURL infers a carrier from a tracking URL's host. Used
// as the fallback carrier when the supplier names no shipping option.
func DetectCarrierFromURL(trackingURL string) string {
	if trackingURL == "" {
		return "Other"
	}
	url := strings.ToLower(trackingURL)

	switch {
	case strings.Contains(url, "postnord"):
		return "PostNord"
	case strings.Contains(url, "gls-group"):
		return "GLS"
	case strings.Contains(url, "dao.as"):
		return "DAO"
	case strings.Contains(url, "ups.com"):
		return "UPS"
	case strings.Contains(url, "dhl.com"):
		return "DHL"
	case strings.Contains(url, "dpd"):
		return "DPD"
	case strings.Contains(url, "bring"):
		return "Bring"
	case strings.Contains(url, "fedex"):
		return "FedEx"
	}
	return "Other"
}
