package recon

import (
	"strings"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
)

// vendorAllowed matches vendor names case-insensitively, so "vidaXL",
// "VidaXL" and "vidaxl" all hit a single allowlist entry.
func vendorAllowed(vendor string, allowlist []string) bool {
	if vendor == "" {
		return false
	}
	for _, allowed := range allowlist {
		if strings.EqualFold(vendor, allowed) {
			return true
		}
	}
	return false
}

// FilterLineItems selects the line items a supplier may claim: vendor on
// the supplier's allowlist, a SKU present, and still fulfillable. The
// counts record every rejection reason so callers can tell "no supplier
// products at all" apart from "all supplier products already refunded".
// Order of the surviving items is preserved.
func FilterLineItems(items []platform.LineItem, allowedVendors []string) ([]platform.LineItem, FilterCounts) {
	eligible := make([]platform.LineItem, 0, len(items))
	var counts FilterCounts

	for _, item := range items {
		if !vendorAllowed(item.Vendor, allowedVendors) {
			counts.ForeignVendor++
			continue
		}
		if item.FulfillableQuantity == 0 && item.Quantity > 0 {
			counts.Inactive++
			continue
		}
		if item.SKU == "" {
			counts.NoSKU++
			continue
		}
		eligible = append(eligible, item)
	}

	counts.Eligible = len(eligible)
	return eligible, counts
}

// ClaimableItems narrows a fulfillment order's line items down to the ones
// a supplier's shipment actually covers: vendor allowlisted, SKU present on
// the supplier order, and remaining quantity to ship. skipped counts the
// items left for other suppliers.
func ClaimableItems(items []platform.FulfillmentLineItem, allowedVendors, supplierSKUs []string) (claimable []platform.FulfillmentLineItem, skipped int) {
	skuSet := make(map[string]struct{}, len(supplierSKUs))
	for _, sku := range supplierSKUs {
		skuSet[sku] = struct{}{}
	}

	for _, item := range items {
		_, shipped := skuSet[item.SKU]
		if !shipped || !vendorAllowed(item.Vendor, allowedVendors) {
			skipped++
			continue
		}
		if item.RemainingQuantity <= 0 {
			// Claimed by a previous fulfillment; nothing left to ship.
			continue
		}
		claimable = append(claimable, item)
	}
	return claimable, skipped
}
