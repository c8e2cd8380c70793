package recon

import (
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
)

// AnalyzePartial compares the SKU set a supplier shipped against the SKU
// set the platform order requires. A non-empty difference means the order
// holds products from more than one supplier, so only the matching subset
// may be marked fulfilled.
func AnalyzePartial(items []platform.LineItem, supplierSKUs []string) PartialAnalysis {
	shipped := make(map[string]struct{}, len(supplierSKUs))
	for _, sku := range supplierSKUs {
		shipped[sku] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.SKU == "" {
			continue
		}
		if _, dup := seen[item.SKU]; dup {
			continue
		}
		seen[item.SKU] = struct{}{}
		if _, ok := shipped[item.SKU]; !ok {
			missing = append(missing, item.SKU)
		}
	}

	return PartialAnalysis{
		IsPartial:   len(missing) > 0,
		MissingSKUs: missing,
	}
}
