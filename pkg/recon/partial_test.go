package recon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
)

func lineItems(skus ...string) []platform.LineItem {
	items := make([]platform.LineItem, 0, len(skus))
	for i, sku := range skus {
		items = append(items, platform.LineItem{ID: int64(i + 1), SKU: sku, Quantity: 1})
	}
	return items
}

func TestAnalyzePartial_AllShipped(t *testing.T) {
	a := recon.AnalyzePartial(lineItems("A", "B", "C"), []string{"A", "B", "C"})

	assert.False(t, a.IsPartial)
	assert.Empty(t, a.MissingSKUs)
}

func TestAnalyzePartial_SomeMissing(t *testing.T) {
	a := recon.AnalyzePartial(lineItems("A", "B", "C"), []string{"A", "B"})

	assert.True(t, a.IsPartial)
	assert.Equal(t, []string{"C"}, a.MissingSKUs)
}

func TestAnalyzePartial_ExtraShippedSKUsIgnored(t *testing.T) {
	// the supplier shipping more SKUs than the order holds is not partial
	a := recon.AnalyzePartial(lineItems("A"), []string{"A", "B", "C"})

	assert.False(t, a.IsPartial)
}

func TestAnalyzePartial_DuplicateSKUsCountOnce(t *testing.T) {
	a := recon.AnalyzePartial(lineItems("A", "A", "B"), []string{"A"})

	assert.True(t, a.IsPartial)
	assert.Equal(t, []string{"B"}, a.MissingSKUs)
}

func TestAnalyzePartial_BlankSKUsIgnored(t *testing.T) {
	a := recon.AnalyzePartial(lineItems("A", ""), []string{"A"})

	assert.False(t, a.IsPartial)
}

func TestAnalyzePartial_EmptyOrder(t *testing.T) {
	a := recon.AnalyzePartial(nil, []string{"A"})

	assert.False(t, a.IsPartial)
}
