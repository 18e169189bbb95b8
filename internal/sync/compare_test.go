package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmirror/storesync/internal/shopify"
)

func TestCompareInventory(t *testing.T) {
	source := []shopify.Product{
		product(1, "Mug", "MUG-1", "10.00", 5),
		product(2, "Cap", "CAP-1", "12.50", 3),
		product(3, "Pin", "PIN-1", "2.00", 8),
	}
	target := []shopify.Product{
		product(50, "Mug", "MUG-1", "10.00", 5),  // in sync
		product(51, "Cap", "CAP-1", "11.00", 1),  // qty and price drift
	}

	rows, summary := CompareInventory(source, target)

	require.Len(t, rows, 3)
	assert.Equal(t, 3, summary.TotalSKUs)
	assert.Equal(t, 1, summary.InSync)
	assert.Equal(t, 1, summary.OutOfSync)
	assert.Equal(t, 1, summary.MissingTarget)

	byName := map[string]ComparisonRow{}
	for _, row := range rows {
		byName[row.SKU] = row
	}

	mug := byName["MUG-1"]
	assert.True(t, mug.InTarget)
	assert.True(t, mug.InSync)
	assert.Equal(t, 0, mug.QuantityDelta)
	assert.Equal(t, "0", mug.PriceDelta)

	capRow := byName["CAP-1"]
	assert.True(t, capRow.InTarget)
	assert.False(t, capRow.InSync)
	assert.Equal(t, 2, capRow.QuantityDelta)
	assert.Equal(t, "1.5", capRow.PriceDelta)

	pin := byName["PIN-1"]
	assert.False(t, pin.InTarget)
	assert.False(t, pin.InSync)
	assert.Equal(t, "2.00", pin.SourcePrice)
	assert.Empty(t, pin.TargetPrice)
}

func TestCompareInventorySkipsBlankSKUs(t *testing.T) {
	source := []shopify.Product{
		{ID: 1, Title: "Bare", Variants: []shopify.Variant{{ID: 11, SKU: ""}}},
	}

	rows, summary := CompareInventory(source, nil)
	assert.Empty(t, rows)
	assert.Zero(t, summary.TotalSKUs)
}

func TestPriceDeltaUnparseablePrice(t *testing.T) {
	assert.Equal(t, "", priceDelta("not-a-price", "10.00"))
	assert.Equal(t, "", priceDelta("10.00", ""))
	assert.Equal(t, "-0.5", priceDelta("9.50", "10.00"))
}
