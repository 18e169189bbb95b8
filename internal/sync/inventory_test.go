package sync

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/shopify"
)

func quietInventorySyncer(target CatalogClient) *InventorySyncer {
	return &InventorySyncer{
		target: target,
		logger: zap.NewNop(),
	}
}

func TestInventorySyncWritesChangedQuantities(t *testing.T) {
	target := newFakeCatalog()
	s := quietInventorySyncer(target)

	targetIndex := BuildSKUIndex([]shopify.Product{product(50, "Mug", "MUG-1", "8.00", 2)})
	source := []shopify.Product{product(1, "Mug", "MUG-1", "10.00", 9)}

	results := s.Sync(context.Background(), source, targetIndex, 1001)

	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.Success)
	assert.False(t, res.Skipped)
	assert.Equal(t, 2, res.OldQuantity)
	assert.Equal(t, 9, res.NewQuantity)
	assert.Equal(t, "Mug", res.TargetProduct)

	require.Len(t, target.inventoryWrites, 1)
	assert.Equal(t, int64(5000), target.inventoryWrites[0].inventoryItemID)
	assert.Equal(t, 9, target.inventoryWrites[0].available)
	assert.Contains(t, target.trackingCalls, int64(5000))
}

func TestInventorySyncSkipsEqualQuantities(t *testing.T) {
	target := newFakeCatalog()
	s := quietInventorySyncer(target)

	targetIndex := BuildSKUIndex([]shopify.Product{product(50, "Mug", "MUG-1", "8.00", 7)})
	source := []shopify.Product{product(1, "Mug", "MUG-1", "10.00", 7)}

	results := s.Sync(context.Background(), source, targetIndex, 1001)

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.True(t, results[0].Skipped)

	// No write and no tracking call when nothing changes
	assert.Empty(t, target.inventoryWrites)
	assert.Empty(t, target.trackingCalls)
}

func TestInventorySyncReportsMissingSKUs(t *testing.T) {
	target := newFakeCatalog()
	s := quietInventorySyncer(target)

	source := []shopify.Product{product(1, "Mug", "MUG-1", "10.00", 9)}

	results := s.Sync(context.Background(), source, map[string]IndexEntry{}, 1001)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "SKU not found in target store", results[0].Error)
	assert.Empty(t, target.inventoryWrites)
}

func TestInventorySyncWalksEveryVariant(t *testing.T) {
	target := newFakeCatalog()
	s := quietInventorySyncer(target)

	multi := shopify.Product{
		ID:    1,
		Title: "Shirt",
		Variants: []shopify.Variant{
			{ID: 11, SKU: "SHIRT-S", InventoryItemID: 111, InventoryQuantity: 4},
			{ID: 12, SKU: "", InventoryItemID: 112, InventoryQuantity: 4},
			{ID: 13, SKU: "SHIRT-L", InventoryItemID: 113, InventoryQuantity: 6},
		},
	}
	targetProduct := shopify.Product{
		ID:    50,
		Title: "Shirt",
		Variants: []shopify.Variant{
			{ID: 51, SKU: "SHIRT-S", InventoryItemID: 511, InventoryQuantity: 1},
			{ID: 53, SKU: "SHIRT-L", InventoryItemID: 513, InventoryQuantity: 1},
		},
	}

	results := s.Sync(context.Background(), []shopify.Product{multi}, BuildSKUIndex([]shopify.Product{targetProduct}), 1001)

	// The blank-SKU variant is silently ignored, the other two are written
	require.Len(t, results, 2)
	require.Len(t, target.inventoryWrites, 2)
	assert.Equal(t, int64(511), target.inventoryWrites[0].inventoryItemID)
	assert.Equal(t, 4, target.inventoryWrites[0].available)
	assert.Equal(t, int64(513), target.inventoryWrites[1].inventoryItemID)
	assert.Equal(t, 6, target.inventoryWrites[1].available)
}

func TestInventorySyncFailureDoesNotAbortBatch(t *testing.T) {
	target := newFakeCatalog()
	target.inventoryErr = fmt.Errorf("write refused")
	s := quietInventorySyncer(target)

	targetIndex := BuildSKUIndex([]shopify.Product{
		product(50, "Mug", "MUG-1", "8.00", 2),
		product(51, "Cap", "CAP-1", "8.00", 2),
	})
	source := []shopify.Product{
		product(1, "Mug", "MUG-1", "10.00", 9),
		product(2, "Cap", "CAP-1", "10.00", 9),
	}

	results := s.Sync(context.Background(), source, targetIndex, 1001)

	require.Len(t, results, 2)
	for _, res := range results {
		assert.False(t, res.Success)
		assert.Equal(t, "write refused", res.Error)
	}
}
