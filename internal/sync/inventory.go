package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/shopify"
)

const (
	defaultTrackingDelay       = 100 * time.Millisecond
	defaultInventoryWriteDelay = 200 * time.Millisecond

	errSKUNotFoundInTarget = "SKU not found in target store"
)

// InventoryItemResult is the outcome for one SKU in an inventory-only run
type InventoryItemResult struct {
	SKU           string `json:"sku"`
	ProductTitle  string `json:"product_title"`
	TargetProduct string `json:"target_product,omitempty"`
	OldQuantity   int    `json:"old_quantity"`
	NewQuantity   int    `json:"new_quantity"`
	Success       bool   `json:"success"`
	Skipped       bool   `json:"skipped,omitempty"`
	Error         string `json:"error,omitempty"`
}

// InventorySyncer copies stock quantities from source variants to the
// matching target inventory items at a single location. Quantities already
// in agreement are skipped without a write.
type InventorySyncer struct {
	target          CatalogClient
	logger          *zap.Logger
	trackingDelay   time.Duration
	writeDelay      time.Duration
	failureCooldown time.Duration
}

// NewInventorySyncer creates an inventory syncer writing to the target store
func NewInventorySyncer(target CatalogClient, logger *zap.Logger) *InventorySyncer {
	return &InventorySyncer{
		target:          target,
		logger:          logger,
		trackingDelay:   defaultTrackingDelay,
		writeDelay:      defaultInventoryWriteDelay,
		failureCooldown: defaultFailureCooldown,
	}
}

// Sync walks every variant of the given source products, matches by SKU
// against the target index, and sets the target quantity where it differs.
// SKUs absent from the target are reported as failures, not dropped.
func (s *InventorySyncer) Sync(
	ctx context.Context,
	sourceProducts []shopify.Product,
	targetIndex map[string]IndexEntry,
	locationID int64,
) []InventoryItemResult {
	var results []InventoryItemResult

	for _, sourceProduct := range sourceProducts {
		for _, sourceVariant := range sourceProduct.Variants {
			if sourceVariant.SKU == "" {
				continue
			}

			match, ok := targetIndex[sourceVariant.SKU]
			if !ok {
				results = append(results, InventoryItemResult{
					SKU:          sourceVariant.SKU,
					ProductTitle: sourceProduct.Title,
					Error:        errSKUNotFoundInTarget,
				})
				continue
			}

			oldQty := match.Variant.InventoryQuantity
			newQty := sourceVariant.InventoryQuantity

			// Cheap idempotence shortcut: no write when already equal
			if oldQty == newQty {
				results = append(results, InventoryItemResult{
					SKU:           sourceVariant.SKU,
					ProductTitle:  sourceProduct.Title,
					TargetProduct: match.Product.Title,
					OldQuantity:   oldQty,
					NewQuantity:   newQty,
					Success:       true,
					Skipped:       true,
				})
				continue
			}

			if err := s.target.SetInventoryTracking(ctx, match.Variant.InventoryItemID, true); err != nil {
				// Already tracked or transient, keep going
				s.logger.Debug("inventory tracking update failed",
					zap.String("sku", sourceVariant.SKU), zap.Error(err))
			}
			sleep(ctx, s.trackingDelay)

			err := s.target.SetInventoryLevel(ctx, locationID, match.Variant.InventoryItemID, newQty)
			if err != nil {
				s.logger.Warn("inventory level update failed",
					zap.String("sku", sourceVariant.SKU), zap.Error(err))
				results = append(results, InventoryItemResult{
					SKU:          sourceVariant.SKU,
					ProductTitle: sourceProduct.Title,
					OldQuantity:  oldQty,
					NewQuantity:  newQty,
					Error:        err.Error(),
				})
				sleep(ctx, s.failureCooldown)
				continue
			}

			results = append(results, InventoryItemResult{
				SKU:           sourceVariant.SKU,
				ProductTitle:  sourceProduct.Title,
				TargetProduct: match.Product.Title,
				OldQuantity:   oldQty,
				NewQuantity:   newQty,
				Success:       true,
			})
			sleep(ctx, s.writeDelay)
		}
	}

	return results
}
