package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/shopify"
)

const (
	defaultWriteDelay      = 300 * time.Millisecond
	defaultFailureCooldown = 1 * time.Second

	mappingTypeAutoSKU = "auto_sku"
)

// MappingStore persists which source product became which target product
type MappingStore interface {
	Upsert(ctx context.Context, integrationID uuid.UUID, sourceProductID, targetProductID, sku, mappingType string) error
}

// Reconciler drives the per-product decision state machine: match by the
// first variant's SKU, then create, update, or skip. One product's failure
// never aborts the batch; writes are spaced out to respect upstream rate
// limits.
type Reconciler struct {
	target          CatalogClient
	mappings        MappingStore
	logger          *zap.Logger
	writeDelay      time.Duration
	failureCooldown time.Duration
}

// NewReconciler creates a reconciler writing to the target store
func NewReconciler(target CatalogClient, mappings MappingStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		target:          target,
		mappings:        mappings,
		logger:          logger,
		writeDelay:      defaultWriteDelay,
		failureCooldown: defaultFailureCooldown,
	}
}

// ReconcileProduct processes one source product against the target index and
// returns its outcome plus whether an inventory level was written.
func (r *Reconciler) ReconcileProduct(
	ctx context.Context,
	integrationID uuid.UUID,
	source shopify.Product,
	targetIndex map[string]IndexEntry,
	locationID int64,
	settings *domain.SyncSettings,
) (domain.ProductDetail, bool) {
	// Only the first variant's SKU acts as the product-level join key
	if len(source.Variants) == 0 || source.Variants[0].SKU == "" {
		return domain.ProductDetail{
			SourceProductID: source.ID,
			Title:           source.Title,
			Status:          domain.OutcomeSkipped,
			Message:         "missing SKU",
		}, false
	}

	sourceVariant := source.Variants[0]
	sku := sourceVariant.SKU

	if match, ok := targetIndex[sku]; ok {
		return r.updateExisting(ctx, integrationID, source, sourceVariant, match, locationID, settings)
	}

	if !settings.SyncNewProducts {
		return domain.ProductDetail{
			SourceProductID: source.ID,
			SKU:             sku,
			Title:           source.Title,
			Status:          domain.OutcomeSkipped,
			Message:         "creation disabled",
		}, false
	}

	return r.createNew(ctx, integrationID, source, sourceVariant, settings)
}

func (r *Reconciler) updateExisting(
	ctx context.Context,
	integrationID uuid.UUID,
	source shopify.Product,
	sourceVariant shopify.Variant,
	match IndexEntry,
	locationID int64,
	settings *domain.SyncSettings,
) (domain.ProductDetail, bool) {
	sku := sourceVariant.SKU
	targetProduct := match.Product
	targetVariant := match.Variant

	// Best effort: a tracking failure is logged but does not abort the product
	if err := r.target.SetInventoryTracking(ctx, targetVariant.InventoryItemID, true); err != nil {
		r.logger.Warn("inventory tracking update failed",
			zap.String("sku", sku), zap.Error(err))
	}
	sleep(ctx, r.writeDelay)

	if payload := VariantUpdatePayload(settings, sourceVariant); !payload.IsEmpty() {
		if err := r.target.UpdateVariant(ctx, targetVariant.ID, payload); err != nil {
			r.logger.Warn("variant update failed",
				zap.String("sku", sku), zap.Error(err))
		}
		sleep(ctx, r.writeDelay)
	}

	if payload := ProductUpdatePayload(settings, source); !payload.IsEmpty() {
		if err := r.target.UpdateProduct(ctx, targetProduct.ID, payload); err != nil {
			r.logger.Warn("product update failed",
				zap.String("sku", sku), zap.Error(err))
		}
		sleep(ctx, r.writeDelay)
	}

	inventoryUpdated := false
	if settings.SyncInventory {
		err := r.target.SetInventoryLevel(ctx, locationID, targetVariant.InventoryItemID, sourceVariant.InventoryQuantity)
		if err != nil {
			r.logger.Warn("inventory level update failed",
				zap.String("sku", sku), zap.Error(err))
		} else {
			inventoryUpdated = true
		}
		sleep(ctx, r.writeDelay)
	}

	if err := r.recordMapping(ctx, integrationID, source.ID, targetProduct.ID, sku); err != nil {
		return domain.ProductDetail{
			SourceProductID: source.ID,
			TargetProductID: targetProduct.ID,
			SKU:             sku,
			Title:           source.Title,
			Status:          domain.OutcomeFailed,
			Error:           err.Error(),
		}, inventoryUpdated
	}

	return domain.ProductDetail{
		SourceProductID: source.ID,
		TargetProductID: targetProduct.ID,
		SKU:             sku,
		Title:           source.Title,
		Status:          domain.OutcomeUpdated,
		Message:         fmt.Sprintf("updated (price: %s, quantity: %d)", sourceVariant.Price, sourceVariant.InventoryQuantity),
	}, inventoryUpdated
}

func (r *Reconciler) createNew(
	ctx context.Context,
	integrationID uuid.UUID,
	source shopify.Product,
	sourceVariant shopify.Variant,
	settings *domain.SyncSettings,
) (domain.ProductDetail, bool) {
	sku := sourceVariant.SKU
	payload := NewProductPayload(settings, source, sourceVariant)

	created, err := r.target.CreateProduct(ctx, payload)
	if err != nil {
		r.logger.Warn("product creation failed",
			zap.String("sku", sku), zap.Error(err))
		sleep(ctx, r.failureCooldown)
		return domain.ProductDetail{
			SourceProductID: source.ID,
			SKU:             sku,
			Title:           source.Title,
			Status:          domain.OutcomeFailed,
			Error:           err.Error(),
		}, false
	}
	sleep(ctx, r.writeDelay)

	if err := r.recordMapping(ctx, integrationID, source.ID, created.ID, sku); err != nil {
		return domain.ProductDetail{
			SourceProductID: source.ID,
			TargetProductID: created.ID,
			SKU:             sku,
			Title:           source.Title,
			Status:          domain.OutcomeFailed,
			Error:           err.Error(),
		}, false
	}

	return domain.ProductDetail{
		SourceProductID: source.ID,
		TargetProductID: created.ID,
		SKU:             sku,
		Title:           source.Title,
		Status:          domain.OutcomeCreated,
		Message:         fmt.Sprintf("created (price: %s, quantity: %d)", sourceVariant.Price, sourceVariant.InventoryQuantity),
	}, false
}

func (r *Reconciler) recordMapping(ctx context.Context, integrationID uuid.UUID, sourceProductID, targetProductID int64, sku string) error {
	return r.mappings.Upsert(ctx, integrationID,
		strconv.FormatInt(sourceProductID, 10),
		strconv.FormatInt(targetProductID, 10),
		sku, mappingTypeAutoSKU)
}

// sleep waits for d unless the context is cancelled first
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
