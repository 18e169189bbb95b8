package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/shopify"
	pkgerrors "github.com/shopmirror/storesync/pkg/errors"
)

const (
	// The surrounding invocation runs under a short wall-clock budget, so a
	// full run processes a bounded prefix per invocation. Idempotent
	// re-invocation is the retry mechanism for large catalogs.
	defaultFullBatchSize = 5

	// The inventory batch is measured against SKUs present in both catalogs
	defaultInventoryBatchSize = 10
)

// Filters narrows the source product set before reconciliation
type Filters struct {
	Vendor       string
	CollectionID int64
	HasStock     bool
}

// ClientFactory builds a catalog client for one store's credentials
type ClientFactory func(shopDomain, accessToken string) CatalogClient

// Runner coordinates one end-to-end sync run: load configuration, fetch both
// catalogs, reconcile a bounded batch, and finalize the run record exactly
// once. A run that started always ends with a terminal record.
type Runner struct {
	repos     *repository.Repositories
	cipher    *crypto.TokenCipher
	newClient ClientFactory
	logger    *zap.Logger

	fullBatchSize      int
	inventoryBatchSize int

	writeDelay      time.Duration
	trackingDelay   time.Duration
	failureCooldown time.Duration
}

// NewRunner creates a sync runner
func NewRunner(repos *repository.Repositories, cipher *crypto.TokenCipher, logger *zap.Logger) *Runner {
	return &Runner{
		repos:  repos,
		cipher: cipher,
		newClient: func(shopDomain, accessToken string) CatalogClient {
			return shopify.NewClient(shopDomain, accessToken, logger)
		},
		logger:             logger,
		fullBatchSize:      defaultFullBatchSize,
		inventoryBatchSize: defaultInventoryBatchSize,
		writeDelay:         defaultWriteDelay,
		trackingDelay:      defaultTrackingDelay,
		failureCooldown:    defaultFailureCooldown,
	}
}

// RunFull executes one full catalog sync for an integration
func (r *Runner) RunFull(ctx context.Context, userID string, integrationID uuid.UUID, filters Filters) (*FullSyncResult, error) {
	start := time.Now()

	integration, err := r.repos.Integration.GetByID(ctx, integrationID, userID)
	if err != nil {
		return nil, err
	}
	if integration.SourceStoreID == integration.TargetStoreID {
		return nil, &pkgerrors.ErrValidation{Message: "source and target store must be different"}
	}

	settings, err := r.repos.SyncSettings.GetByIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	syncLog, err := r.repos.SyncLog.Create(ctx, integrationID, domain.SyncTypeFull)
	if err != nil {
		return nil, err
	}

	r.logger.Info("full sync started",
		zap.String("integration_id", integrationID.String()),
		zap.String("sync_log_id", syncLog.ID.String()),
	)

	stats, details, runErr := r.performFullSync(ctx, userID, integration, settings, filters)

	duration := int(time.Since(start).Seconds())
	status := domain.SyncStatusCompleted
	var errMsg *string
	if runErr != nil {
		status = domain.SyncStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	if err := r.repos.SyncLog.Finalize(ctx, syncLog.ID, repository.SyncLogFinal{
		Status:           status,
		TotalProducts:    stats.TotalProducts,
		ProductsCreated:  stats.ProductsCreated,
		ProductsUpdated:  stats.ProductsUpdated,
		ProductsFailed:   stats.ProductsFailed,
		ProductsSkipped:  stats.ProductsSkipped,
		InventoryUpdated: stats.InventoryUpdated,
		CompletedAt:      time.Now(),
		DurationSeconds:  duration,
		ErrorMessage:     errMsg,
		Details:          &details,
	}); err != nil {
		r.logger.Error("failed to finalize sync log",
			zap.String("sync_log_id", syncLog.ID.String()), zap.Error(err))
	}

	if err := r.repos.Integration.RecordSyncOutcome(ctx, integrationID, string(status)); err != nil {
		r.logger.Error("failed to update integration stats",
			zap.String("integration_id", integrationID.String()), zap.Error(err))
	}

	if runErr != nil {
		r.logger.Error("full sync failed",
			zap.String("sync_log_id", syncLog.ID.String()), zap.Error(runErr))
		return &FullSyncResult{
			SyncLogID:       syncLog.ID,
			Status:          domain.SyncStatusFailed,
			Stats:           stats,
			DurationSeconds: duration,
			Message:         runErr.Error(),
			Details:         details,
		}, nil
	}

	processed := stats.ProductsCreated + stats.ProductsUpdated + stats.ProductsSkipped
	hasMore := stats.TotalProducts > processed

	message := fmt.Sprintf("%d products created, %d products updated", stats.ProductsCreated, stats.ProductsUpdated)
	if stats.ProductsFailed > 0 {
		message += fmt.Sprintf(", %d failed", stats.ProductsFailed)
	}
	if hasMore {
		message += fmt.Sprintf(". Processed %d of %d products, run again for the rest.", processed, stats.TotalProducts)
	}

	r.logger.Info("full sync completed",
		zap.String("sync_log_id", syncLog.ID.String()),
		zap.Int("created", stats.ProductsCreated),
		zap.Int("updated", stats.ProductsUpdated),
		zap.Int("failed", stats.ProductsFailed),
		zap.Int("duration_seconds", duration),
	)

	return &FullSyncResult{
		Success:         true,
		SyncLogID:       syncLog.ID,
		Status:          domain.SyncStatusCompleted,
		Stats:           stats,
		DurationSeconds: duration,
		Message:         message,
		HasMoreProducts: hasMore,
		Details:         details,
	}, nil
}

func (r *Runner) performFullSync(
	ctx context.Context,
	userID string,
	integration *domain.Integration,
	settings *domain.SyncSettings,
	filters Filters,
) (RunStats, domain.SyncDetails, error) {
	stats := RunStats{}
	details := domain.SyncDetails{
		Products: []domain.ProductDetail{},
		Warnings: []string{},
		Errors:   []domain.ProductError{},
	}

	source, target, err := r.buildClients(ctx, userID, integration.SourceStoreID, integration.TargetStoreID)
	if err != nil {
		return stats, details, err
	}

	// The two catalogs are independent, so fetch them concurrently. All
	// writes downstream stay strictly sequential.
	var sourceProducts, targetProducts []shopify.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var ferr error
		sourceProducts, ferr = source.FetchAllProducts(gctx)
		if ferr != nil {
			return fmt.Errorf("source catalog fetch failed: %w", ferr)
		}
		return nil
	})
	g.Go(func() error {
		var ferr error
		targetProducts, ferr = target.FetchAllProducts(gctx)
		if ferr != nil {
			return fmt.Errorf("target catalog fetch failed: %w", ferr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats, details, err
	}

	sourceProducts = r.applyFilters(ctx, source, sourceProducts, filters, &details)

	locations, err := target.FetchLocations(ctx)
	if err != nil {
		return stats, details, fmt.Errorf("target locations fetch failed: %w", err)
	}
	if len(locations) == 0 {
		// Nowhere to write stock; nothing can proceed
		return stats, details, fmt.Errorf("target store has no locations")
	}
	primaryLocation := locations[0]

	targetIndex := BuildSKUIndex(targetProducts)

	stats.TotalProducts = len(sourceProducts)
	batch := sourceProducts
	if len(batch) > r.fullBatchSize {
		batch = batch[:r.fullBatchSize]
		details.Warnings = append(details.Warnings, fmt.Sprintf(
			"batch sync: %d products found, first %d processed; run again for the rest",
			stats.TotalProducts, r.fullBatchSize))
	}

	reconciler := &Reconciler{
		target:          target,
		mappings:        r.repos.ProductMapping,
		logger:          r.logger,
		writeDelay:      r.writeDelay,
		failureCooldown: r.failureCooldown,
	}

	for _, product := range batch {
		detail, inventoryUpdated := reconciler.ReconcileProduct(
			ctx, integration.ID, product, targetIndex, primaryLocation.ID, settings)

		details.Products = append(details.Products, detail)
		if inventoryUpdated {
			stats.InventoryUpdated++
		}
		switch detail.Status {
		case domain.OutcomeCreated:
			stats.ProductsCreated++
		case domain.OutcomeUpdated:
			stats.ProductsUpdated++
		case domain.OutcomeSkipped:
			stats.ProductsSkipped++
		case domain.OutcomeFailed:
			stats.ProductsFailed++
			details.Errors = append(details.Errors, domain.ProductError{
				ProductID: detail.SourceProductID,
				Error:     detail.Error,
			})
		}
	}

	if stats.ProductsSkipped > 0 {
		details.Warnings = append(details.Warnings,
			fmt.Sprintf("%d products skipped", stats.ProductsSkipped))
	}
	if stats.ProductsFailed > 0 {
		details.Warnings = append(details.Warnings,
			fmt.Sprintf("%d products failed", stats.ProductsFailed))
	}

	return stats, details, nil
}

// applyFilters narrows the source set. The collection membership filter
// requires an extra fetch and is applied only when requested; a fetch failure
// degrades to a warning rather than aborting the run.
func (r *Runner) applyFilters(
	ctx context.Context,
	source CatalogClient,
	products []shopify.Product,
	filters Filters,
	details *domain.SyncDetails,
) []shopify.Product {
	if filters.Vendor != "" && filters.Vendor != "all" {
		filtered := products[:0:0]
		for _, p := range products {
			if p.Vendor == filters.Vendor {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	if filters.HasStock {
		filtered := products[:0:0]
		for _, p := range products {
			for _, v := range p.Variants {
				if v.InventoryQuantity > 0 {
					filtered = append(filtered, p)
					break
				}
			}
		}
		products = filtered
	}

	if filters.CollectionID > 0 {
		members, err := source.FetchCollectionProducts(ctx, filters.CollectionID)
		if err != nil {
			r.logger.Warn("collection filter fetch failed",
				zap.Int64("collection_id", filters.CollectionID), zap.Error(err))
			details.Warnings = append(details.Warnings,
				fmt.Sprintf("collection filter not applied: %s", err.Error()))
			return products
		}
		memberIDs := make(map[int64]struct{}, len(members))
		for _, p := range members {
			memberIDs[p.ID] = struct{}{}
		}
		filtered := products[:0:0]
		for _, p := range products {
			if _, ok := memberIDs[p.ID]; ok {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return products
}

// RunInventory executes one inventory-only sync for an integration
func (r *Runner) RunInventory(ctx context.Context, userID string, integrationID uuid.UUID) (*InventorySyncResult, error) {
	start := time.Now()

	integration, err := r.repos.Integration.GetByID(ctx, integrationID, userID)
	if err != nil {
		return nil, err
	}
	if integration.SourceStoreID == integration.TargetStoreID {
		return nil, &pkgerrors.ErrValidation{Message: "source and target store must be different"}
	}

	syncLog, err := r.repos.SyncLog.Create(ctx, integrationID, domain.SyncTypeInventory)
	if err != nil {
		return nil, err
	}

	r.logger.Info("inventory sync started",
		zap.String("integration_id", integrationID.String()),
		zap.String("sync_log_id", syncLog.ID.String()),
	)

	results, runStats, runErr := r.performInventorySync(ctx, userID, integration)

	duration := int(time.Since(start).Seconds())
	status := domain.SyncStatusCompleted
	var errMsg *string
	if runErr != nil {
		status = domain.SyncStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	skipped := 0
	written := 0
	for _, res := range results {
		if res.Skipped {
			skipped++
		} else if res.Success {
			written++
		}
	}

	if err := r.repos.SyncLog.Finalize(ctx, syncLog.ID, repository.SyncLogFinal{
		Status:           status,
		TotalProducts:    runStats.TotalMatched,
		ProductsFailed:   runStats.Failed,
		ProductsSkipped:  skipped,
		InventoryUpdated: written,
		CompletedAt:      time.Now(),
		DurationSeconds:  duration,
		ErrorMessage:     errMsg,
	}); err != nil {
		r.logger.Error("failed to finalize sync log",
			zap.String("sync_log_id", syncLog.ID.String()), zap.Error(err))
	}

	if err := r.repos.Integration.RecordSyncOutcome(ctx, integrationID, string(status)); err != nil {
		r.logger.Error("failed to update integration stats",
			zap.String("integration_id", integrationID.String()), zap.Error(err))
	}

	if runErr != nil {
		r.logger.Error("inventory sync failed",
			zap.String("sync_log_id", syncLog.ID.String()), zap.Error(runErr))
		return &InventorySyncResult{
			SyncLogID:       syncLog.ID,
			Status:          domain.SyncStatusFailed,
			Stats:           runStats,
			DurationSeconds: duration,
			Message:         runErr.Error(),
		}, nil
	}

	message := fmt.Sprintf("%d stock levels updated", runStats.Success)
	if runStats.Failed > 0 {
		message += fmt.Sprintf(", %d failed", runStats.Failed)
	}
	if runStats.NotFound > 0 {
		message += fmt.Sprintf(", %d SKUs not found", runStats.NotFound)
	}
	hasMore := runStats.TotalMatched > runStats.ProcessedProducts
	if hasMore {
		message += fmt.Sprintf(". Processed %d of %d matched products, run again for the rest.",
			runStats.ProcessedProducts, runStats.TotalMatched)
	}

	r.logger.Info("inventory sync completed",
		zap.String("sync_log_id", syncLog.ID.String()),
		zap.Int("updated", written),
		zap.Int("failed", runStats.Failed),
		zap.Int("duration_seconds", duration),
	)

	return &InventorySyncResult{
		Success:         true,
		SyncLogID:       syncLog.ID,
		Status:          domain.SyncStatusCompleted,
		Stats:           runStats,
		DurationSeconds: duration,
		Message:         message,
		HasMoreProducts: hasMore,
		Results:         results,
	}, nil
}

func (r *Runner) performInventorySync(
	ctx context.Context,
	userID string,
	integration *domain.Integration,
) ([]InventoryItemResult, InventoryRunStats, error) {
	stats := InventoryRunStats{}

	source, target, err := r.buildClients(ctx, userID, integration.SourceStoreID, integration.TargetStoreID)
	if err != nil {
		return nil, stats, err
	}

	var sourceProducts, targetProducts []shopify.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var ferr error
		sourceProducts, ferr = source.FetchAllProducts(gctx)
		if ferr != nil {
			return fmt.Errorf("source catalog fetch failed: %w", ferr)
		}
		return nil
	})
	g.Go(func() error {
		var ferr error
		targetProducts, ferr = target.FetchAllProducts(gctx)
		if ferr != nil {
			return fmt.Errorf("target catalog fetch failed: %w", ferr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	locations, err := target.FetchLocations(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("target locations fetch failed: %w", err)
	}
	if len(locations) == 0 {
		return nil, stats, fmt.Errorf("target store has no locations")
	}
	primaryLocation := locations[0]

	sourceIndex := BuildSKUIndex(sourceProducts)
	targetIndex := BuildSKUIndex(targetProducts)

	// Batch progress is measured against products matched in both catalogs,
	// not the raw source catalog size
	var matched []shopify.Product
	seen := make(map[int64]struct{})
	for _, targetProduct := range targetProducts {
		for _, targetVariant := range targetProduct.Variants {
			if targetVariant.SKU == "" {
				continue
			}
			if entry, ok := sourceIndex[targetVariant.SKU]; ok {
				if _, dup := seen[entry.Product.ID]; !dup {
					seen[entry.Product.ID] = struct{}{}
					matched = append(matched, entry.Product)
				}
				break
			}
		}
	}

	stats.TotalMatched = len(matched)
	batch := matched
	if len(batch) > r.inventoryBatchSize {
		batch = batch[:r.inventoryBatchSize]
	}
	stats.ProcessedProducts = len(batch)

	syncer := &InventorySyncer{
		target:          target,
		logger:          r.logger,
		trackingDelay:   r.trackingDelay,
		writeDelay:      r.writeDelay,
		failureCooldown: r.failureCooldown,
	}
	results := syncer.Sync(ctx, batch, targetIndex, primaryLocation.ID)

	stats.Total = len(results)
	for _, res := range results {
		if res.Success {
			stats.Success++
		} else {
			stats.Failed++
			if res.Error == errSKUNotFoundInTarget {
				stats.NotFound++
			}
		}
	}

	return results, stats, nil
}

// buildClients loads both store records and constructs authenticated catalog
// clients with freshly decrypted tokens
func (r *Runner) buildClients(ctx context.Context, userID string, sourceStoreID, targetStoreID uuid.UUID) (CatalogClient, CatalogClient, error) {
	sourceStore, err := r.repos.Store.GetByID(ctx, sourceStoreID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("source store: %w", err)
	}
	targetStore, err := r.repos.Store.GetByID(ctx, targetStoreID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("target store: %w", err)
	}

	sourceToken, err := r.cipher.Decrypt(sourceStore.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("source store token: %w", err)
	}
	targetToken, err := r.cipher.Decrypt(targetStore.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("target store token: %w", err)
	}

	return r.newClient(sourceStore.ShopDomain, sourceToken),
		r.newClient(targetStore.ShopDomain, targetToken), nil
}
