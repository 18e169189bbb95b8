package sync

import (
	"github.com/google/uuid"

	"github.com/shopmirror/storesync/internal/domain"
)

// RunStats are the aggregate counters of a full sync run
type RunStats struct {
	TotalProducts    int `json:"total_products"`
	ProductsCreated  int `json:"products_created"`
	ProductsUpdated  int `json:"products_updated"`
	ProductsFailed   int `json:"products_failed"`
	ProductsSkipped  int `json:"products_skipped"`
	InventoryUpdated int `json:"inventory_updated"`
}

// FullSyncResult is the structured outcome of one full sync invocation.
// Success distinguishes total failure from partial failure; a run with some
// per-product failures still completes, so callers must inspect the counters.
type FullSyncResult struct {
	Success         bool               `json:"success"`
	SyncLogID       uuid.UUID          `json:"sync_log_id"`
	Status          domain.SyncStatus  `json:"status"`
	Stats           RunStats           `json:"stats"`
	DurationSeconds int                `json:"duration_seconds"`
	Message         string             `json:"message"`
	HasMoreProducts bool               `json:"has_more_products"`
	Details         domain.SyncDetails `json:"details"`
}

// InventoryRunStats are the aggregate counters of an inventory-only run
type InventoryRunStats struct {
	Total             int `json:"total"`
	Success           int `json:"success"`
	Failed            int `json:"failed"`
	NotFound          int `json:"not_found"`
	TotalMatched      int `json:"total_matched"`
	ProcessedProducts int `json:"processed_products"`
}

// InventorySyncResult is the structured outcome of one inventory-only run
type InventorySyncResult struct {
	Success         bool                  `json:"success"`
	SyncLogID       uuid.UUID             `json:"sync_log_id"`
	Status          domain.SyncStatus     `json:"status"`
	Stats           InventoryRunStats     `json:"stats"`
	DurationSeconds int                   `json:"duration_seconds"`
	Message         string                `json:"message"`
	HasMoreProducts bool                  `json:"has_more_products"`
	Results         []InventoryItemResult `json:"results"`
}
