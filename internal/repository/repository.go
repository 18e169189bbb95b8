package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopmirror/storesync/internal/domain"
)

// StoreRepository persists connected Shopify stores
type StoreRepository interface {
	GetByUser(ctx context.Context, userID string) ([]*domain.Store, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Store, error)
	Upsert(ctx context.Context, store *domain.Store) error
	Deactivate(ctx context.Context, id uuid.UUID, userID string) error
}

// IntegrationRepository persists source/target store pairings
type IntegrationRepository interface {
	GetByUser(ctx context.Context, userID string) ([]*domain.Integration, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Integration, error)
	Upsert(ctx context.Context, integration *domain.Integration) error
	Deactivate(ctx context.Context, id uuid.UUID, userID string) error
	// RecordSyncOutcome bumps last_sync, last_sync_status and the run counter
	RecordSyncOutcome(ctx context.Context, id uuid.UUID, status string) error
}

// SyncSettingsRepository persists per-integration field sync flags
type SyncSettingsRepository interface {
	// GetByIntegration returns the stored settings, or all-enabled defaults
	// when no record exists yet
	GetByIntegration(ctx context.Context, integrationID uuid.UUID) (*domain.SyncSettings, error)
	Upsert(ctx context.Context, settings *domain.SyncSettings) error
}

// SyncLogFinal carries everything written when a run record is finalized
type SyncLogFinal struct {
	Status           domain.SyncStatus
	TotalProducts    int
	ProductsCreated  int
	ProductsUpdated  int
	ProductsFailed   int
	ProductsSkipped  int
	InventoryUpdated int
	CompletedAt      time.Time
	DurationSeconds  int
	ErrorMessage     *string
	Details          *domain.SyncDetails
}

// SyncLogRepository persists sync run records
type SyncLogRepository interface {
	// Create inserts a run record in "running" state
	Create(ctx context.Context, integrationID uuid.UUID, syncType domain.SyncType) (*domain.SyncLog, error)
	Finalize(ctx context.Context, id uuid.UUID, final SyncLogFinal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncLog, error)
	ListByIntegration(ctx context.Context, integrationID uuid.UUID, limit int) ([]*domain.SyncLog, error)
}

// ProductMappingRepository persists source→target product associations
type ProductMappingRepository interface {
	Upsert(ctx context.Context, integrationID uuid.UUID, sourceProductID, targetProductID, sku, mappingType string) error
	ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]*domain.ProductMapping, error)
}

// Repositories aggregates every repository behind one handle
type Repositories struct {
	Store          StoreRepository
	Integration    IntegrationRepository
	SyncSettings   SyncSettingsRepository
	SyncLog        SyncLogRepository
	ProductMapping ProductMappingRepository
}
