package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
)

type syncSettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSyncSettingsRepository creates a new sync settings repository
func NewSyncSettingsRepository(db *sql.DB, logger *zap.Logger) *syncSettingsRepository {
	return &syncSettingsRepository{
		db:     db,
		logger: logger,
	}
}

const settingsColumns = `id, integration_id,
	sync_title, sync_description, sync_price, sync_compare_price, sync_sku,
	sync_barcode, sync_tags, sync_vendor, sync_product_type, sync_weight,
	sync_inventory, sync_images, sync_status, sync_new_products,
	auto_sync, sync_frequency, created_at, updated_at`

// GetByIntegration reads settings fresh; a missing record means every flag
// defaults to enabled.
func (r *syncSettingsRepository) GetByIntegration(ctx context.Context, integrationID uuid.UUID) (*domain.SyncSettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM sync_settings
		WHERE integration_id = $1
	`

	var s domain.SyncSettings
	err := r.db.QueryRowContext(ctx, query, integrationID).Scan(
		&s.ID, &s.IntegrationID,
		&s.SyncTitle, &s.SyncDescription, &s.SyncPrice, &s.SyncComparePrice, &s.SyncSKU,
		&s.SyncBarcode, &s.SyncTags, &s.SyncVendor, &s.SyncProductType, &s.SyncWeight,
		&s.SyncInventory, &s.SyncImages, &s.SyncStatus, &s.SyncNewProducts,
		&s.AutoSync, &s.SyncFrequency, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.DefaultSyncSettings(integrationID), nil
	}
	if err != nil {
		r.logger.Error("Failed to get sync settings", zap.Error(err))
		return nil, err
	}

	return &s, nil
}

func (r *syncSettingsRepository) Upsert(ctx context.Context, s *domain.SyncSettings) error {
	query := `
		INSERT INTO sync_settings (
			id, integration_id,
			sync_title, sync_description, sync_price, sync_compare_price, sync_sku,
			sync_barcode, sync_tags, sync_vendor, sync_product_type, sync_weight,
			sync_inventory, sync_images, sync_status, sync_new_products,
			auto_sync, sync_frequency, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		ON CONFLICT (integration_id)
		DO UPDATE SET
			sync_title = EXCLUDED.sync_title,
			sync_description = EXCLUDED.sync_description,
			sync_price = EXCLUDED.sync_price,
			sync_compare_price = EXCLUDED.sync_compare_price,
			sync_sku = EXCLUDED.sync_sku,
			sync_barcode = EXCLUDED.sync_barcode,
			sync_tags = EXCLUDED.sync_tags,
			sync_vendor = EXCLUDED.sync_vendor,
			sync_product_type = EXCLUDED.sync_product_type,
			sync_weight = EXCLUDED.sync_weight,
			sync_inventory = EXCLUDED.sync_inventory,
			sync_images = EXCLUDED.sync_images,
			sync_status = EXCLUDED.sync_status,
			sync_new_products = EXCLUDED.sync_new_products,
			auto_sync = EXCLUDED.auto_sync,
			sync_frequency = EXCLUDED.sync_frequency,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	now := time.Now()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.IntegrationID,
		s.SyncTitle, s.SyncDescription, s.SyncPrice, s.SyncComparePrice, s.SyncSKU,
		s.SyncBarcode, s.SyncTags, s.SyncVendor, s.SyncProductType, s.SyncWeight,
		s.SyncInventory, s.SyncImages, s.SyncStatus, s.SyncNewProducts,
		s.AutoSync, s.SyncFrequency, now,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to upsert sync settings", zap.Error(err))
		return err
	}

	s.UpdatedAt = now
	return nil
}
