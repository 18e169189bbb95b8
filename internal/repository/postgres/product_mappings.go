package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
)

type productMappingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductMappingRepository creates a new product mapping repository
func NewProductMappingRepository(db *sql.DB, logger *zap.Logger) *productMappingRepository {
	return &productMappingRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert records a reconciled pair and bumps its sync counter on repeats
func (r *productMappingRepository) Upsert(ctx context.Context, integrationID uuid.UUID, sourceProductID, targetProductID, sku, mappingType string) error {
	query := `
		INSERT INTO product_mappings (id, integration_id, source_product_id, target_product_id, sku, mapping_type, last_synced, sync_count)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, 1)
		ON CONFLICT (integration_id, source_product_id, target_product_id)
		DO UPDATE SET
			sku = EXCLUDED.sku,
			mapping_type = EXCLUDED.mapping_type,
			last_synced = CURRENT_TIMESTAMP,
			sync_count = product_mappings.sync_count + 1,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), integrationID, sourceProductID, targetProductID, sku, mappingType)
	if err != nil {
		r.logger.Error("Failed to upsert product mapping", zap.Error(err))
		return err
	}

	return nil
}

func (r *productMappingRepository) ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]*domain.ProductMapping, error) {
	query := `
		SELECT id, integration_id, source_product_id, target_product_id, sku,
			mapping_type, last_synced, sync_count, is_active, created_at, updated_at
		FROM product_mappings
		WHERE integration_id = $1 AND is_active = true
		ORDER BY last_synced DESC
	`

	rows, err := r.db.QueryContext(ctx, query, integrationID)
	if err != nil {
		r.logger.Error("Failed to query product mappings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var mappings []*domain.ProductMapping
	for rows.Next() {
		var m domain.ProductMapping
		var lastSynced sql.NullTime

		err := rows.Scan(
			&m.ID,
			&m.IntegrationID,
			&m.SourceProductID,
			&m.TargetProductID,
			&m.SKU,
			&m.MappingType,
			&lastSynced,
			&m.SyncCount,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan product mapping", zap.Error(err))
			continue
		}

		if lastSynced.Valid {
			m.LastSynced = &lastSynced.Time
		}
		mappings = append(mappings, &m)
	}

	return mappings, rows.Err()
}
