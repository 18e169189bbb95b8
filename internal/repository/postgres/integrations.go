package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/pkg/errors"
)

type integrationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *sql.DB, logger *zap.Logger) *integrationRepository {
	return &integrationRepository{
		db:     db,
		logger: logger,
	}
}

const integrationSelect = `
	SELECT i.id, i.user_id, i.name, i.source_store_id, i.target_store_id,
		i.is_active, i.last_sync, i.last_sync_status, i.total_syncs,
		i.created_at, i.updated_at,
		s1.name, s1.shop_domain, s2.name, s2.shop_domain
	FROM integrations i
	JOIN stores s1 ON i.source_store_id = s1.id
	JOIN stores s2 ON i.target_store_id = s2.id
`

func (r *integrationRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Integration, error) {
	query := integrationSelect + `
		WHERE i.user_id = $1 AND i.is_active = true
		ORDER BY i.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query integrations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var integrations []*domain.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			r.logger.Error("Failed to scan integration", zap.Error(err))
			continue
		}
		integrations = append(integrations, integration)
	}

	return integrations, rows.Err()
}

func (r *integrationRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Integration, error) {
	query := integrationSelect + ` WHERE i.id = $1 AND i.user_id = $2`

	integration, err := scanIntegration(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "integration", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get integration by ID", zap.Error(err))
		return nil, err
	}

	return integration, nil
}

func (r *integrationRepository) Upsert(ctx context.Context, integration *domain.Integration) error {
	query := `
		INSERT INTO integrations (id, user_id, name, source_store_id, target_store_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, $6)
		ON CONFLICT (user_id, source_store_id, target_store_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			is_active = true,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	now := time.Now()
	if integration.ID == uuid.Nil {
		integration.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		integration.ID,
		integration.UserID,
		integration.Name,
		integration.SourceStoreID,
		integration.TargetStoreID,
		now,
	).Scan(&integration.ID, &integration.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to upsert integration", zap.Error(err))
		return err
	}

	integration.IsActive = true
	integration.UpdatedAt = now
	return nil
}

func (r *integrationRepository) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	query := `
		UPDATE integrations
		SET is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to deactivate integration", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "integration", ID: id.String()}
	}

	return nil
}

func (r *integrationRepository) RecordSyncOutcome(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE integrations
		SET last_sync = CURRENT_TIMESTAMP,
			last_sync_status = $2,
			total_syncs = total_syncs + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to record sync outcome", zap.Error(err))
		return err
	}

	return nil
}

func scanIntegration(row rowScanner) (*domain.Integration, error) {
	var integration domain.Integration
	var lastSync sql.NullTime
	var lastSyncStatus sql.NullString

	err := row.Scan(
		&integration.ID,
		&integration.UserID,
		&integration.Name,
		&integration.SourceStoreID,
		&integration.TargetStoreID,
		&integration.IsActive,
		&lastSync,
		&lastSyncStatus,
		&integration.TotalSyncs,
		&integration.CreatedAt,
		&integration.UpdatedAt,
		&integration.SourceStoreName,
		&integration.SourceStoreDomain,
		&integration.TargetStoreName,
		&integration.TargetStoreDomain,
	)
	if err != nil {
		return nil, err
	}

	if lastSync.Valid {
		integration.LastSync = &lastSync.Time
	}
	if lastSyncStatus.Valid {
		integration.LastSyncStatus = &lastSyncStatus.String
	}

	return &integration, nil
}
