package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/pkg/errors"
)

type syncLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSyncLogRepository creates a new sync log repository
func NewSyncLogRepository(db *sql.DB, logger *zap.Logger) *syncLogRepository {
	return &syncLogRepository{
		db:     db,
		logger: logger,
	}
}

const syncLogColumns = `id, integration_id, sync_type, status,
	total_products, products_created, products_updated, products_failed,
	products_skipped, inventory_updated, started_at, completed_at,
	duration_seconds, error_message, details, created_at`

func (r *syncLogRepository) Create(ctx context.Context, integrationID uuid.UUID, syncType domain.SyncType) (*domain.SyncLog, error) {
	query := `
		INSERT INTO sync_logs (id, integration_id, sync_type, status, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	log := &domain.SyncLog{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		SyncType:      syncType,
		Status:        domain.SyncStatusRunning,
		StartedAt:     time.Now(),
	}
	log.CreatedAt = log.StartedAt

	err := r.db.QueryRowContext(ctx, query,
		log.ID, integrationID, syncType, log.Status, log.StartedAt,
	).Scan(&log.ID)

	if err != nil {
		r.logger.Error("Failed to create sync log", zap.Error(err))
		return nil, err
	}

	return log, nil
}

func (r *syncLogRepository) Finalize(ctx context.Context, id uuid.UUID, final repository.SyncLogFinal) error {
	query := `
		UPDATE sync_logs SET
			status = $2,
			total_products = $3,
			products_created = $4,
			products_updated = $5,
			products_failed = $6,
			products_skipped = $7,
			inventory_updated = $8,
			completed_at = $9,
			duration_seconds = $10,
			error_message = $11,
			details = $12
		WHERE id = $1
	`

	var details []byte
	if final.Details != nil {
		var err error
		details, err = json.Marshal(final.Details)
		if err != nil {
			return err
		}
	}

	result, err := r.db.ExecContext(ctx, query,
		id,
		final.Status,
		final.TotalProducts,
		final.ProductsCreated,
		final.ProductsUpdated,
		final.ProductsFailed,
		final.ProductsSkipped,
		final.InventoryUpdated,
		final.CompletedAt,
		final.DurationSeconds,
		final.ErrorMessage,
		details,
	)
	if err != nil {
		r.logger.Error("Failed to finalize sync log", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "sync log", ID: id.String()}
	}

	return nil
}

func (r *syncLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncLog, error) {
	query := `SELECT ` + syncLogColumns + ` FROM sync_logs WHERE id = $1`

	log, err := scanSyncLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "sync log", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get sync log by ID", zap.Error(err))
		return nil, err
	}

	return log, nil
}

func (r *syncLogRepository) ListByIntegration(ctx context.Context, integrationID uuid.UUID, limit int) ([]*domain.SyncLog, error) {
	query := `
		SELECT ` + syncLogColumns + `
		FROM sync_logs
		WHERE integration_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, integrationID, limit)
	if err != nil {
		r.logger.Error("Failed to query sync logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.SyncLog
	for rows.Next() {
		log, err := scanSyncLog(rows)
		if err != nil {
			r.logger.Error("Failed to scan sync log", zap.Error(err))
			continue
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func scanSyncLog(row rowScanner) (*domain.SyncLog, error) {
	var log domain.SyncLog
	var completedAt sql.NullTime
	var durationSeconds sql.NullInt64
	var errorMessage sql.NullString
	var details []byte

	err := row.Scan(
		&log.ID,
		&log.IntegrationID,
		&log.SyncType,
		&log.Status,
		&log.TotalProducts,
		&log.ProductsCreated,
		&log.ProductsUpdated,
		&log.ProductsFailed,
		&log.ProductsSkipped,
		&log.InventoryUpdated,
		&log.StartedAt,
		&completedAt,
		&durationSeconds,
		&errorMessage,
		&details,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		log.CompletedAt = &completedAt.Time
	}
	if durationSeconds.Valid {
		seconds := int(durationSeconds.Int64)
		log.DurationSeconds = &seconds
	}
	if errorMessage.Valid {
		log.ErrorMessage = &errorMessage.String
	}
	if len(details) > 0 {
		var d domain.SyncDetails
		if err := json.Unmarshal(details, &d); err != nil {
			return nil, err
		}
		log.Details = &d
	}

	return &log, nil
}
