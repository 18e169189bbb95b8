package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/pkg/errors"
)

type storeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *sql.DB, logger *zap.Logger) *storeRepository {
	return &storeRepository{
		db:     db,
		logger: logger,
	}
}

const storeColumns = `id, user_id, name, shop_domain, access_token, shop_info, is_active, last_sync, created_at, updated_at`

func (r *storeRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Store, error) {
	query := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query stores", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			r.logger.Error("Failed to scan store", zap.Error(err))
			continue
		}
		stores = append(stores, store)
	}

	return stores, rows.Err()
}

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Store, error) {
	query := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE id = $1 AND user_id = $2
	`

	store, err := scanStore(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "store", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get store by ID", zap.Error(err))
		return nil, err
	}

	return store, nil
}

func (r *storeRepository) Upsert(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, user_id, name, shop_domain, access_token, shop_info, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, $7)
		ON CONFLICT (user_id, shop_domain)
		DO UPDATE SET
			name = EXCLUDED.name,
			access_token = EXCLUDED.access_token,
			shop_info = EXCLUDED.shop_info,
			is_active = true,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	now := time.Now()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}

	var shopInfo []byte
	if store.ShopInfo != nil {
		var err error
		shopInfo, err = json.Marshal(store.ShopInfo)
		if err != nil {
			return err
		}
	}

	err := r.db.QueryRowContext(ctx, query,
		store.ID,
		store.UserID,
		store.Name,
		store.ShopDomain,
		store.AccessToken,
		shopInfo,
		now,
	).Scan(&store.ID, &store.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to upsert store", zap.Error(err))
		return err
	}

	store.IsActive = true
	store.UpdatedAt = now
	return nil
}

func (r *storeRepository) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	query := `
		UPDATE stores
		SET is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to deactivate store", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "store", ID: id.String()}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStore(row rowScanner) (*domain.Store, error) {
	var store domain.Store
	var shopInfo []byte
	var lastSync sql.NullTime

	err := row.Scan(
		&store.ID,
		&store.UserID,
		&store.Name,
		&store.ShopDomain,
		&store.AccessToken,
		&shopInfo,
		&store.IsActive,
		&lastSync,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(shopInfo) > 0 {
		if err := json.Unmarshal(shopInfo, &store.ShopInfo); err != nil {
			return nil, err
		}
	}
	if lastSync.Valid {
		store.LastSync = &lastSync.Time
	}

	return &store, nil
}
