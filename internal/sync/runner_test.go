package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/shopify"
	"github.com/shopmirror/storesync/pkg/errors"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fakeStoreRepo struct {
	stores map[uuid.UUID]*domain.Store
}

func (f *fakeStoreRepo) GetByUser(ctx context.Context, userID string) ([]*domain.Store, error) {
	var out []*domain.Store
	for _, s := range f.stores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Store, error) {
	s, ok := f.stores[id]
	if !ok || s.UserID != userID {
		return nil, &errors.ErrNotFound{Resource: "store", ID: id.String()}
	}
	return s, nil
}

func (f *fakeStoreRepo) Upsert(ctx context.Context, store *domain.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	delete(f.stores, id)
	return nil
}

type fakeIntegrationRepo struct {
	integration *domain.Integration
	outcomes    []string
}

func (f *fakeIntegrationRepo) GetByUser(ctx context.Context, userID string) ([]*domain.Integration, error) {
	return []*domain.Integration{f.integration}, nil
}

func (f *fakeIntegrationRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*domain.Integration, error) {
	if f.integration == nil || f.integration.ID != id || f.integration.UserID != userID {
		return nil, &errors.ErrNotFound{Resource: "integration", ID: id.String()}
	}
	return f.integration, nil
}

func (f *fakeIntegrationRepo) Upsert(ctx context.Context, integration *domain.Integration) error {
	f.integration = integration
	return nil
}

func (f *fakeIntegrationRepo) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	return nil
}

func (f *fakeIntegrationRepo) RecordSyncOutcome(ctx context.Context, id uuid.UUID, status string) error {
	f.outcomes = append(f.outcomes, status)
	return nil
}

type fakeSettingsRepo struct {
	settings *domain.SyncSettings
}

func (f *fakeSettingsRepo) GetByIntegration(ctx context.Context, integrationID uuid.UUID) (*domain.SyncSettings, error) {
	if f.settings != nil {
		return f.settings, nil
	}
	return domain.DefaultSyncSettings(integrationID), nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.SyncSettings) error {
	f.settings = settings
	return nil
}

type fakeSyncLogRepo struct {
	created   []*domain.SyncLog
	finalized map[uuid.UUID]repository.SyncLogFinal
}

func (f *fakeSyncLogRepo) Create(ctx context.Context, integrationID uuid.UUID, syncType domain.SyncType) (*domain.SyncLog, error) {
	log := &domain.SyncLog{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		SyncType:      syncType,
		Status:        domain.SyncStatusRunning,
		StartedAt:     time.Now(),
	}
	f.created = append(f.created, log)
	return log, nil
}

func (f *fakeSyncLogRepo) Finalize(ctx context.Context, id uuid.UUID, final repository.SyncLogFinal) error {
	if f.finalized == nil {
		f.finalized = map[uuid.UUID]repository.SyncLogFinal{}
	}
	f.finalized[id] = final
	return nil
}

func (f *fakeSyncLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncLog, error) {
	return nil, &errors.ErrNotFound{Resource: "sync log", ID: id.String()}
}

func (f *fakeSyncLogRepo) ListByIntegration(ctx context.Context, integrationID uuid.UUID, limit int) ([]*domain.SyncLog, error) {
	return f.created, nil
}

func (f *fakeMappings) ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]*domain.ProductMapping, error) {
	return nil, nil
}

type runnerFixture struct {
	runner       *Runner
	userID       string
	integration  *domain.Integration
	sourceClient *fakeCatalog
	targetClient *fakeCatalog
	logs         *fakeSyncLogRepo
	integrations *fakeIntegrationRepo
	mappings     *fakeMappings
}

func newRunnerFixture(t *testing.T, sourceProducts, targetProducts []shopify.Product) *runnerFixture {
	t.Helper()

	cipher, err := crypto.NewTokenCipher(testEncryptionKey)
	require.NoError(t, err)

	userID := "user-1"
	sourceStore := &domain.Store{ID: uuid.New(), UserID: userID, ShopDomain: "source.myshopify.com"}
	targetStore := &domain.Store{ID: uuid.New(), UserID: userID, ShopDomain: "target.myshopify.com"}
	sourceStore.AccessToken, err = cipher.Encrypt("source-token")
	require.NoError(t, err)
	targetStore.AccessToken, err = cipher.Encrypt("target-token")
	require.NoError(t, err)

	integration := &domain.Integration{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "source to target",
		SourceStoreID: sourceStore.ID,
		TargetStoreID: targetStore.ID,
		IsActive:      true,
	}

	sourceClient := newFakeCatalog(sourceProducts...)
	targetClient := newFakeCatalog(targetProducts...)

	logs := &fakeSyncLogRepo{}
	integrations := &fakeIntegrationRepo{integration: integration}
	mappings := &fakeMappings{}

	repos := &repository.Repositories{
		Store:          &fakeStoreRepo{stores: map[uuid.UUID]*domain.Store{sourceStore.ID: sourceStore, targetStore.ID: targetStore}},
		Integration:    integrations,
		SyncSettings:   &fakeSettingsRepo{},
		SyncLog:        logs,
		ProductMapping: mappings,
	}

	runner := &Runner{
		repos:  repos,
		cipher: cipher,
		newClient: func(shopDomain, accessToken string) CatalogClient {
			if shopDomain == "source.myshopify.com" {
				return sourceClient
			}
			return targetClient
		},
		logger:             zap.NewNop(),
		fullBatchSize:      defaultFullBatchSize,
		inventoryBatchSize: defaultInventoryBatchSize,
	}

	return &runnerFixture{
		runner:       runner,
		userID:       userID,
		integration:  integration,
		sourceClient: sourceClient,
		targetClient: targetClient,
		logs:         logs,
		integrations: integrations,
		mappings:     mappings,
	}
}

func TestRunFullCreatesAndUpdates(t *testing.T) {
	source := []shopify.Product{
		product(1, "Mug", "MUG-1", "10.00", 5),
		product(2, "Cap", "CAP-1", "12.00", 3),
	}
	target := []shopify.Product{
		product(50, "Mug (stale)", "MUG-1", "8.00", 1),
	}
	fx := newRunnerFixture(t, source, target)

	result, err := fx.runner.RunFull(context.Background(), fx.userID, fx.integration.ID, Filters{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, domain.SyncStatusCompleted, result.Status)
	assert.Equal(t, 2, result.Stats.TotalProducts)
	assert.Equal(t, 1, result.Stats.ProductsCreated)
	assert.Equal(t, 1, result.Stats.ProductsUpdated)
	assert.Equal(t, 1, result.Stats.InventoryUpdated)
	assert.False(t, result.HasMoreProducts)
	assert.Contains(t, result.Message, "1 products created, 1 products updated")

	// Run record finalized exactly once, terminal
	require.Len(t, fx.logs.created, 1)
	final, ok := fx.logs.finalized[result.SyncLogID]
	require.True(t, ok)
	assert.Equal(t, domain.SyncStatusCompleted, final.Status)
	assert.Equal(t, 1, final.ProductsCreated)
	assert.Nil(t, final.ErrorMessage)
	require.NotNil(t, final.Details)
	assert.Len(t, final.Details.Products, 2)

	// Integration stats recorded
	assert.Equal(t, []string{"completed"}, fx.integrations.outcomes)

	// One mapping per reconciled product
	assert.Len(t, fx.mappings.upserts, 2)
}

func TestRunFullBatchesLargeCatalogs(t *testing.T) {
	var source []shopify.Product
	for i := int64(1); i <= 7; i++ {
		source = append(source, product(i, "P", "SKU-"+uuid.NewString()[:8], "1.00", 1))
	}
	fx := newRunnerFixture(t, source, nil)

	result, err := fx.runner.RunFull(context.Background(), fx.userID, fx.integration.ID, Filters{})
	require.NoError(t, err)

	assert.Equal(t, 7, result.Stats.TotalProducts)
	assert.Equal(t, 5, result.Stats.ProductsCreated)
	assert.True(t, result.HasMoreProducts)
	assert.Contains(t, result.Message, "Processed 5 of 7 products")
	assert.Contains(t, result.Details.Warnings[0], "first 5 processed")
}

func TestRunFullVendorFilter(t *testing.T) {
	mug := product(1, "Mug", "MUG-1", "10.00", 5)
	mug.Vendor = "Acme"
	cap1 := product(2, "Cap", "CAP-1", "12.00", 3)
	cap1.Vendor = "Other"
	fx := newRunnerFixture(t, []shopify.Product{mug, cap1}, nil)

	result, err := fx.runner.RunFull(context.Background(), fx.userID, fx.integration.ID, Filters{Vendor: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.TotalProducts)
	assert.Equal(t, 1, result.Stats.ProductsCreated)
	require.Len(t, fx.targetClient.created, 1)
	assert.Equal(t, "Mug", fx.targetClient.created[0].Title)
}

func TestRunFullNoTargetLocationsFails(t *testing.T) {
	fx := newRunnerFixture(t, []shopify.Product{product(1, "Mug", "MUG-1", "10.00", 5)}, nil)
	fx.targetClient.locations = nil

	result, err := fx.runner.RunFull(context.Background(), fx.userID, fx.integration.ID, Filters{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, domain.SyncStatusFailed, result.Status)
	assert.Contains(t, result.Message, "no locations")
	assert.Zero(t, result.Stats.ProductsCreated)
	assert.Empty(t, fx.targetClient.created)

	final, ok := fx.logs.finalized[result.SyncLogID]
	require.True(t, ok)
	assert.Equal(t, domain.SyncStatusFailed, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Contains(t, *final.ErrorMessage, "no locations")
	assert.Equal(t, []string{"failed"}, fx.integrations.outcomes)
}

func TestRunFullRejectsSelfSync(t *testing.T) {
	fx := newRunnerFixture(t, nil, nil)
	fx.integration.TargetStoreID = fx.integration.SourceStoreID

	_, err := fx.runner.RunFull(context.Background(), fx.userID, fx.integration.ID, Filters{})
	require.Error(t, err)
	_, ok := err.(*errors.ErrValidation)
	assert.True(t, ok)

	// Rejected before any run record exists
	assert.Empty(t, fx.logs.created)
}

func TestRunFullUnknownIntegration(t *testing.T) {
	fx := newRunnerFixture(t, nil, nil)

	_, err := fx.runner.RunFull(context.Background(), fx.userID, uuid.New(), Filters{})
	require.Error(t, err)
	_, ok := err.(*errors.ErrNotFound)
	assert.True(t, ok)
}

func TestRunInventoryWritesAndSkips(t *testing.T) {
	source := []shopify.Product{
		product(1, "Mug", "MUG-1", "10.00", 9), // differs
		product(2, "Cap", "CAP-1", "12.00", 3), // equal
		product(3, "Pin", "PIN-1", "2.00", 8),  // missing in target
	}
	target := []shopify.Product{
		product(50, "Mug", "MUG-1", "8.00", 2),
		product(51, "Cap", "CAP-1", "11.00", 3),
	}
	fx := newRunnerFixture(t, source, target)

	result, err := fx.runner.RunInventory(context.Background(), fx.userID, fx.integration.ID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	// Only products matched in both catalogs count
	assert.Equal(t, 2, result.Stats.TotalMatched)
	assert.Equal(t, 2, result.Stats.ProcessedProducts)
	assert.Equal(t, 2, result.Stats.Success)
	assert.Zero(t, result.Stats.Failed)
	assert.False(t, result.HasMoreProducts)

	require.Len(t, fx.targetClient.inventoryWrites, 1)
	assert.Equal(t, 9, fx.targetClient.inventoryWrites[0].available)

	final, ok := fx.logs.finalized[result.SyncLogID]
	require.True(t, ok)
	assert.Equal(t, domain.SyncStatusCompleted, final.Status)
	assert.Equal(t, 2, final.TotalProducts)
	assert.Equal(t, 1, final.InventoryUpdated)
	assert.Equal(t, 1, final.ProductsSkipped)
}

func TestRunInventoryBatchesMatchedProducts(t *testing.T) {
	var source, target []shopify.Product
	for i := int64(1); i <= 12; i++ {
		sku := "SKU-" + uuid.NewString()[:8]
		source = append(source, product(i, "P", sku, "1.00", 5))
		target = append(target, product(i+100, "P", sku, "1.00", 0))
	}
	fx := newRunnerFixture(t, source, target)

	result, err := fx.runner.RunInventory(context.Background(), fx.userID, fx.integration.ID)
	require.NoError(t, err)

	assert.Equal(t, 12, result.Stats.TotalMatched)
	assert.Equal(t, 10, result.Stats.ProcessedProducts)
	assert.True(t, result.HasMoreProducts)
	assert.Contains(t, result.Message, "Processed 10 of 12 matched products")
	assert.Len(t, fx.targetClient.inventoryWrites, 10)
}

func TestRunInventoryNoTargetLocationsFails(t *testing.T) {
	fx := newRunnerFixture(t, []shopify.Product{product(1, "Mug", "MUG-1", "10.00", 5)}, nil)
	fx.targetClient.locations = nil

	result, err := fx.runner.RunInventory(context.Background(), fx.userID, fx.integration.ID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, domain.SyncStatusFailed, result.Status)

	final, ok := fx.logs.finalized[result.SyncLogID]
	require.True(t, ok)
	assert.Equal(t, domain.SyncStatusFailed, final.Status)
}
