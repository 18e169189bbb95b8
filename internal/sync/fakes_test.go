package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/shopify"
)

// fakeCatalog records every write issued against a store and serves canned
// catalog data.
type fakeCatalog struct {
	mu sync.Mutex

	products  []shopify.Product
	locations []shopify.Location

	fetchErr     error
	locationsErr error
	createErr    error
	inventoryErr error

	created         []shopify.NewProduct
	productUpdates  map[int64]shopify.ProductPayload
	variantUpdates  map[int64]shopify.VariantPayload
	trackingCalls   []int64
	inventoryWrites []inventoryWrite

	nextProductID int64
}

type inventoryWrite struct {
	locationID      int64
	inventoryItemID int64
	available       int
}

func newFakeCatalog(products ...shopify.Product) *fakeCatalog {
	return &fakeCatalog{
		products:       products,
		locations:      []shopify.Location{{ID: 1001, Name: "Main", Active: true}},
		productUpdates: map[int64]shopify.ProductPayload{},
		variantUpdates: map[int64]shopify.VariantPayload{},
		nextProductID:  9000,
	}
}

func (f *fakeCatalog) FetchAllProducts(ctx context.Context) ([]shopify.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.products, nil
}

func (f *fakeCatalog) FetchLocations(ctx context.Context) ([]shopify.Location, error) {
	if f.locationsErr != nil {
		return nil, f.locationsErr
	}
	return f.locations, nil
}

func (f *fakeCatalog) FetchCollectionProducts(ctx context.Context, collectionID int64) ([]shopify.Product, error) {
	return nil, fmt.Errorf("no collections in fake")
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, product shopify.NewProduct) (*shopify.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, product)
	f.nextProductID++
	return &shopify.Product{ID: f.nextProductID, Title: product.Title}, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, productID int64, payload shopify.ProductPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productUpdates[productID] = payload
	return nil
}

func (f *fakeCatalog) UpdateVariant(ctx context.Context, variantID int64, payload shopify.VariantPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variantUpdates[variantID] = payload
	return nil
}

func (f *fakeCatalog) SetInventoryTracking(ctx context.Context, inventoryItemID int64, tracked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackingCalls = append(f.trackingCalls, inventoryItemID)
	return nil
}

func (f *fakeCatalog) SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inventoryErr != nil {
		return f.inventoryErr
	}
	f.inventoryWrites = append(f.inventoryWrites, inventoryWrite{locationID, inventoryItemID, available})
	return nil
}

// fakeMappings records mapping upserts in memory
type fakeMappings struct {
	mu      sync.Mutex
	upserts []mappingUpsert
	err     error
}

type mappingUpsert struct {
	integrationID   uuid.UUID
	sourceProductID string
	targetProductID string
	sku             string
	mappingType     string
}

func (f *fakeMappings) Upsert(ctx context.Context, integrationID uuid.UUID, sourceProductID, targetProductID, sku, mappingType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, mappingUpsert{integrationID, sourceProductID, targetProductID, sku, mappingType})
	return nil
}

// product builds a single-variant source product for tests
func product(id int64, title, sku, price string, qty int) shopify.Product {
	return shopify.Product{
		ID:     id,
		Title:  title,
		Status: "active",
		Variants: []shopify.Variant{{
			ID:                id * 10,
			ProductID:         id,
			SKU:               sku,
			Price:             price,
			InventoryItemID:   id * 100,
			InventoryQuantity: qty,
		}},
	}
}

// quietReconciler builds a reconciler with all pacing delays disabled
func quietReconciler(target CatalogClient, mappings MappingStore) *Reconciler {
	return &Reconciler{
		target:   target,
		mappings: mappings,
		logger:   zap.NewNop(),
	}
}
