package sync

import (
	"context"

	"github.com/shopmirror/storesync/internal/shopify"
)

// CatalogClient is the slice of the Shopify client the sync engine drives.
// *shopify.Client satisfies it; tests substitute fakes.
type CatalogClient interface {
	FetchAllProducts(ctx context.Context) ([]shopify.Product, error)
	FetchLocations(ctx context.Context) ([]shopify.Location, error)
	FetchCollectionProducts(ctx context.Context, collectionID int64) ([]shopify.Product, error)
	CreateProduct(ctx context.Context, product shopify.NewProduct) (*shopify.Product, error)
	UpdateProduct(ctx context.Context, productID int64, payload shopify.ProductPayload) error
	UpdateVariant(ctx context.Context, variantID int64, payload shopify.VariantPayload) error
	SetInventoryTracking(ctx context.Context, inventoryItemID int64, tracked bool) error
	SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error
}
