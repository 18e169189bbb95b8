package shopify

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchShop returns the shop's own metadata; used for connection tests
func (c *Client) FetchShop(ctx context.Context) (*Shop, error) {
	body, err := c.Request(ctx, endpointShop, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapObject[Shop](body, "shop")
}

// FetchProduct returns a single product by id
func (c *Client) FetchProduct(ctx context.Context, productID int64) (*Product, error) {
	body, err := c.Request(ctx, productEndpoint(productID), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapObject[Product](body, "product")
}

// FetchProducts returns a single page of products
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]Product, error) {
	body, err := c.Request(ctx, productsPageEndpoint(limit, 0), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[Product](body, "products")
}

// FetchAllProducts walks the full catalog using since_id pagination in pages
// of up to 250, sleeping between pages to respect upstream rate limits.
// Products come back ordered by increasing id. A page that fails to parse is
// treated as the final page and the partial result is returned; callers get
// what the API could deliver rather than nothing.
func (c *Client) FetchAllProducts(ctx context.Context) ([]Product, error) {
	var all []Product
	var sinceID int64

	for {
		body, err := c.Request(ctx, productsPageEndpoint(pageSize, sinceID), http.MethodGet, nil)
		if err != nil {
			return nil, err
		}

		page, err := unwrapList[Product](body, "products")
		if err != nil {
			c.logger.Warn("unparseable products page, returning partial catalog",
				zap.String("shop", c.shopDomain),
				zap.Int64("since_id", sinceID),
				zap.Int("fetched", len(all)),
				zap.Error(err),
			)
			return all, nil
		}

		if len(page) == 0 {
			return all, nil
		}

		all = append(all, page...)
		sinceID = page[len(page)-1].ID

		if len(page) < pageSize {
			return all, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}
}

// FetchLocations returns the store's warehouse locations
func (c *Client) FetchLocations(ctx context.Context) ([]Location, error) {
	body, err := c.Request(ctx, endpointLocations, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[Location](body, "locations")
}

// FetchInventoryLevels returns quantity-on-hand records for every inventory
// item at one location
func (c *Client) FetchInventoryLevels(ctx context.Context, locationID int64) ([]InventoryLevel, error) {
	body, err := c.Request(ctx, inventoryLevelsEndpoint(locationID, pageSize), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[InventoryLevel](body, "inventory_levels")
}

// FetchCollections returns custom and smart collections merged into one list,
// tagged with their collection type
func (c *Client) FetchCollections(ctx context.Context) ([]Collection, error) {
	var custom, smart []Collection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := c.Request(gctx, customCollectionsEndpoint(pageSize), http.MethodGet, nil)
		if err != nil {
			return err
		}
		custom, err = unwrapList[Collection](body, "custom_collections")
		return err
	})
	g.Go(func() error {
		body, err := c.Request(gctx, smartCollectionsEndpoint(pageSize), http.MethodGet, nil)
		if err != nil {
			return err
		}
		smart, err = unwrapList[Collection](body, "smart_collections")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]Collection, 0, len(custom)+len(smart))
	for _, col := range custom {
		col.CollectionType = "custom"
		all = append(all, col)
	}
	for _, col := range smart {
		col.CollectionType = "smart"
		all = append(all, col)
	}
	return all, nil
}

// FetchCollectionProducts returns the products belonging to one collection
func (c *Client) FetchCollectionProducts(ctx context.Context, collectionID int64) ([]Product, error) {
	body, err := c.Request(ctx, collectionProductsEndpoint(collectionID), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[Product](body, "products")
}

// CreateProduct creates a product on the store and returns the created record
func (c *Client) CreateProduct(ctx context.Context, product NewProduct) (*Product, error) {
	body, err := c.Request(ctx, endpointProducts, http.MethodPost, map[string]interface{}{
		"product": product,
	})
	if err != nil {
		return nil, err
	}
	return unwrapObject[Product](body, "product")
}

// UpdateProduct applies a partial product update
func (c *Client) UpdateProduct(ctx context.Context, productID int64, payload ProductPayload) error {
	_, err := c.Request(ctx, productEndpoint(productID), http.MethodPut, map[string]interface{}{
		"product": payload,
	})
	return err
}

// UpdateVariant applies a partial variant update
func (c *Client) UpdateVariant(ctx context.Context, variantID int64, payload VariantPayload) error {
	_, err := c.Request(ctx, variantEndpoint(variantID), http.MethodPut, map[string]interface{}{
		"variant": payload,
	})
	return err
}

// SetInventoryTracking marks an inventory item as tracked (or not). A newly
// created variant must be tracked for inventory syncs to have any effect.
func (c *Client) SetInventoryTracking(ctx context.Context, inventoryItemID int64, tracked bool) error {
	_, err := c.Request(ctx, inventoryItemEndpoint(inventoryItemID), http.MethodPut, map[string]interface{}{
		"inventory_item": map[string]interface{}{"tracked": tracked},
	})
	return err
}

// SetInventoryLevel sets the absolute available quantity for one inventory
// item at one location
func (c *Client) SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error {
	_, err := c.Request(ctx, endpointInventoryLevelSet, http.MethodPost, map[string]interface{}{
		"location_id":       locationID,
		"inventory_item_id": inventoryItemID,
		"available":         available,
	})
	return err
}
