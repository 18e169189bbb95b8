package shopify

import "fmt"

// Endpoint builders for the REST Admin API. The client appends the .json
// suffix and the API version path segment; these produce the bare resource
// path plus query string.

const (
	endpointShop              = "shop"
	endpointInventoryLevelSet = "inventory_levels/set"
	endpointProducts          = "products"
)

func productsPageEndpoint(limit int, sinceID int64) string {
	if sinceID > 0 {
		return fmt.Sprintf("products?limit=%d&since_id=%d", limit, sinceID)
	}
	return fmt.Sprintf("products?limit=%d", limit)
}

func productEndpoint(productID int64) string {
	return fmt.Sprintf("products/%d", productID)
}

func variantEndpoint(variantID int64) string {
	return fmt.Sprintf("variants/%d", variantID)
}

func inventoryItemEndpoint(inventoryItemID int64) string {
	return fmt.Sprintf("inventory_items/%d", inventoryItemID)
}

func inventoryLevelsEndpoint(locationID int64, limit int) string {
	return fmt.Sprintf("inventory_levels?location_ids=%d&limit=%d", locationID, limit)
}

func customCollectionsEndpoint(limit int) string {
	return fmt.Sprintf("custom_collections?limit=%d", limit)
}

func smartCollectionsEndpoint(limit int) string {
	return fmt.Sprintf("smart_collections?limit=%d", limit)
}

func collectionProductsEndpoint(collectionID int64) string {
	return fmt.Sprintf("collections/%d/products", collectionID)
}

const endpointLocations = "locations"
