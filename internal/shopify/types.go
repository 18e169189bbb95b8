package shopify

// Product is a Shopify REST Admin API product
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Tags        string    `json:"tags"`
	Status      string    `json:"status"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
	Options     []Option  `json:"options"`
}

// Variant is one purchasable configuration of a product. InventoryItemID is
// the handle used for stock operations and is distinct from the variant ID.
type Variant struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"product_id"`
	Title             string  `json:"title"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	CompareAtPrice    *string `json:"compare_at_price"`
	Barcode           string  `json:"barcode"`
	Weight            float64 `json:"weight"`
	WeightUnit        string  `json:"weight_unit"`
	InventoryItemID   int64   `json:"inventory_item_id"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Option1           string  `json:"option1,omitempty"`
	Option2           string  `json:"option2,omitempty"`
	Option3           string  `json:"option3,omitempty"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Location is a warehouse/fulfillment point
type Location struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// InventoryLevel is the quantity on hand for one inventory item at one location
type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
}

// Collection is either a custom (manually curated) or smart (rule based)
// collection; CollectionType records which endpoint it came from.
type Collection struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Handle         string `json:"handle"`
	CollectionType string `json:"collection_type,omitempty"`
}

type Shop struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Domain    string `json:"domain"`
	Currency  string `json:"currency"`
	Timezone  string `json:"timezone"`
	ShopOwner string `json:"shop_owner"`
}
