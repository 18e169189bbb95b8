package shopify

// Write payloads. Fields are pointers so an unset field is omitted from the
// JSON body entirely and the corresponding target-side value is left
// untouched on update.

// VariantPayload is a partial variant update
type VariantPayload struct {
	Price          *string  `json:"price,omitempty"`
	CompareAtPrice *string  `json:"compare_at_price,omitempty"`
	SKU            *string  `json:"sku,omitempty"`
	Barcode        *string  `json:"barcode,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	WeightUnit     *string  `json:"weight_unit,omitempty"`
}

// IsEmpty reports whether the payload carries no fields to write
func (p VariantPayload) IsEmpty() bool {
	return p.Price == nil && p.CompareAtPrice == nil && p.SKU == nil &&
		p.Barcode == nil && p.Weight == nil && p.WeightUnit == nil
}

// ProductPayload is a partial product update
type ProductPayload struct {
	Title       *string `json:"title,omitempty"`
	BodyHTML    *string `json:"body_html,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// IsEmpty reports whether the payload carries no fields to write
func (p ProductPayload) IsEmpty() bool {
	return p.Title == nil && p.BodyHTML == nil && p.Vendor == nil &&
		p.ProductType == nil && p.Tags == nil && p.Status == nil
}

// NewVariant is the variant section of a product creation payload
type NewVariant struct {
	SKU                 string   `json:"sku"`
	Price               string   `json:"price"`
	CompareAtPrice      *string  `json:"compare_at_price,omitempty"`
	Barcode             *string  `json:"barcode,omitempty"`
	Weight              *float64 `json:"weight,omitempty"`
	WeightUnit          string   `json:"weight_unit,omitempty"`
	InventoryQuantity   int      `json:"inventory_quantity"`
	InventoryManagement string   `json:"inventory_management,omitempty"`
	InventoryPolicy     string   `json:"inventory_policy,omitempty"`
}

// NewProduct is a full product creation payload
type NewProduct struct {
	Title       string       `json:"title"`
	BodyHTML    string       `json:"body_html"`
	Vendor      string       `json:"vendor"`
	ProductType string       `json:"product_type"`
	Tags        string       `json:"tags"`
	Status      string       `json:"status"`
	Variants    []NewVariant `json:"variants"`
	Images      []ImageSrc   `json:"images,omitempty"`
}

// ImageSrc carries only the source URL; the target platform re-fetches and
// re-hosts the image itself.
type ImageSrc struct {
	Src string `json:"src"`
}
