package sync

import "github.com/shopmirror/storesync/internal/shopify"

// IndexEntry is the (product, variant) pair owning one SKU in a catalog
type IndexEntry struct {
	Product shopify.Product
	Variant shopify.Variant
}

// BuildSKUIndex converts a product list into a SKU-keyed lookup. Variants
// without a SKU are unreachable by SKU matching and are left out; downstream
// reporting surfaces them. If a SKU repeats across variants the last-seen
// pair wins.
func BuildSKUIndex(products []shopify.Product) map[string]IndexEntry {
	index := make(map[string]IndexEntry)
	for _, product := range products {
		for _, variant := range product.Variants {
			if variant.SKU == "" {
				continue
			}
			index[variant.SKU] = IndexEntry{Product: product, Variant: variant}
		}
	}
	return index
}
