package sync

import (
	"github.com/shopspring/decimal"

	"github.com/shopmirror/storesync/internal/shopify"
)

// ComparisonRow is the per-SKU diff between two catalogs
type ComparisonRow struct {
	SKU            string `json:"sku"`
	Title          string `json:"title"`
	SourceQuantity int    `json:"source_quantity"`
	TargetQuantity int    `json:"target_quantity"`
	QuantityDelta  int    `json:"quantity_delta"`
	SourcePrice    string `json:"source_price"`
	TargetPrice    string `json:"target_price,omitempty"`
	PriceDelta     string `json:"price_delta,omitempty"`
	InTarget       bool   `json:"in_target"`
	InSync         bool   `json:"in_sync"`
}

// ComparisonSummary aggregates a comparison report
type ComparisonSummary struct {
	TotalSKUs     int `json:"total_skus"`
	InSync        int `json:"in_sync"`
	OutOfSync     int `json:"out_of_sync"`
	MissingTarget int `json:"missing_in_target"`
}

// CompareInventory produces a read-only diff of the two catalogs keyed by
// source SKU: quantity and price deltas for matched SKUs, and the SKUs the
// target is missing entirely. No writes are issued.
func CompareInventory(sourceProducts, targetProducts []shopify.Product) ([]ComparisonRow, ComparisonSummary) {
	targetIndex := BuildSKUIndex(targetProducts)

	var rows []ComparisonRow
	summary := ComparisonSummary{}

	for _, product := range sourceProducts {
		for _, variant := range product.Variants {
			if variant.SKU == "" {
				continue
			}
			summary.TotalSKUs++

			match, ok := targetIndex[variant.SKU]
			if !ok {
				summary.MissingTarget++
				rows = append(rows, ComparisonRow{
					SKU:            variant.SKU,
					Title:          product.Title,
					SourceQuantity: variant.InventoryQuantity,
					SourcePrice:    variant.Price,
				})
				continue
			}

			row := ComparisonRow{
				SKU:            variant.SKU,
				Title:          product.Title,
				SourceQuantity: variant.InventoryQuantity,
				TargetQuantity: match.Variant.InventoryQuantity,
				QuantityDelta:  variant.InventoryQuantity - match.Variant.InventoryQuantity,
				SourcePrice:    variant.Price,
				TargetPrice:    match.Variant.Price,
				PriceDelta:     priceDelta(variant.Price, match.Variant.Price),
				InTarget:       true,
			}
			row.InSync = row.QuantityDelta == 0 && row.PriceDelta == "0"
			if row.InSync {
				summary.InSync++
			} else {
				summary.OutOfSync++
			}
			rows = append(rows, row)
		}
	}

	return rows, summary
}

// priceDelta computes source minus target as a decimal string; prices on the
// wire are decimal strings and must not be diffed as floats
func priceDelta(sourcePrice, targetPrice string) string {
	src, err := decimal.NewFromString(sourcePrice)
	if err != nil {
		return ""
	}
	tgt, err := decimal.NewFromString(targetPrice)
	if err != nil {
		return ""
	}
	return src.Sub(tgt).String()
}
