package sync

import (
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/shopify"
)

// Field sync policy: projects a source product/variant into the minimal
// write payload allowed by the integration's settings. A disabled flag means
// the field is omitted from the write entirely, so unrelated target-side
// values stay untouched on update.

const (
	// A created variant must be tracked by Shopify and deny overselling,
	// otherwise later inventory syncs have nothing to write against.
	inventoryManagementShopify = "shopify"
	inventoryPolicyDeny        = "deny"

	placeholderTitle = "New product"
	statusDraft      = "draft"
)

// VariantUpdatePayload builds the variant-level update for an existing match
func VariantUpdatePayload(settings *domain.SyncSettings, v shopify.Variant) shopify.VariantPayload {
	var payload shopify.VariantPayload

	if settings.SyncPrice {
		price := v.Price
		payload.Price = &price
	}
	if settings.SyncComparePrice {
		payload.CompareAtPrice = v.CompareAtPrice
	}
	if settings.SyncSKU {
		sku := v.SKU
		payload.SKU = &sku
	}
	if settings.SyncBarcode {
		barcode := v.Barcode
		payload.Barcode = &barcode
	}
	if settings.SyncWeight {
		weight := v.Weight
		unit := v.WeightUnit
		payload.Weight = &weight
		payload.WeightUnit = &unit
	}

	return payload
}

// ProductUpdatePayload builds the product-level update for an existing match
func ProductUpdatePayload(settings *domain.SyncSettings, p shopify.Product) shopify.ProductPayload {
	var payload shopify.ProductPayload

	if settings.SyncTitle {
		title := p.Title
		payload.Title = &title
	}
	if settings.SyncDescription {
		body := p.BodyHTML
		payload.BodyHTML = &body
	}
	if settings.SyncVendor {
		vendor := p.Vendor
		payload.Vendor = &vendor
	}
	if settings.SyncProductType {
		ptype := p.ProductType
		payload.ProductType = &ptype
	}
	if settings.SyncTags {
		tags := p.Tags
		payload.Tags = &tags
	}
	if settings.SyncStatus {
		status := p.Status
		payload.Status = &status
	}

	return payload
}

// NewProductPayload builds the full creation payload for a product absent
// from the target. Disabled flags fall back to neutral defaults; in
// particular a product is created as a draft unless the status flag says to
// mirror the source, so the merchant never publishes by accident.
func NewProductPayload(settings *domain.SyncSettings, p shopify.Product, v shopify.Variant) shopify.NewProduct {
	product := shopify.NewProduct{
		Title:  placeholderTitle,
		Status: statusDraft,
	}

	if settings.SyncTitle {
		product.Title = p.Title
	}
	if settings.SyncDescription {
		product.BodyHTML = p.BodyHTML
	}
	if settings.SyncVendor {
		product.Vendor = p.Vendor
	}
	if settings.SyncProductType {
		product.ProductType = p.ProductType
	}
	if settings.SyncTags {
		product.Tags = p.Tags
	}
	if settings.SyncStatus {
		product.Status = p.Status
	}

	variant := shopify.NewVariant{
		Price: "0.00",
		// Always tracked, regardless of settings
		InventoryManagement: inventoryManagementShopify,
		InventoryPolicy:     inventoryPolicyDeny,
	}
	if settings.SyncSKU {
		variant.SKU = v.SKU
	}
	if settings.SyncPrice {
		variant.Price = v.Price
	}
	if settings.SyncComparePrice {
		variant.CompareAtPrice = v.CompareAtPrice
	}
	if settings.SyncBarcode && v.Barcode != "" {
		barcode := v.Barcode
		variant.Barcode = &barcode
	}
	if settings.SyncWeight {
		weight := v.Weight
		variant.Weight = &weight
		variant.WeightUnit = v.WeightUnit
	}
	if settings.SyncInventory {
		variant.InventoryQuantity = v.InventoryQuantity
	}
	product.Variants = []shopify.NewVariant{variant}

	if settings.SyncImages && len(p.Images) > 0 {
		images := make([]shopify.ImageSrc, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, shopify.ImageSrc{Src: img.Src})
		}
		product.Images = images
	}

	return product
}
