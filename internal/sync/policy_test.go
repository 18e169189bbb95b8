package sync

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/shopify"
)

func allEnabled() *domain.SyncSettings {
	return domain.DefaultSyncSettings(uuid.New())
}

func TestVariantUpdatePayloadRespectsFlags(t *testing.T) {
	compareAt := "15.00"
	variant := shopify.Variant{
		SKU:            "A1",
		Price:          "10.00",
		CompareAtPrice: &compareAt,
		Barcode:        "123456",
		Weight:         1.5,
		WeightUnit:     "kg",
	}

	payload := VariantUpdatePayload(allEnabled(), variant)
	require.False(t, payload.IsEmpty())
	assert.Equal(t, "10.00", *payload.Price)
	assert.Equal(t, "15.00", *payload.CompareAtPrice)
	assert.Equal(t, "A1", *payload.SKU)
	assert.Equal(t, "123456", *payload.Barcode)
	assert.Equal(t, 1.5, *payload.Weight)
	assert.Equal(t, "kg", *payload.WeightUnit)

	settings := allEnabled()
	settings.SyncPrice = false
	settings.SyncComparePrice = false
	settings.SyncWeight = false
	payload = VariantUpdatePayload(settings, variant)
	assert.Nil(t, payload.Price)
	assert.Nil(t, payload.CompareAtPrice)
	assert.Nil(t, payload.Weight)
	assert.NotNil(t, payload.SKU)
}

func TestVariantUpdatePayloadAllDisabledIsEmpty(t *testing.T) {
	settings := &domain.SyncSettings{}
	payload := VariantUpdatePayload(settings, shopify.Variant{SKU: "A1", Price: "10.00"})
	assert.True(t, payload.IsEmpty())
}

func TestProductUpdatePayloadRespectsFlags(t *testing.T) {
	source := shopify.Product{
		Title:       "Mug",
		BodyHTML:    "<p>desc</p>",
		Vendor:      "Acme",
		ProductType: "Drinkware",
		Tags:        "kitchen, ceramic",
		Status:      "active",
	}

	payload := ProductUpdatePayload(allEnabled(), source)
	require.False(t, payload.IsEmpty())
	assert.Equal(t, "Mug", *payload.Title)
	assert.Equal(t, "active", *payload.Status)

	settings := allEnabled()
	settings.SyncTitle = false
	settings.SyncStatus = false
	payload = ProductUpdatePayload(settings, source)
	assert.Nil(t, payload.Title)
	assert.Nil(t, payload.Status)
	assert.Equal(t, "Acme", *payload.Vendor)
}

func TestNewProductPayloadMirrorsSource(t *testing.T) {
	source := shopify.Product{
		Title:    "Mug",
		BodyHTML: "<p>desc</p>",
		Vendor:   "Acme",
		Status:   "active",
		Images:   []shopify.Image{{Src: "https://cdn/img1.png"}, {Src: "https://cdn/img2.png"}},
	}
	variant := shopify.Variant{
		SKU:               "A1",
		Price:             "10.00",
		Weight:            2.0,
		WeightUnit:        "lb",
		InventoryQuantity: 5,
	}

	product := NewProductPayload(allEnabled(), source, variant)

	assert.Equal(t, "Mug", product.Title)
	assert.Equal(t, "active", product.Status)
	require.Len(t, product.Variants, 1)
	v := product.Variants[0]
	assert.Equal(t, "A1", v.SKU)
	assert.Equal(t, "10.00", v.Price)
	assert.Equal(t, 5, v.InventoryQuantity)
	assert.Equal(t, 2.0, *v.Weight)
	assert.Equal(t, "lb", v.WeightUnit)
	require.Len(t, product.Images, 2)
	assert.Equal(t, "https://cdn/img1.png", product.Images[0].Src)
}

func TestNewProductPayloadDisabledFlagsFallBackToDefaults(t *testing.T) {
	settings := &domain.SyncSettings{}
	source := shopify.Product{Title: "Mug", Status: "active", Images: []shopify.Image{{Src: "x"}}}
	variant := shopify.Variant{SKU: "A1", Price: "10.00", InventoryQuantity: 5, Barcode: "b"}

	product := NewProductPayload(settings, source, variant)

	assert.Equal(t, "New product", product.Title)
	assert.Equal(t, "draft", product.Status)
	assert.Empty(t, product.Images)
	require.Len(t, product.Variants, 1)
	v := product.Variants[0]
	assert.Empty(t, v.SKU)
	assert.Equal(t, "0.00", v.Price)
	assert.Zero(t, v.InventoryQuantity)
	assert.Nil(t, v.Barcode)
}

func TestNewProductPayloadAlwaysForcesTracking(t *testing.T) {
	for _, settings := range []*domain.SyncSettings{allEnabled(), {}} {
		product := NewProductPayload(settings, shopify.Product{}, shopify.Variant{})
		require.Len(t, product.Variants, 1)
		assert.Equal(t, "shopify", product.Variants[0].InventoryManagement)
		assert.Equal(t, "deny", product.Variants[0].InventoryPolicy)
	}
}
