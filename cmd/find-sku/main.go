package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/config"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/repository/postgres"
	"github.com/shopmirror/storesync/internal/shopify"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/find-sku/main.go <user-id> <store-id> <sku>")
		fmt.Println("Example: go run cmd/find-sku/main.go demo-user 6f1c... \"SCM 8502\"")
		os.Exit(1)
	}

	userID := os.Args[1]
	storeIDStr := os.Args[2]
	targetSKU := os.Args[3]

	storeID, err := uuid.Parse(storeIDStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid store ID: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	ctx := context.Background()
	store, err := repos.Store.GetByID(ctx, storeID, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load store: %v\n", err)
		os.Exit(1)
	}

	cipher, err := crypto.NewTokenCipher(cfg.Encryption.Key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid encryption key: %v\n", err)
		os.Exit(1)
	}
	accessToken, err := cipher.Decrypt(store.AccessToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decrypt access token: %v\n", err)
		os.Exit(1)
	}

	client := shopify.NewClient(store.ShopDomain, accessToken, logger)

	fmt.Printf("🔍 Searching %s for SKU: %s\n\n", store.ShopDomain, targetSKU)

	products, err := client.FetchAllProducts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch products: %v\n", err)
		os.Exit(1)
	}

	for _, product := range products {
		for _, variant := range product.Variants {
			if variant.SKU != targetSKU {
				continue
			}

			fmt.Printf("✅ Found SKU!\n\n")
			fmt.Printf("SKU: %s\n", variant.SKU)
			fmt.Printf("Product Title: %s\n", product.Title)
			fmt.Printf("Variant Title: %s\n", variant.Title)
			fmt.Printf("Price: %s\n", variant.Price)
			fmt.Printf("Inventory: %d\n", variant.InventoryQuantity)
			fmt.Printf("\nIDs:\n")
			fmt.Printf("  Product ID: %d\n", product.ID)
			fmt.Printf("  Variant ID: %d\n", variant.ID)
			fmt.Printf("  Inventory Item ID: %d\n", variant.InventoryItemID)
			return
		}
	}

	fmt.Printf("❌ SKU '%s' not found in %s (checked %d products).\n", targetSKU, store.ShopDomain, len(products))
	fmt.Printf("\nMake sure:\n")
	fmt.Printf("  1. The SKU is correct (case-sensitive)\n")
	fmt.Printf("  2. The product is published in Shopify\n")
	fmt.Printf("  3. The variant has a SKU assigned\n")
	os.Exit(1)
}
