package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/config"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository/postgres"
	"github.com/shopmirror/storesync/internal/shopify"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: go run cmd/add-store/main.go <user-id> <store-name> <shop-domain> <access-token>")
		fmt.Println("Example: go run cmd/add-store/main.go demo-user \"Main Store\" my-shop.myshopify.com shpat_xxx")
		os.Exit(1)
	}

	userID := os.Args[1]
	storeName := os.Args[2]
	shopDomain := os.Args[3]
	accessToken := os.Args[4]

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

	// Verify credentials against the live shop before saving anything
	client := shopify.NewClient(shopDomain, accessToken, logger)
	shop, err := client.FetchShop(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection test failed: %v\n", err)
		os.Exit(1)
	}

	// Encrypt the access token
	cipher, err := crypto.NewTokenCipher(cfg.Encryption.Key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid encryption key: %v\n", err)
		os.Exit(1)
	}
	encrypted, err := cipher.Encrypt(accessToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encrypt access token: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	store := &domain.Store{
		UserID:      userID,
		Name:        storeName,
		ShopDomain:  client.ShopDomain(),
		AccessToken: encrypted,
		ShopInfo: map[string]interface{}{
			"name":     shop.Name,
			"email":    shop.Email,
			"domain":   shop.Domain,
			"currency": shop.Currency,
			"timezone": shop.Timezone,
		},
		IsActive: true,
	}

	err = repos.Store.Upsert(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save store: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Store registered successfully!\n\n")
	fmt.Printf("Store ID: %s\n", store.ID.String())
	fmt.Printf("Store Name: %s\n", store.Name)
	fmt.Printf("Shop Domain: %s\n", store.ShopDomain)
	fmt.Printf("Shop: %s (%s)\n", shop.Name, shop.Currency)
	fmt.Printf("\nUse this store ID when creating an integration.\n")
}
