package domain

import (
	"time"

	"github.com/google/uuid"
)

// Store represents one connected Shopify account. The access token is held
// encrypted; it is decrypted only for the duration of an API call.
type Store struct {
	ID         uuid.UUID
	UserID     string
	Name       string
	ShopDomain string
	// AccessToken is the AES-GCM encrypted token as stored in the database
	AccessToken string
	ShopInfo    map[string]interface{} // JSONB
	IsActive    bool
	LastSync    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Integration pairs a source store with a target store. Sync settings and run
// history hang off the integration.
type Integration struct {
	ID             uuid.UUID
	UserID         string
	Name           string
	SourceStoreID  uuid.UUID
	TargetStoreID  uuid.UUID
	IsActive       bool
	LastSync       *time.Time
	LastSyncStatus *string
	TotalSyncs     int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined store fields, populated by list/get queries
	SourceStoreName   string
	SourceStoreDomain string
	TargetStoreName   string
	TargetStoreDomain string
}

// SyncSettings controls which fields a sync run writes to the target store.
// One record per integration; missing records mean "everything enabled".
type SyncSettings struct {
	ID            uuid.UUID
	IntegrationID uuid.UUID

	SyncTitle          bool
	SyncDescription    bool
	SyncPrice          bool
	SyncComparePrice   bool
	SyncSKU            bool
	SyncBarcode        bool
	SyncTags           bool
	SyncVendor         bool
	SyncProductType    bool
	SyncWeight         bool
	SyncInventory      bool
	SyncImages         bool
	SyncStatus         bool
	SyncNewProducts    bool

	AutoSync      bool
	SyncFrequency string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSyncSettings returns settings with every field flag enabled, used
// when an integration has no persisted settings record yet.
func DefaultSyncSettings(integrationID uuid.UUID) *SyncSettings {
	return &SyncSettings{
		IntegrationID:    integrationID,
		SyncTitle:        true,
		SyncDescription:  true,
		SyncPrice:        true,
		SyncComparePrice: true,
		SyncSKU:          true,
		SyncBarcode:      true,
		SyncTags:         true,
		SyncVendor:       true,
		SyncProductType:  true,
		SyncWeight:       true,
		SyncInventory:    true,
		SyncImages:       true,
		SyncStatus:       true,
		SyncNewProducts:  true,
		SyncFrequency:    "manual",
	}
}

// SyncLog is the durable record of one sync run. Created with status
// "running" at run start and finalized exactly once at run end.
type SyncLog struct {
	ID            uuid.UUID
	IntegrationID uuid.UUID
	SyncType      SyncType
	Status        SyncStatus

	TotalProducts    int
	ProductsCreated  int
	ProductsUpdated  int
	ProductsFailed   int
	ProductsSkipped  int
	InventoryUpdated int

	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *int
	ErrorMessage    *string
	Details         *SyncDetails // JSONB

	CreatedAt time.Time
}

// SyncDetails is the per-run payload stored alongside the aggregate counters.
type SyncDetails struct {
	Products []ProductDetail `json:"products"`
	Warnings []string        `json:"warnings"`
	Errors   []ProductError  `json:"errors"`
}

// ProductDetail records the outcome for a single source product.
type ProductDetail struct {
	SourceProductID int64          `json:"source_product_id"`
	TargetProductID int64          `json:"target_product_id,omitempty"`
	SKU             string         `json:"sku,omitempty"`
	Title           string         `json:"title"`
	Status          ProductOutcome `json:"status"`
	Message         string         `json:"message,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// ProductError records a product that blew up outside the normal outcome paths.
type ProductError struct {
	ProductID int64  `json:"product_id"`
	Error     string `json:"error"`
}

// ProductMapping remembers which source product became which target product.
// It is audit data; matching is always redone by SKU on the next run.
type ProductMapping struct {
	ID              uuid.UUID
	IntegrationID   uuid.UUID
	SourceProductID string
	TargetProductID string
	SKU             string
	MappingType     string
	LastSynced      *time.Time
	SyncCount       int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
