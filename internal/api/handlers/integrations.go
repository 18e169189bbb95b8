package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/api/middleware"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
)

// CreateIntegrationRequest represents the integration creation request
type CreateIntegrationRequest struct {
	Name          string `json:"name" binding:"required"`
	SourceStoreID string `json:"source_store_id" binding:"required"`
	TargetStoreID string `json:"target_store_id" binding:"required"`
}

// IntegrationResponse represents an integration with joined store info
type IntegrationResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	SourceStoreID     string  `json:"source_store_id"`
	TargetStoreID     string  `json:"target_store_id"`
	SourceStoreName   string  `json:"source_store_name"`
	SourceStoreDomain string  `json:"source_store_domain"`
	TargetStoreName   string  `json:"target_store_name"`
	TargetStoreDomain string  `json:"target_store_domain"`
	IsActive          bool    `json:"is_active"`
	LastSync          *string `json:"last_sync,omitempty"`
	LastSyncStatus    *string `json:"last_sync_status,omitempty"`
	TotalSyncs        int     `json:"total_syncs"`
	CreatedAt         string  `json:"created_at"`
}

func integrationResponse(i *domain.Integration) IntegrationResponse {
	resp := IntegrationResponse{
		ID:                i.ID.String(),
		Name:              i.Name,
		SourceStoreID:     i.SourceStoreID.String(),
		TargetStoreID:     i.TargetStoreID.String(),
		SourceStoreName:   i.SourceStoreName,
		SourceStoreDomain: i.SourceStoreDomain,
		TargetStoreName:   i.TargetStoreName,
		TargetStoreDomain: i.TargetStoreDomain,
		IsActive:          i.IsActive,
		LastSyncStatus:    i.LastSyncStatus,
		TotalSyncs:        i.TotalSyncs,
		CreatedAt:         i.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if i.LastSync != nil {
		lastSync := i.LastSync.Format("2006-01-02T15:04:05Z07:00")
		resp.LastSync = &lastSync
	}
	return resp
}

// HandleListIntegrations handles GET /v1/integrations
func HandleListIntegrations(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		integrations, err := repos.Integration.GetByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]IntegrationResponse, len(integrations))
		for i, integ := range integrations {
			responses[i] = integrationResponse(integ)
		}

		c.JSON(http.StatusOK, gin.H{"integrations": responses})
	}
}

// HandleCreateIntegration handles POST /v1/integrations
func HandleCreateIntegration(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		sourceID, err := uuid.Parse(req.SourceStoreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source store ID"})
			return
		}
		targetID, err := uuid.Parse(req.TargetStoreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target store ID"})
			return
		}
		if sourceID == targetID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "source and target stores must differ"})
			return
		}

		// Both stores must belong to the caller
		if _, err := repos.Store.GetByID(c.Request.Context(), sourceID, userID); err != nil {
			respondError(c, logger, err)
			return
		}
		if _, err := repos.Store.GetByID(c.Request.Context(), targetID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		integration := &domain.Integration{
			UserID:        userID,
			Name:          req.Name,
			SourceStoreID: sourceID,
			TargetStoreID: targetID,
			IsActive:      true,
		}

		if err := repos.Integration.Upsert(c.Request.Context(), integration); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Integration created",
			zap.String("integration_id", integration.ID.String()),
			zap.String("user_id", userID))

		c.JSON(http.StatusCreated, gin.H{"integration": integrationResponse(integration)})
	}
}

// HandleDeleteIntegration handles DELETE /v1/integrations/:id
func HandleDeleteIntegration(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		integrationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid integration ID"})
			return
		}

		if err := repos.Integration.Deactivate(c.Request.Context(), integrationID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "integration removed"})
	}
}

// SyncSettingsPayload mirrors the persisted per-field flags
type SyncSettingsPayload struct {
	SyncTitle        bool   `json:"sync_title"`
	SyncDescription  bool   `json:"sync_description"`
	SyncPrice        bool   `json:"sync_price"`
	SyncComparePrice bool   `json:"sync_compare_price"`
	SyncSKU          bool   `json:"sync_sku"`
	SyncBarcode      bool   `json:"sync_barcode"`
	SyncTags         bool   `json:"sync_tags"`
	SyncVendor       bool   `json:"sync_vendor"`
	SyncProductType  bool   `json:"sync_product_type"`
	SyncWeight       bool   `json:"sync_weight"`
	SyncInventory    bool   `json:"sync_inventory"`
	SyncImages       bool   `json:"sync_images"`
	SyncStatus       bool   `json:"sync_status"`
	SyncNewProducts  bool   `json:"sync_new_products"`
	AutoSync         bool   `json:"auto_sync"`
	SyncFrequency    string `json:"sync_frequency"`
}

// HandleGetSyncSettings handles GET /v1/integrations/:id/settings
func HandleGetSyncSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		integrationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid integration ID"})
			return
		}

		if _, err := repos.Integration.GetByID(c.Request.Context(), integrationID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		settings, err := repos.SyncSettings.GetByIntegration(c.Request.Context(), integrationID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": SyncSettingsPayload{
			SyncTitle:        settings.SyncTitle,
			SyncDescription:  settings.SyncDescription,
			SyncPrice:        settings.SyncPrice,
			SyncComparePrice: settings.SyncComparePrice,
			SyncSKU:          settings.SyncSKU,
			SyncBarcode:      settings.SyncBarcode,
			SyncTags:         settings.SyncTags,
			SyncVendor:       settings.SyncVendor,
			SyncProductType:  settings.SyncProductType,
			SyncWeight:       settings.SyncWeight,
			SyncInventory:    settings.SyncInventory,
			SyncImages:       settings.SyncImages,
			SyncStatus:       settings.SyncStatus,
			SyncNewProducts:  settings.SyncNewProducts,
			AutoSync:         settings.AutoSync,
			SyncFrequency:    settings.SyncFrequency,
		}})
	}
}

// HandleUpdateSyncSettings handles PUT /v1/integrations/:id/settings
func HandleUpdateSyncSettings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		integrationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid integration ID"})
			return
		}

		if _, err := repos.Integration.GetByID(c.Request.Context(), integrationID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		var req SyncSettingsPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		if req.SyncFrequency == "" {
			req.SyncFrequency = "manual"
		}

		settings := &domain.SyncSettings{
			IntegrationID:    integrationID,
			SyncTitle:        req.SyncTitle,
			SyncDescription:  req.SyncDescription,
			SyncPrice:        req.SyncPrice,
			SyncComparePrice: req.SyncComparePrice,
			SyncSKU:          req.SyncSKU,
			SyncBarcode:      req.SyncBarcode,
			SyncTags:         req.SyncTags,
			SyncVendor:       req.SyncVendor,
			SyncProductType:  req.SyncProductType,
			SyncWeight:       req.SyncWeight,
			SyncInventory:    req.SyncInventory,
			SyncImages:       req.SyncImages,
			SyncStatus:       req.SyncStatus,
			SyncNewProducts:  req.SyncNewProducts,
			AutoSync:         req.AutoSync,
			SyncFrequency:    req.SyncFrequency,
		}

		if err := repos.SyncSettings.Upsert(c.Request.Context(), settings); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
	}
}
