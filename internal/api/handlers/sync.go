package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/api/middleware"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/sync"
)

const defaultLogLimit = 20

// FullSyncRequest carries optional source catalog filters
type FullSyncRequest struct {
	Vendor       string `json:"vendor"`
	CollectionID int64  `json:"collection_id"`
	HasStock     bool   `json:"has_stock"`
}

// HandleFullSync handles POST /v1/integrations/:id/sync
func HandleFullSync(runner *sync.Runner, logger *zap.Logger) gin.HandlerFunc {
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

		// Filters are optional; an empty body means sync everything
		var req FullSyncRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
				return
			}
		}

		result, err := runner.RunFull(c.Request.Context(), userID, integrationID, sync.Filters{
			Vendor:       req.Vendor,
			CollectionID: req.CollectionID,
			HasStock:     req.HasStock,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// HandleInventorySync handles POST /v1/integrations/:id/sync/inventory
func HandleInventorySync(runner *sync.Runner, logger *zap.Logger) gin.HandlerFunc {
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

		result, err := runner.RunInventory(c.Request.Context(), userID, integrationID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// SyncLogResponse represents one run record
type SyncLogResponse struct {
	ID               string              `json:"id"`
	SyncType         domain.SyncType     `json:"sync_type"`
	Status           domain.SyncStatus   `json:"status"`
	TotalProducts    int                 `json:"total_products"`
	ProductsCreated  int                 `json:"products_created"`
	ProductsUpdated  int                 `json:"products_updated"`
	ProductsFailed   int                 `json:"products_failed"`
	ProductsSkipped  int                 `json:"products_skipped"`
	InventoryUpdated int                 `json:"inventory_updated"`
	StartedAt        string              `json:"started_at"`
	CompletedAt      *string             `json:"completed_at,omitempty"`
	DurationSeconds  *int                `json:"duration_seconds,omitempty"`
	ErrorMessage     *string             `json:"error_message,omitempty"`
	Details          *domain.SyncDetails `json:"details,omitempty"`
}

func syncLogResponse(log *domain.SyncLog, includeDetails bool) SyncLogResponse {
	resp := SyncLogResponse{
		ID:               log.ID.String(),
		SyncType:         log.SyncType,
		Status:           log.Status,
		TotalProducts:    log.TotalProducts,
		ProductsCreated:  log.ProductsCreated,
		ProductsUpdated:  log.ProductsUpdated,
		ProductsFailed:   log.ProductsFailed,
		ProductsSkipped:  log.ProductsSkipped,
		InventoryUpdated: log.InventoryUpdated,
		StartedAt:        log.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationSeconds:  log.DurationSeconds,
		ErrorMessage:     log.ErrorMessage,
	}
	if log.CompletedAt != nil {
		completed := log.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CompletedAt = &completed
	}
	if includeDetails {
		resp.Details = log.Details
	}
	return resp
}

// HandleListSyncLogs handles GET /v1/integrations/:id/logs
func HandleListSyncLogs(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
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

		limit := defaultLogLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			limit = parsed
		}

		logs, err := repos.SyncLog.ListByIntegration(c.Request.Context(), integrationID, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]SyncLogResponse, len(logs))
		for i, log := range logs {
			responses[i] = syncLogResponse(log, false)
		}

		c.JSON(http.StatusOK, gin.H{"logs": responses})
	}
}

// HandleGetSyncLog handles GET /v1/integrations/:id/logs/:logId
func HandleGetSyncLog(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
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

		logID, err := uuid.Parse(c.Param("logId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		if _, err := repos.Integration.GetByID(c.Request.Context(), integrationID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		log, err := repos.SyncLog.GetByID(c.Request.Context(), logID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if log.IntegrationID != integrationID {
			c.JSON(http.StatusNotFound, gin.H{"error": "sync log not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"log": syncLogResponse(log, true)})
	}
}

// HandleListMappings handles GET /v1/integrations/:id/mappings
func HandleListMappings(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
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

		mappings, err := repos.ProductMapping.ListByIntegration(c.Request.Context(), integrationID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		type mappingResponse struct {
			SourceProductID string  `json:"source_product_id"`
			TargetProductID string  `json:"target_product_id"`
			SKU             string  `json:"sku"`
			MappingType     string  `json:"mapping_type"`
			LastSynced      *string `json:"last_synced,omitempty"`
			SyncCount       int     `json:"sync_count"`
		}

		responses := make([]mappingResponse, len(mappings))
		for i, m := range mappings {
			responses[i] = mappingResponse{
				SourceProductID: m.SourceProductID,
				TargetProductID: m.TargetProductID,
				SKU:             m.SKU,
				MappingType:     m.MappingType,
				SyncCount:       m.SyncCount,
			}
			if m.LastSynced != nil {
				last := m.LastSynced.Format("2006-01-02T15:04:05Z07:00")
				responses[i].LastSynced = &last
			}
		}

		c.JSON(http.StatusOK, gin.H{"mappings": responses})
	}
}
