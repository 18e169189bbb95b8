package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/api/middleware"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/domain"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/shopify"
)

// CreateStoreRequest represents the store registration request
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	ShopDomain  string `json:"shop_domain" binding:"required"`
	AccessToken string `json:"access_token" binding:"required"`
}

// StoreResponse represents a store without its access token
type StoreResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	ShopDomain string                 `json:"shop_domain"`
	ShopInfo   map[string]interface{} `json:"shop_info,omitempty"`
	IsActive   bool                   `json:"is_active"`
	LastSync   *string                `json:"last_sync,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

func storeResponse(s *domain.Store) StoreResponse {
	resp := StoreResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		ShopDomain: s.ShopDomain,
		ShopInfo:   s.ShopInfo,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.LastSync != nil {
		lastSync := s.LastSync.Format("2006-01-02T15:04:05Z07:00")
		resp.LastSync = &lastSync
	}
	return resp
}

// HandleListStores handles GET /v1/stores
func HandleListStores(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		stores, err := repos.Store.GetByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]StoreResponse, len(stores))
		for i, s := range stores {
			responses[i] = storeResponse(s)
		}

		c.JSON(http.StatusOK, gin.H{"stores": responses})
	}
}

// HandleCreateStore handles POST /v1/stores. The token is verified against
// the live shop before it is encrypted and persisted.
func HandleCreateStore(repos *repository.Repositories, cipher *crypto.TokenCipher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateStoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		client := shopify.NewClient(req.ShopDomain, req.AccessToken, logger)
		shop, err := client.FetchShop(c.Request.Context())
		if err != nil {
			logger.Warn("Store connection test failed",
				zap.String("shop_domain", req.ShopDomain),
				zap.Error(err))
			respondError(c, logger, err)
			return
		}

		encrypted, err := cipher.Encrypt(req.AccessToken)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		store := &domain.Store{
			UserID:      userID,
			Name:        req.Name,
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

		if err := repos.Store.Upsert(c.Request.Context(), store); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Store registered",
			zap.String("store_id", store.ID.String()),
			zap.String("shop_domain", store.ShopDomain))

		c.JSON(http.StatusCreated, gin.H{"store": storeResponse(store)})
	}
}

// HandleDeleteStore handles DELETE /v1/stores/:id
func HandleDeleteStore(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		storeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store ID"})
			return
		}

		if err := repos.Store.Deactivate(c.Request.Context(), storeID, userID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "store removed"})
	}
}

// HandleTestConnection handles POST /v1/stores/test. It verifies credentials
// without persisting anything.
func HandleTestConnection(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ShopDomain  string `json:"shop_domain" binding:"required"`
			AccessToken string `json:"access_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		client := shopify.NewClient(req.ShopDomain, req.AccessToken, logger)
		shop, err := client.FetchShop(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"connected": true,
			"shop": gin.H{
				"name":     shop.Name,
				"domain":   shop.Domain,
				"currency": shop.Currency,
			},
		})
	}
}
