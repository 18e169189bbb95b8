package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopmirror/storesync/internal/api/middleware"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/repository"
	"github.com/shopmirror/storesync/internal/shopify"
	"github.com/shopmirror/storesync/internal/sync"
)

// CompareInventoryRequest names the two stores to diff
type CompareInventoryRequest struct {
	SourceStoreID string `json:"source_store_id" binding:"required"`
	TargetStoreID string `json:"target_store_id" binding:"required"`
}

// HandleCompareInventory handles POST /v1/inventory/compare. It reads both
// catalogs and reports per-SKU quantity and price deltas without writing
// anything.
func HandleCompareInventory(repos *repository.Repositories, cipher *crypto.TokenCipher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CompareInventoryRequest
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

		ctx := c.Request.Context()

		sourceStore, err := repos.Store.GetByID(ctx, sourceID, userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		targetStore, err := repos.Store.GetByID(ctx, targetID, userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		sourceToken, err := cipher.Decrypt(sourceStore.AccessToken)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		targetToken, err := cipher.Decrypt(targetStore.AccessToken)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		sourceClient := shopify.NewClient(sourceStore.ShopDomain, sourceToken, logger)
		targetClient := shopify.NewClient(targetStore.ShopDomain, targetToken, logger)

		var sourceProducts, targetProducts []shopify.Product
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sourceProducts, err = sourceClient.FetchAllProducts(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			targetProducts, err = targetClient.FetchAllProducts(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			respondError(c, logger, err)
			return
		}

		rows, summary := sync.CompareInventory(sourceProducts, targetProducts)

		c.JSON(http.StatusOK, gin.H{
			"summary": summary,
			"rows":    rows,
		})
	}
}
