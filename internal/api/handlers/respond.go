package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/shopify"
	"github.com/shopmirror/storesync/pkg/errors"
)

// respondError maps domain and Shopify errors onto HTTP responses
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *shopify.APIError:
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error(), "kind": string(e.Kind)})
	case *shopify.DomainError:
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error(), "kind": "domain_not_found"})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
