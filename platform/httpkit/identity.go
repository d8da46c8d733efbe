// Package httpkit provides HTTP utilities including identity extraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MerchantID extracts the authenticated merchant ID from a Gin context.
// The second return value is false when no merchant is authenticated.
func MerchantID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextMerchantIDKey)
	if !ok {
		return uuid.Nil, false
	}

	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// MustMerchantID extracts the authenticated merchant ID or aborts with 401.
// Returns uuid.Nil and false after aborting.
func MustMerchantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := MerchantID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
