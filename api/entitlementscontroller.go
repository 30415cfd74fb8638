package api

import (
	"net/http"

	"tooncraft/entitlements"

	"github.com/gin-gonic/gin"
)

// RegisterEntitlementRoutes registers the video allowance endpoints.
func RegisterEntitlementRoutes(r *gin.Engine, store entitlements.Store) {
	g := r.Group("/api/entitlements")
	g.GET("/:userId", handleGetEntitlements(store))
	g.PUT("/:userId/tier", handleSetTier(store))
}

// SetTierRequest switches a user between trial and unlimited tiers.
type SetTierRequest struct {
	Unlimited bool `json:"unlimited"`
}

func handleGetEntitlements(store entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, err := store.Remaining(c.Request.Context(), c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read entitlements: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"remainingVideoSessions": remaining})
	}
}

func handleSetTier(store entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetTierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.SetUnlimited(c.Request.Context(), c.Param("userId"), req.Unlimited); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tier: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"unlimited": req.Unlimited})
	}
}
