package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
)

const principalContextKey = "principal"

// authRequired verifies the Authorization header and stores the resolved
// user on the gin context. Handlers behind it can assume a principal.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.authenticator.Authenticate(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			if errors.Is(err, common.ErrStoreUnavailable) {
				h.logger.Error(c.Request.Context(), "authentication lookup failed", "error", err.Error())
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(principalContextKey, user)
		c.Next()
	}
}

func principalFrom(c *gin.Context) *models.User {
	return c.MustGet(principalContextKey).(*models.User)
}
