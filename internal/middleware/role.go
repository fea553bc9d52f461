package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
)

// RoleLookup returns the stored role for a user id, or "" when the user
// has no local profile yet.
type RoleLookup func(ctx context.Context, userID string) (string, error)

// ProfileRole replaces the token role with the stored profile role, so
// role changes made by admins apply without a new token. Must run after
// AuthMiddleware.
func ProfileRole(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := lookup(c.Request.Context(), c.GetString(ContextUserID))
		if err != nil {
			_ = c.Error(err)
			httperr.Abort(c, http.StatusInternalServerError, "role_lookup_failed", "Could not resolve user role.")
			return
		}
		if role != "" {
			c.Set(ContextUserRole, role)
		}
		c.Next()
	}
}
