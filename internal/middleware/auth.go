package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"
	ContextUserRole  = "userRole"

	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// AuthMiddleware verifies identity-provider tokens (HS256, shared secret).
// Claims used: sub, email, name, role.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, ok := bearer(c)
		if !ok {
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid or expired token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_claims", "Invalid token claims.")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Token has no subject.")
			return
		}

		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleCustomer
		}

		c.Set(ContextUserID, sub)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserName, name)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			httperr.Abort(c, http.StatusForbidden, "forbidden", "Insufficient permissions.")
			return
		}
		c.Next()
	}
}

// CronSecret guards scheduler endpoints with a static bearer secret. An
// empty secret disables the endpoints.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			httperr.Abort(c, http.StatusServiceUnavailable, "cron_disabled", "Cron endpoints are not configured.")
			return
		}

		got, ok := bearer(c)
		if !ok {
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_cron_secret", "Invalid cron secret.")
			return
		}
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Missing Authorization header.")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Invalid Authorization header.")
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
