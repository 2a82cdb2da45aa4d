package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/room-scheduler/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"

	RoleAdmin = "admin"

	CronSecretHeader = "X-Cron-Secret"
)

var errBadToken = errors.New("invalid_token")

// parseBearer validates the HS256 bearer token and returns sub and role.
func parseBearer(header, secret string) (uint, string, string) {
	if header == "" {
		return 0, "", "missing_authorization_header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, "", "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", "invalid_token_claims"
	}

	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return 0, "", "invalid_token_payload"
	}
	role, _ := claims["role"].(string)

	return uint(userID), role, ""
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, code := parseBearer(c.GetHeader("Authorization"), cfg.JWTSecret)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole runs after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CronOrAdmin lets an external scheduler in with the shared secret, and
// otherwise requires an admin bearer token.
func CronOrAdmin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.CronSecret != "" {
			given := c.GetHeader(CronSecretHeader)
			if given != "" && subtle.ConstantTimeCompare([]byte(given), []byte(cfg.CronSecret)) == 1 {
				c.Set(ContextUserRole, "cron")
				c.Next()
				return
			}
		}

		userID, role, code := parseBearer(c.GetHeader("Authorization"), cfg.JWTSecret)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}
		if role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}
