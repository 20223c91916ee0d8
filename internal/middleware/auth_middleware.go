package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
)

// StaffContextKey is the key used to store the authenticated account in
// the Gin context
const StaffContextKey = "staff"

// StaffContext represents the authenticated staff account's information
type StaffContext struct {
	StaffID  string           `json:"staff_id"`
	Username string           `json:"username"`
	Role     models.StaffRole `json:"role"`
}

// AuthMiddleware validates bearer tokens against both the signature and
// the session store, so revoked sessions are rejected even before expiry
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		staff, claims, err := authService.Authenticate(strings.TrimSpace(parts[1]), time.Now())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired access token",
				"code":    "INVALID_TOKEN",
			})
			c.Abort()
			return
		}

		c.Set(StaffContextKey, StaffContext{
			StaffID:  staff.ID,
			Username: claims.Username,
			Role:     staff.Role,
		})

		c.Next()
	}
}

// RequireRole checks that the authenticated account holds one of the
// given roles
func RequireRole(roles ...models.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffCtx, exists := GetStaffContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Staff context not found. Auth middleware may not be applied.",
				"code":    "MISSING_STAFF_CONTEXT",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if staffCtx.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
		c.Abort()
	}
}

// GetStaffContext retrieves the staff context from Gin context
func GetStaffContext(c *gin.Context) (StaffContext, bool) {
	value, exists := c.Get(StaffContextKey)
	if !exists {
		return StaffContext{}, false
	}

	staffCtx, ok := value.(StaffContext)
	if !ok {
		return StaffContext{}, false
	}

	return staffCtx, true
}
