package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harborview/hms-backend/internal/middleware"
	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
	"github.com/harborview/hms-backend/internal/utils"
)

// AuthHandler handles staff authentication HTTP requests
type AuthHandler struct {
	authService      *services.AuthService
	rateLimitService *services.RateLimitService
	logger           *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, rateLimitService *services.RateLimitService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		rateLimitService: rateLimitService,
		logger:           logger,
	}
}

// Login authenticates a staff account and issues an access token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	clientIP := utils.GetRealIP(c)

	if err := h.rateLimitService.CheckLoginRateLimit(req.Username, clientIP); err != nil {
		var rateLimitErr *services.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       rateLimitErr.Message,
				"retry_after": rateLimitErr.RetryAfter,
			})
			return
		}
		// A broken throttle must not lock every staff member out.
		h.logger.WithField("error", err.Error()).Error("Login rate limit check failed")
	}

	response, err := h.authService.Login(&req, c.Request.UserAgent(), clientIP, time.Now())
	if err != nil {
		if recordErr := h.rateLimitService.RecordFailedLogin(req.Username, clientIP); recordErr != nil {
			h.logger.WithField("error", recordErr.Error()).Error("Failed to record login attempt")
		}
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"ip":       clientIP,
			"error":    err.Error(),
		}).Warn("Login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout revokes the presented token's session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return
	}

	if err := h.authService.Logout(token, time.Now()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	staffCtx, exists := middleware.GetStaffContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, staffCtx)
}

// ListSessions returns the caller's live sessions
// GET /api/v1/auth/sessions
func (h *AuthHandler) ListSessions(c *gin.Context) {
	staffCtx, exists := middleware.GetStaffContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sessions, err := h.authService.ListSessions(staffCtx.StaffID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ChangePassword replaces the caller's password and logs out all of their
// sessions, including this one
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	staffCtx, exists := middleware.GetStaffContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(staffCtx.StaffID, req.NewPassword, time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed, please log in again"})
}

// CreateStaff opens a new staff account (admin only)
// POST /api/v1/staff
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff, err := h.authService.CreateStaff(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// ListStaff returns all staff accounts (admin only)
// GET /api/v1/staff
func (h *AuthHandler) ListStaff(c *gin.Context) {
	accounts, err := h.authService.ListStaff()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// SetStaffActive enables or disables an account (admin only). Disabling
// revokes the account's sessions.
// PUT /api/v1/staff/:id/active
func (h *AuthHandler) SetStaffActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.SetStaffActive(c.Param("id"), *req.Active, time.Now()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff account updated"})
}

// bearerToken extracts the raw token from the Authorization header
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
