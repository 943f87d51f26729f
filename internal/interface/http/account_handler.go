package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/account"
)

type passwordStrengthRequest struct {
	Password string `json:"password"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Register creates a farmer account.
func (h *Handler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	user, err := h.accountSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for tokens.
func (h *Handler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	resp, err := h.accountSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh issues new tokens from a refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req account.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	resp, err := h.accountSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PasswordStrength scores a candidate password for the registration form.
func (h *Handler) PasswordStrength(c *gin.Context) {
	var req passwordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, account.PasswordStrength(req.Password))
}

// Profile returns the caller's profile.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	user, err := h.accountSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the caller's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req account.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	user, err := h.accountSvc.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req account.PasswordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if err := h.accountSvc.ChangePassword(c.Request.Context(), claims.UserID, req); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers lists accounts for the admin panel.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accountSvc.ListUsers(c.Request.Context(), account.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetUserStatus activates or deactivates an account.
func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	user, err := h.accountSvc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminStats summarizes users and alert activity.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.accountSvc.Stats(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":    stats.TotalUsers,
		"activeFarmers": stats.ActiveFarmers,
		"admins":        stats.Admins,
		"inactive":      stats.Inactive,
		"alertsSent":    len(h.slopeSvc.Alerts(c.Request.Context())),
	})
}
