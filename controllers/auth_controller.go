package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-portal/config"
	"pg-portal/middleware"
)

type loginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

const (
	tenantArea = "/user"
	adminArea  = "/admin"

	tenantHome = "/user/profile"
	adminHome  = "/admin/home"
)

// TenantLogin exchanges a Google ID token for a tenant session.
func (p *Portal) TenantLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google sign-in failed. Please try again."})
		return
	}

	result, err := p.Auth.ExchangeTenant(c.Request.Context(), req.IDToken)
	if err != nil {
		config.Log.WithError(err).Error("🚨 Login failed")
		c.JSON(statusFor(err), gin.H{"error": "Login failed. Please try again."})
		return
	}

	tenant, err := p.TenantSession.Establish(c.Request.Context(), result.Token, result.Identity)
	if err != nil {
		config.Log.WithError(err).Error("🚨 Failed to store tenant session")
		c.JSON(statusFor(err), gin.H{"error": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"user":     tenant,
		"redirect": middleware.ConsumeReturnURL(c, tenantArea, tenantHome),
	})
}

// AdminLogin exchanges a Google ID token for an admin session.
func (p *Portal) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google sign-in failed. Please try again."})
		return
	}

	result, err := p.Auth.ExchangeAdmin(c.Request.Context(), req.IDToken)
	if err != nil {
		config.Log.WithError(err).Error("🚨 Admin login failed")
		c.JSON(statusFor(err), gin.H{"error": "Login failed. Please try again."})
		return
	}

	admin, err := p.AdminSession.Establish(c.Request.Context(), result.Token, result.Identity)
	if err != nil {
		config.Log.WithError(err).Error("🚨 Failed to store admin session")
		c.JSON(statusFor(err), gin.H{"error": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"admin":    admin,
		"redirect": middleware.ConsumeReturnURL(c, adminArea, adminHome),
	})
}

// TenantAutoLogin reports whether a stored tenant session can be resumed.
// A stored session whose token has expired is cleared.
func (p *Portal) TenantAutoLogin(c *gin.Context) {
	if !p.TenantSession.EnsureValid(c.Request.Context()) {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     p.TenantSession.Current(),
		"redirect": middleware.ConsumeReturnURL(c, tenantArea, tenantHome),
	})
}

// AdminAutoLogin reports whether a stored admin session can be resumed.
func (p *Portal) AdminAutoLogin(c *gin.Context) {
	if !p.AdminSession.EnsureValid(c.Request.Context()) {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"admin":    p.AdminSession.Current(),
		"redirect": middleware.ConsumeReturnURL(c, adminArea, adminHome),
	})
}

func (p *Portal) TenantLogout(c *gin.Context) {
	if err := p.TenantSession.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": tenantArea + "/login"})
}

func (p *Portal) AdminLogout(c *gin.Context) {
	if err := p.AdminSession.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": adminArea + "/login"})
}
