package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-portal/config"
)

func (p *Portal) GetTheme(c *gin.Context) {
	theme, err := p.Theme.Get(c.Request.Context())
	if err != nil {
		config.Log.WithError(err).Error("❌ Failed to read theme")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (p *Portal) SetTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme is required"})
		return
	}

	theme, err := p.Theme.Set(c.Request.Context(), req.Theme)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
