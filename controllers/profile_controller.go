package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (p *Portal) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, p.Profile.View(c.Request.Context()))
}

func (p *Portal) RefreshProfile(c *gin.Context) {
	if !p.Profile.Refresh(c.Request.Context()) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to refresh profile."})
		return
	}
	c.JSON(http.StatusOK, p.Profile.View(c.Request.Context()))
}

func (p *Portal) UpdateProfileStatus(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
		return
	}
	respondMutation(c, p.Profile.ToggleActive(c.Request.Context(), *req.IsActive))
}

func (p *Portal) UpdateMealPreference(c *gin.Context) {
	var req struct {
		MealPreference string `json:"mealPreference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respondMutation(c, p.Profile.ChangeMealPreference(c.Request.Context(), req.MealPreference))
}

func (p *Portal) UpdateContinuousStay(c *gin.Context) {
	var req struct {
		ContinuousStay *bool `json:"continuousStay" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "continuousStay is required"})
		return
	}
	respondMutation(c, p.Profile.ToggleContinuousStay(c.Request.Context(), *req.ContinuousStay))
}

func (p *Portal) UpdatePhone(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respondMutation(c, p.Profile.SavePhone(c.Request.Context(), req.Phone))
}
