package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (p *Portal) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, p.Notifications.Active())
}

func (p *Portal) DismissNotification(c *gin.Context) {
	if !p.Notifications.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
