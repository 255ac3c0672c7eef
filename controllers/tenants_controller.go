package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pg-portal/models"
)

type tenantRow struct {
	*models.Tenant
	Updating bool `json:"updating"`
}

// ListTenants reloads tenants and rooms and returns the rows matching ?q=.
// A failed half still returns what did load, with the error alongside.
func (p *Portal) ListTenants(c *gin.Context) {
	loadErr := p.Tenants.Load(c.Request.Context())

	tenants := p.Tenants.Search(c.Query("q"))
	rows := make([]tenantRow, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, tenantRow{Tenant: t, Updating: p.Tenants.Updating(t.ID)})
	}

	body := gin.H{
		"tenants":        rows,
		"minRenewalDate": p.Tenants.StartOfToday().Format(time.DateOnly),
	}
	if loadErr != nil {
		body["error"] = "Some data could not be loaded."
	}
	c.JSON(http.StatusOK, body)
}

// TenantRoomOptions lists the room picker for one tenant.
func (p *Portal) TenantRoomOptions(c *gin.Context) {
	c.JSON(http.StatusOK, p.Tenants.RoomOptions(c.Param("id")))
}

func (p *Portal) ChangeTenantRoom(c *gin.Context) {
	var req struct {
		RoomNo *string `json:"roomNo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	roomNo := ""
	if req.RoomNo != nil {
		roomNo = *req.RoomNo
	}
	respondMutation(c, p.Tenants.ChangeRoom(c.Request.Context(), c.Param("id"), roomNo))
}

func (p *Portal) ChangeRenewalDate(c *gin.Context) {
	var req struct {
		RenewalDate json.RawMessage `json:"renewalDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	date, ok := parseRenewalDate(req.RenewalDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Renewal date is not a valid date."})
		return
	}
	respondMutation(c, p.Tenants.ChangeRenewalDate(c.Request.Context(), c.Param("id"), date))
}

func (p *Portal) ClearRenewalDate(c *gin.Context) {
	respondMutation(c, p.Tenants.ClearRenewalDate(c.Request.Context(), c.Param("id")))
}

// parseRenewalDate reads a date picked in the portal. A bare YYYY-MM-DD is a local calendar day.
// null or an absent value clears the date.
func parseRenewalDate(raw json.RawMessage) (*time.Time, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, true
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		if d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local); err == nil {
			return &d, true
		}
	}
	if d := models.ParseDate(raw); d != nil {
		return d, true
	}
	return nil, false
}
