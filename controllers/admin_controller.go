package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-portal/config"
	"pg-portal/models"
	"pg-portal/services"
)

// Home returns the dashboard summary.
func (p *Portal) Home(c *gin.Context) {
	summary, err := p.Reports.Home(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Unable to load dashboard right now. Please try again shortly."})
		return
	}
	c.JSON(http.StatusOK, summary)
}

type roomView struct {
	*models.Room
	Occupancy string `json:"occupancy"`
}

type floorView struct {
	FloorLabel string     `json:"floorLabel"`
	Rooms      []roomView `json:"rooms"`
}

// RoomsOverview groups every room by floor; ?floor= narrows the result to one floor.
func (p *Portal) RoomsOverview(c *gin.Context) {
	rooms, err := p.Rooms.List(c.Request.Context())
	if err != nil {
		config.Log.WithError(err).Error("🚪 Error fetching rooms")
		c.JSON(statusFor(err), gin.H{"error": "Unable to load rooms."})
		return
	}

	groups := services.GroupRoomsByFloor(rooms)
	selected := services.ResolveFloorSelection(groups, c.Query("floor"))

	floors := make([]string, 0, len(groups)+1)
	floors = append(floors, services.AllFloors)
	for _, g := range groups {
		floors = append(floors, g.FloorLabel)
	}

	visible := services.FilterFloors(groups, selected)
	out := make([]floorView, 0, len(visible))
	for _, g := range visible {
		view := floorView{FloorLabel: g.FloorLabel, Rooms: make([]roomView, 0, len(g.Rooms))}
		for _, r := range g.Rooms {
			view.Rooms = append(view.Rooms, roomView{Room: r, Occupancy: services.OccupancyAlpha(r)})
		}
		out = append(out, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"floors":        floors,
		"selectedFloor": selected,
		"groups":        out,
	})
}

// Report returns the chart series.
func (p *Portal) Report(c *gin.Context) {
	view, err := p.Reports.Report(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Unable to load report charts right now. Please try again shortly."})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportReport streams the statistics as xlsx (default), csv or pdf.
func (p *Portal) ExportReport(c *gin.Context) {
	file, err := p.Reports.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		msg := "Unable to export the report right now. Please try again shortly."
		if statusFor(err) == http.StatusBadRequest {
			msg = err.Error()
		}
		c.JSON(statusFor(err), gin.H{"error": msg})
		return
	}

	if file.ArchiveURL != "" {
		c.Header("X-Archive-URL", file.ArchiveURL)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
