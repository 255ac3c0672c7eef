package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRooms reloads the rooms and returns the setup page state.
func (p *Portal) SetupRooms(c *gin.Context) {
	rooms, err := p.Setup.Load(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Unable to load rooms. Please refresh and try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms":  rooms,
		"floors": p.Setup.FloorOptions(),
	})
}

// DeleteOptions lists the rooms of one floor for the delete picker.
func (p *Portal) DeleteOptions(c *gin.Context) {
	c.JSON(http.StatusOK, p.Setup.DeleteOptions(c.Param("floor")))
}

type updateRoomRequest struct {
	Capacity *int    `json:"capacity" binding:"required"`
	Comments *string `json:"comments"`
}

func (p *Portal) UpdateRoom(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity is required."})
		return
	}
	respondMutation(c, p.Setup.UpdateRoom(c.Request.Context(), c.Param("id"), *req.Capacity, req.Comments))
}

type addRoomsRequest struct {
	Floor       string `json:"floor"`
	RoomNumbers string `json:"roomNumbers"`
	Capacity    int    `json:"capacity"`
}

func (p *Portal) AddRooms(c *gin.Context) {
	var req addRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respondMutation(c, p.Setup.AddRooms(c.Request.Context(), req.Floor, req.RoomNumbers, req.Capacity))
}

func (p *Portal) DeleteRoom(c *gin.Context) {
	respondMutation(c, p.Setup.DeleteRoom(c.Request.Context(), c.Param("id")))
}
