package services

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"pg-portal/config"
	"pg-portal/models"
)

// RoomAPI is the room surface the workflows depend on.
type RoomAPI interface {
	List(ctx context.Context) ([]*models.Room, error)
	Update(ctx context.Context, id string, update models.RoomUpdate) (*models.Room, error)
	CreateMany(ctx context.Context, payloads []models.CreateRoom) ([]*models.Room, error)
	Delete(ctx context.Context, id string) error
}

// RoomClient wraps /api/rooms.
type RoomClient struct {
	api *APIClient
}

func NewRoomClient(api *APIClient) *RoomClient {
	return &RoomClient{api: api}
}

func (c *RoomClient) List(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room
	if err := c.api.Do(ctx, http.MethodGet, "/api/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return compactRooms(rooms), nil
}

func (c *RoomClient) Update(ctx context.Context, id string, update models.RoomUpdate) (*models.Room, error) {
	var room models.Room
	if err := c.api.Do(ctx, http.MethodPatch, "/api/rooms/"+url.PathEscape(id), update, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create posts a single room; a missing allocatedCount is sent as 0.
func (c *RoomClient) Create(ctx context.Context, payload models.CreateRoom) (*models.Room, error) {
	if payload.AllocatedCount == nil {
		zero := 0
		payload.AllocatedCount = &zero
	}
	var room models.Room
	if err := c.api.Do(ctx, http.MethodPost, "/api/rooms", payload, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateMany issues one independent create per payload, concurrently.
// If any create fails the result is a *BulkCreateError naming what was and was not created.
func (c *RoomClient) CreateMany(ctx context.Context, payloads []models.CreateRoom) ([]*models.Room, error) {
	if len(payloads) == 0 {
		return []*models.Room{}, nil
	}

	created := make([]*models.Room, len(payloads))
	failures := make([]error, len(payloads))

	var g errgroup.Group
	for i, p := range payloads {
		g.Go(func() error {
			room, err := c.Create(ctx, p)
			created[i], failures[i] = room, err
			return err
		})
	}

	if err := g.Wait(); err != nil {
		bulkErr := &BulkCreateError{Err: err}
		for i, p := range payloads {
			if failures[i] != nil {
				bulkErr.Failed = append(bulkErr.Failed, p.RoomNo)
				continue
			}
			bulkErr.Created = append(bulkErr.Created, created[i])
		}
		config.Log.WithField("failed", bulkErr.Failed).Warn("❌ Room batch partially failed")
		return nil, bulkErr
	}
	return created, nil
}

// Delete removes a room unconditionally; occupancy checks belong to the caller.
func (c *RoomClient) Delete(ctx context.Context, id string) error {
	return c.api.Do(ctx, http.MethodDelete, "/api/rooms/"+url.PathEscape(id), nil, nil)
}
