package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-portal/models"
)

func newTestAPI(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, time.Second)
}

func TestTenantClientListNormalizesActiveAlias(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenants", r.URL.Path)
		w.Write([]byte(`[
			{"id":"1","name":"A","email":"a@x.io","active":true},
			{"id":"2","name":"B","email":"b@x.io","isActive":false,"active":true},
			{"id":"3","name":"C","email":"c@x.io"},
			null,
			{"id":"4","name":"D","email":"d@x.io","renewalDate":1716163200000}
		]`))
	})

	tenants, err := NewTenantClient(api).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 4)
	assert.True(t, tenants[0].IsActive)
	assert.False(t, tenants[1].IsActive, "isActive wins over active")
	assert.False(t, tenants[2].IsActive)
	require.NotNil(t, tenants[3].RenewalDate)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), tenants[3].RenewalDate.UTC())
}

func TestTenantClientRequests(t *testing.T) {
	type call struct {
		method, path, body string
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.EscapedPath(), strings.TrimSpace(string(body))})
		mu.Unlock()
		if r.Method == http.MethodGet {
			return
		}
		w.Write([]byte(`{"id":"t 1","email":"a@x.io","active":true}`))
	})
	client := NewTenantClient(api)
	ctx := context.Background()

	missing, err := client.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := client.UpdateStatus(ctx, "t 1", true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	_, err = client.UpdateRoom(ctx, "t 1", nil)
	require.NoError(t, err)

	renewal := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	due := false
	_, err = client.UpdateProfile(ctx, "t 1", models.ProfileUpdate{RenewalDate: &models.NullTime{Time: &renewal}, Due: &due})
	require.NoError(t, err)

	require.Len(t, calls, 4)
	assert.Equal(t, call{"GET", "/api/tenants/a@x.io", ""}, calls[0])
	assert.Equal(t, call{"PATCH", "/api/tenants/t%201/status", `{"isActive":true}`}, calls[1])
	assert.Equal(t, call{"PATCH", "/api/tenants/t%201/room", `{"roomNo":null}`}, calls[2])
	assert.Equal(t, "PATCH", calls[3].method)
	assert.JSONEq(t, `{"renewalDate":"2024-06-01T00:00:00.000Z","due":false}`, calls[3].body)
}

func TestRoomClientListDropsNulls(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","roomNo":"101","capacity":2,"floorNo":"1","allocatedCount":1},null]`))
	})

	rooms, err := NewRoomClient(api).List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNo)
}

func TestRoomClientUpdateSendsNullComments(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"capacity":3,"comments":null}`, string(body))
		w.Write([]byte(`{"id":"1","roomNo":"101","capacity":3}`))
	})

	capacity := 3
	room, err := NewRoomClient(api).Update(context.Background(), "1", models.RoomUpdate{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 3, room.Capacity)
}

func TestRoomClientCreateManyEmpty(t *testing.T) {
	rooms, err := NewRoomClient(NewAPIClient("http://unused.invalid", time.Second)).CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NotNil(t, rooms)
}

func TestRoomClientCreateManyPartialFailure(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 0, payload["allocatedCount"])
		if payload["roomNo"] == "102" {
			http.Error(w, "duplicate", http.StatusConflict)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "id-" + payload["roomNo"].(string), "roomNo": payload["roomNo"]})
	})

	_, err := NewRoomClient(api).CreateMany(context.Background(), []models.CreateRoom{
		{RoomNo: "101", Capacity: 2, FloorNo: "1"},
		{RoomNo: "102", Capacity: 2, FloorNo: "1"},
		{RoomNo: "103", Capacity: 2, FloorNo: "1"},
	})

	var bulk *BulkCreateError
	require.ErrorAs(t, err, &bulk)
	assert.Equal(t, []string{"102"}, bulk.Failed)
	require.Len(t, bulk.Created, 2)
	assert.Equal(t, "101", bulk.Created[0].RoomNo)
	assert.Equal(t, "103", bulk.Created[1].RoomNo)
	assert.True(t, bulk.Partial())
	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestDashboardClientDefaults(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/dashboard/summary":
			w.Write([]byte(`{}`))
		case "/api/admin/dashboard/meal-stats":
			w.Write([]byte(`null`))
		case "/api/admin/dashboard/allocation-stats":
			w.Write([]byte(`[{"statsDate":"2024-05-20","totalCount":10,"allocatedCount":6,"vacantCount":4}]`))
		}
	})
	client := NewDashboardClient(api)
	ctx := context.Background()

	summary, err := client.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Counts.TotalActive)
	assert.NotNil(t, summary.TopTenants)
	assert.NotNil(t, summary.PaymentDueTenants)

	meal, err := client.MealStats(ctx)
	require.NoError(t, err)
	assert.NotNil(t, meal)
	assert.Empty(t, meal)

	allocation, err := client.AllocationStats(ctx)
	require.NoError(t, err)
	require.Len(t, allocation, 1)
	assert.EqualValues(t, 6, allocation[0].AllocatedCount)
}
