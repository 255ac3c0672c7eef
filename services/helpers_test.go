package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pg-portal/models"
)

var fixedNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// makeToken builds an unsigned three segment token carrying claims.
func makeToken(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(claims)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func validToken() string {
	return makeToken(map[string]any{"exp": fixedNow.Add(time.Hour).Unix(), "name": "Asha"})
}

func expiredToken() string {
	return makeToken(map[string]any{"exp": fixedNow.Add(-time.Minute).Unix()})
}

type recordedNotice struct {
	Level   string
	Message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (n *recordingNotifier) Notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, recordedNotice{Level: level, Message: message})
}

func (n *recordingNotifier) all() []recordedNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedNotice(nil), n.notices...)
}

func (n *recordingNotifier) last() recordedNotice {
	all := n.all()
	if len(all) == 0 {
		return recordedNotice{}
	}
	return all[len(all)-1]
}

var errBackend = errors.New("backend unavailable")

type fakeRoomAPI struct {
	mu         sync.Mutex
	rooms      []*models.Room
	listErr    error
	updateErr  error
	createErr  map[string]error
	deleteErr  error
	updates    []models.RoomUpdate
	created    []models.CreateRoom
	deleted    []string
	listCalls  int
	updateHook func()
}

func (f *fakeRoomAPI) List(context.Context) ([]*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Room, len(f.rooms))
	for i, r := range f.rooms {
		out[i] = r.Clone()
	}
	return out, nil
}

func (f *fakeRoomAPI) Update(_ context.Context, id string, update models.RoomUpdate) (*models.Room, error) {
	if f.updateHook != nil {
		f.updateHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, r := range f.rooms {
		if r.ID == id {
			r.Capacity = *update.Capacity
			r.Comments = update.Comments
			return r.Clone(), nil
		}
	}
	return nil, &APIError{Method: "PATCH", Path: "/api/rooms/" + id, StatusCode: 404}
}

func (f *fakeRoomAPI) CreateMany(_ context.Context, payloads []models.CreateRoom) ([]*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payloads...)
	bulk := &BulkCreateError{}
	var created []*models.Room
	for _, p := range payloads {
		if err := f.createErr[p.RoomNo]; err != nil {
			bulk.Failed = append(bulk.Failed, p.RoomNo)
			bulk.Err = err
			continue
		}
		room := &models.Room{ID: "new-" + p.RoomNo, RoomNo: p.RoomNo, Capacity: p.Capacity, FloorNo: p.FloorNo}
		f.rooms = append(f.rooms, room)
		created = append(created, room.Clone())
	}
	if bulk.Err != nil {
		bulk.Created = created
		return nil, bulk
	}
	return created, nil
}

func (f *fakeRoomAPI) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeTenantAPI struct {
	mu             sync.Mutex
	tenants        []*models.Tenant
	listErr        error
	updateErr      error
	byEmailErr     error
	profileUpdates []models.ProfileUpdate
	roomUpdates    []*string
	statusUpdates  []bool
}

func (f *fakeTenantAPI) find(id string) *models.Tenant {
	for _, t := range f.tenants {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (f *fakeTenantAPI) List(context.Context) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Tenant, len(f.tenants))
	for i, t := range f.tenants {
		out[i] = t.Clone()
	}
	return out, nil
}

func (f *fakeTenantAPI) GetByEmail(_ context.Context, email string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	for _, t := range f.tenants {
		if t.Email == email {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

func (f *fakeTenantAPI) UpdateStatus(_ context.Context, id string, isActive bool) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates = append(f.statusUpdates, isActive)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	t := f.find(id)
	t.IsActive = isActive
	return t.Clone(), nil
}

func (f *fakeTenantAPI) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileUpdates = append(f.profileUpdates, update)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	t := f.find(id)
	if update.Phone != nil {
		t.Phone = *update.Phone
	}
	if update.MealPreference != nil {
		t.MealPreference = *update.MealPreference
	}
	if update.ContinuousStay != nil {
		t.ContinuousStay = *update.ContinuousStay
	}
	if update.RenewalDate != nil {
		t.RenewalDate = update.RenewalDate.Time
	}
	if update.Due != nil {
		t.Due = *update.Due
	}
	return t.Clone(), nil
}

func (f *fakeTenantAPI) UpdateRoom(_ context.Context, id string, roomNo *string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roomUpdates = append(f.roomUpdates, roomNo)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	t := f.find(id)
	t.RoomNo = ""
	if roomNo != nil {
		t.RoomNo = *roomNo
	}
	return t.Clone(), nil
}

func strPtr(s string) *string { return &s }
