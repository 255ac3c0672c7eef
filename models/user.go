package models

import "time"

// Meal preferences accepted by the backend.
const (
	MealVeg    = "Veg"
	MealNonVeg = "Non-Veg"
)

// Tenant represents a resident of the PG, as the portal keeps it in its session.
type Tenant struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PictureURL     string     `json:"pictureUrl,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	MealPreference string     `json:"mealPreference,omitempty"`
	RoomNo         string     `json:"roomNo,omitempty"` // empty when unassigned
	Due            bool       `json:"due"`
	IsActive       bool       `json:"isActive"`
	RenewalDate    *time.Time `json:"renewalDate,omitempty"`
	ContinuousStay bool       `json:"continuousStay"`
}

// Clone returns a deep copy so callers never share the session's identity.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.RenewalDate != nil {
		d := *t.RenewalDate
		c.RenewalDate = &d
	}
	return &c
}

// Admin represents an operator of the PG.
type Admin struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// Clone returns a copy of the admin identity.
func (a *Admin) Clone() *Admin {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// ProfileUpdate is the partial body of PATCH /api/tenants/{id}/profile.
// Nil fields are left out of the request.
type ProfileUpdate struct {
	Phone          *string   `json:"phone,omitempty"`
	MealPreference *string   `json:"mealPreference,omitempty"`
	ContinuousStay *bool     `json:"continuousStay,omitempty"`
	RenewalDate    *NullTime `json:"renewalDate,omitempty"`
	Due            *bool     `json:"due,omitempty"`
}

// NullTime marshals as an ISO timestamp, or as JSON null when Time is nil.
// It lets a profile update clear a date explicitly.
type NullTime struct {
	Time *time.Time
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if n.Time == nil {
		return []byte("null"), nil
	}
	return []byte(`"` + n.Time.UTC().Format("2006-01-02T15:04:05.000Z") + `"`), nil
}

// AuthResult is what the backend hands back after a Google token exchange.
type AuthResult[T any] struct {
	Token    string
	Identity *T
}
