package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// MealStatsPoint is one meal's head count on a given day.
type MealStatsPoint struct {
	StatsDate   Timestamp `json:"statsDate"`
	MealNo      int       `json:"mealNo"`
	TotalCount  int64     `json:"totalCount"`
	VegCount    int64     `json:"vegCount"`
	NonVegCount int64     `json:"nonVegCount"`
}

// AllocationStatsPoint is the bed allocation snapshot of a given day.
type AllocationStatsPoint struct {
	StatsDate      Timestamp `json:"statsDate"`
	TotalCount     int64     `json:"totalCount"`
	AllocatedCount int64     `json:"allocatedCount"`
	VacantCount    int64     `json:"vacantCount"`
}

// Timestamp decodes the backend's date encodings: epoch milliseconds, RFC 3339 or YYYY-MM-DD.
// Anything else decodes to the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if parsed := ParseDate(b); parsed != nil {
		t.Time = *parsed
	} else {
		t.Time = time.Time{}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseDate reads a raw JSON date value. It returns nil for null, empty and unparsable input.
func ParseDate(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return parseDateString(s)
	}

	ms, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}
