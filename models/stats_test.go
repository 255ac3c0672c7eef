package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	cases := map[string]*time.Time{
		`"2024-05-20"`:           &want,
		`"2024-05-20T00:00:00Z"`: &want,
		`1716163200000`:          &want,
		`"1716163200000"`:        &want,
		`null`:                   nil,
		`""`:                     nil,
		`"not a date"`:           nil,
		``:                       nil,
	}

	for raw, expected := range cases {
		got := ParseDate(json.RawMessage(raw))
		if expected == nil {
			assert.Nil(t, got, raw)
			continue
		}
		require.NotNil(t, got, raw)
		assert.True(t, expected.Equal(*got), raw)
	}
}

func TestMealStatsPointDecodesEpochMillis(t *testing.T) {
	var p MealStatsPoint
	require.NoError(t, json.Unmarshal([]byte(`{"statsDate":1716163200000,"mealNo":2,"totalCount":5,"vegCount":3,"nonVegCount":2}`), &p))

	assert.Equal(t, 2024, p.StatsDate.Year())
	assert.Equal(t, 2, p.MealNo)
	assert.Equal(t, int64(3), p.VegCount)
}

func TestNullTimeMarshal(t *testing.T) {
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	body, err := json.Marshal(ProfileUpdate{RenewalDate: &NullTime{Time: &d}, Due: new(bool)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"renewalDate":"2024-06-01T00:00:00.000Z","due":false}`, string(body))

	body, err = json.Marshal(ProfileUpdate{RenewalDate: &NullTime{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"renewalDate":null}`, string(body))
}

func TestCloneDoesNotShareState(t *testing.T) {
	d := time.Now()
	tenant := &Tenant{Name: "Asha", RenewalDate: &d}
	c := tenant.Clone()
	*c.RenewalDate = d.Add(time.Hour)
	assert.True(t, tenant.RenewalDate.Equal(d))

	note := "window"
	room := &Room{RoomNo: "101", Comments: &note}
	rc := room.Clone()
	*rc.Comments = "door"
	assert.Equal(t, "window", *room.Comments)
}
