package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "canonical format", input: "2024-01-10", want: NewDate(2024, time.January, 10)},
		{name: "single digit month and day", input: "2024-1-5", want: NewDate(2024, time.January, 5)},
		{name: "end of year", input: "2023-12-31", want: NewDate(2023, time.December, 31)},
		{name: "empty string", input: "", wantErr: true},
		{name: "day first format", input: "10/01/2024", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2024-01-05", NewDate(2024, time.January, 5).String())
	assert.Equal(t, "", Date{}.String())
}

func TestNewDate_Normalizes(t *testing.T) {
	// 2024-01-32 is February 1st
	assert.Equal(t, NewDate(2024, time.February, 1), NewDate(2024, time.January, 32))
}

func TestDate_Compare(t *testing.T) {
	early := MustParseDate("2024-01-10")
	late := MustParseDate("2024-03-01")

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.Equal(t, -1, early.Compare(late))
	assert.Equal(t, 1, late.Compare(early))
	assert.Equal(t, 0, early.Compare(MustParseDate("2024-1-10")))
}

func TestDate_PeriodStarts(t *testing.T) {
	d := MustParseDate("2024-08-17")

	assert.Equal(t, MustParseDate("2024-08-01"), d.StartOfMonth())
	assert.Equal(t, MustParseDate("2024-01-01"), d.StartOfYear())
}

func TestToday_UsesLocalCalendarDay(t *testing.T) {
	// 23:30 in Sao Paulo is already the next day in UTC; the calendar day must stay local
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, time.May, 31, 23, 30, 0, 0, saoPaulo)

	assert.Equal(t, MustParseDate("2024-05-31"), Today(now))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: MustParseDate("2024-01-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-10"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-2-3"}`), &w))
	assert.Equal(t, MustParseDate("2024-02-03"), w.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &w))
	assert.True(t, w.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"not a date"}`), &w))
}
