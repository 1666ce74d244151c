package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"static-flow-classifier/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func TestWindowContains(t *testing.T) {
	testCases := []struct {
		Name   string
		Window string
		Now    time.Time
		Exp    bool
	}{
		{Name: "daytime inside", Window: "09:00-17:00", Now: at(12, 0), Exp: true},
		{Name: "daytime before", Window: "09:00-17:00", Now: at(8, 0), Exp: false},
		{Name: "daytime after", Window: "09:00-17:00", Now: at(18, 0), Exp: false},
		{Name: "daytime start inclusive", Window: "09:00-17:00", Now: at(9, 0), Exp: true},
		{Name: "daytime end inclusive", Window: "09:00-17:00", Now: at(17, 0), Exp: true},
		{Name: "wrap late evening", Window: "22:00-02:00", Now: at(23, 30), Exp: true},
		{Name: "wrap early morning", Window: "22:00-02:00", Now: at(1, 0), Exp: true},
		{Name: "wrap midday", Window: "22:00-02:00", Now: at(12, 0), Exp: false},
		{Name: "wrap midnight", Window: "22:00-02:00", Now: at(0, 0), Exp: true},
		{Name: "single minute", Window: "07:15-07:15", Now: at(7, 15), Exp: true},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			w, err := Parse(tc.Window)
			require.NoError(t, err)
			assert.Equal(t, tc.Exp, w.Contains(tc.Now))
		})
	}
}

func TestWindowEndHasMinuteGranularity(t *testing.T) {
	w, err := Parse("09:00-17:00")
	require.NoError(t, err)
	assert.False(t, w.Contains(at(17, 0).Add(30*time.Second)))
}

func TestWindowUsesLocalWallClock(t *testing.T) {
	w, err := Parse("09:00-17:00")
	require.NoError(t, err)
	zone := time.FixedZone("UTC+10", 10*60*60)
	// 01:00 UTC is 11:00 in zone.
	assert.True(t, w.Contains(at(1, 0).In(zone)))
	assert.False(t, w.Contains(at(1, 0)))
}

func TestParseRejects(t *testing.T) {
	for _, input := range []string{
		"", "09:00", "09:00-", "9-17", "09:00-17:00-18:00",
		"24:00-01:00", "09:60-10:00", "aa:bb-cc:dd", "-01:00-02:00",
	} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, model.ErrMalformedLiteral, "input %q", input)
	}
}

func TestWindowString(t *testing.T) {
	w, err := Parse("7:05-22:30")
	require.NoError(t, err)
	assert.Equal(t, "07:05-22:30", w.String())
}
