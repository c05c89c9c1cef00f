package civildate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsInvalidDates(t *testing.T) {
	for _, raw := range []string{"2025-02-30", "2025-13-01", "25-10-01", "2025/10/01", "2025-10-01T00:00:00Z", "tomorrow", ""} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalid, raw)
	}

	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestArithmeticAndOrdering(t *testing.T) {
	d := MustParse("2025-12-28")
	assert.Equal(t, "2026-01-04", d.AddDays(7).String())
	assert.Equal(t, "2025-12-27", d.AddDays(-1).String())
	assert.Equal(t, "2075-12-28", d.AddYears(50).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, 0, d.Compare(MustParse("2025-12-28")))
	assert.Equal(t, 2025, d.Year())
}

func TestInUsesZoneNotHost(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 18:30 UTC is already the next day in UTC+7.
	instant := time.Date(2025, 10, 24, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-25", In(instant, jakarta).String())
	assert.Equal(t, "2025-10-24", In(instant, time.UTC).String())
}

func TestClockToday(t *testing.T) {
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	clock.now = func() time.Time { return time.Date(2025, 10, 24, 17, 0, 0, 0, time.UTC) }
	assert.Equal(t, "2025-10-25", clock.Today().String())

	_, err = NewClock("Mars/Olympus")
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	type payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end,omitempty"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-10-18"}`), &p))
	assert.Equal(t, "2025-10-18", p.Start.String())
	assert.Nil(t, p.End)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-10-18"}`, string(out))

	err = json.Unmarshal([]byte(`{"start":"2025-10-32"}`), &p)
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, json.Unmarshal([]byte(`{"start":""}`), &p))
	assert.True(t, p.Start.IsZero())
}
