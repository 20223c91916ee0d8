package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDate("2025-07-01")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-01", d.String())
	})

	t.Run("Wrong Layout", func(t *testing.T) {
		_, err := ParseDate("07/01/2025")
		assert.Error(t, err)
	})

	t.Run("Impossible Date", func(t *testing.T) {
		_, err := ParseDate("2025-13-40")
		assert.Error(t, err)
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("Roundtrip", func(t *testing.T) {
		d := NewDate(2025, time.July, 1)
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2025-07-01"`, string(data))

		var back Date
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, d, back)
	})

	t.Run("Rejects Other Layouts", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"July 1, 2025"`), &d))
	})
}

func TestDaysUntil(t *testing.T) {
	d := NewDate(2025, time.July, 1)
	assert.Equal(t, 2, d.DaysUntil(NewDate(2025, time.July, 3)))
	assert.Equal(t, 0, d.DaysUntil(d))
	assert.Equal(t, -1, d.DaysUntil(NewDate(2025, time.June, 30)))
}

func TestAddDays(t *testing.T) {
	d := NewDate(2025, time.January, 31)
	assert.Equal(t, "2025-02-01", d.AddDays(1).String())
	assert.Equal(t, "2025-01-30", d.AddDays(-1).String())
	assert.Equal(t, "2025-03-02", d.AddDays(30).String())
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, time.July, 1, 18, 45, 12, 999, time.UTC)
	assert.Equal(t, "2025-07-01", DateOf(ts).String())

	// A late evening in UTC+8 is still the same calendar day once
	// normalized to UTC.
	shanghai := time.FixedZone("UTC+8", 8*3600)
	ts = time.Date(2025, time.July, 2, 6, 0, 0, 0, shanghai)
	assert.Equal(t, "2025-07-01", DateOf(ts).String())
}

func TestDateScan(t *testing.T) {
	t.Run("From Time", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(2025, time.July, 1, 13, 30, 0, 0, time.UTC)))
		assert.Equal(t, "2025-07-01", d.String())
	})

	t.Run("From Bytes", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan([]byte("2025-07-01")))
		assert.Equal(t, "2025-07-01", d.String())
	})

	t.Run("From String", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan("2025-07-01"))
		assert.Equal(t, "2025-07-01", d.String())
	})

	t.Run("From Nil", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(nil))
		assert.True(t, d.IsZero())
	})

	t.Run("Unsupported Type", func(t *testing.T) {
		var d Date
		assert.Error(t, d.Scan(42))
	})
}

func TestDateValue(t *testing.T) {
	d := NewDate(2025, time.July, 1)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, d.Time, v)
}
