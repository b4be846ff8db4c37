package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.October, 20)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-20"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"20-10-2025"`), &d))
}

func TestDate_After(t *testing.T) {
	a := NewDate(2025, time.October, 20)
	b := NewDate(2025, time.October, 24)
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.False(t, a.After(a))
}

func TestDate_ScanTime(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 10, 20, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "2025-10-20", d.String())
}
