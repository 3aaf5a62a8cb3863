package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampWireFormat(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 6, 15, 21, 5, 9, 0, time.Local))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-15 21:05:09"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Time().Equal(ts.Time()))
}

func TestDateWireFormat(t *testing.T) {
	d := NewDate(time.Date(2024, 6, 15, 21, 5, 9, 0, time.Local))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-15"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "2024-06-15", back.String())
}

func TestTimestampRejectsOtherLayouts(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"2024-06-15T21:05:09Z"`), &ts))
}
