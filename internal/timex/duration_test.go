package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON_String(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration)
}

func TestDuration_UnmarshalJSON_Nanoseconds(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration)
}

func TestDuration_UnmarshalJSON_Invalid(t *testing.T) {
	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDuration_MarshalJSON_RoundTrip(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: time.Hour})
	require.NoError(t, err)

	var d Duration
	require.NoError(t, json.Unmarshal(b, &d))
	assert.Equal(t, time.Hour, d.Duration)
}
