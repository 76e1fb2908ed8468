package availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("bogus")
	assert.Error(t, err)
}

func TestTimeOfDayOn(t *testing.T) {
	tod, err := ParseTimeOfDay("14:45")
	require.NoError(t, err)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	at := tod.On(date)
	assert.Equal(t, time.Date(2026, 9, 7, 14, 45, 0, 0, time.UTC), at)
}

func TestTimeOfDayJSON(t *testing.T) {
	type payload struct {
		Start TimeOfDay `json:"start"`
	}

	data, err := json.Marshal(payload{Start: TimeOfDay(9 * 60)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"17:15"}`), &p))
	assert.Equal(t, "17:15", p.Start.String())
}
