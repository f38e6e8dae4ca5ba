package hw2

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/statsgate/internal/domain"
)

func TestWithMeta(t *testing.T) {
	live := NewMeta(false, time.Date(2024, 3, 1, 12, 0, 0, 7_000_000, time.UTC), "")
	liveJSON := `{"cached":false,"fetchedAt":"2024-03-01T12:00:00.007Z"}`

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"object", `{"a":1,"b":[1,2]}`, `{"a":1,"b":[1,2],"_meta":` + liveJSON + `}`},
		{"empty object", `{}`, `{"_meta":` + liveJSON + `}`},
		{"surrounding whitespace", " \n{\"a\":1}\n", `{"a":1,"_meta":` + liveJSON + `}`},
		{"array is wrapped", `[1,2]`, `{"data":[1,2],"_meta":` + liveJSON + `}`},
		{"null is wrapped", `null`, `{"data":null,"_meta":` + liveJSON + `}`},
		{"existing meta replaced", `{"_meta":{"old":true},"a":1}`, `{"a":1,"_meta":` + liveJSON + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithMeta(json.RawMessage(tt.payload), live)
			require.NoError(t, err)
			assert.True(t, json.Valid(got))
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestWithMeta_KeepsPayloadBytes(t *testing.T) {
	payload := `{"z":1.50,"a":"é"}`

	got, err := WithMeta(json.RawMessage(payload), NewMeta(true, time.Time{}, domain.ErrorTypeAuth))

	require.NoError(t, err)
	assert.Equal(t, `{"z":1.50,"a":"é","_meta":{"cached":true,"fetchedAt":null,"reason":"auth"}}`, string(got))
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	assert.Equal(t, "2024-03-01T10:00:00.000Z", FormatTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, loc)))
	assert.Equal(t, "2024-03-01T10:00:00.123Z", FormatTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 123_456_789, loc)))
}
