package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadMasksSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"idNumber":   "A1234567",
		"channelKey": "secret",
		"memo":       "box rent",
		"nested": map[string]any{
			"id_number": "B7654321",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "******", sanitized["idNumber"])
	assert.Equal(t, "******", sanitized["channelKey"])
	assert.Equal(t, "box rent", sanitized["memo"])

	nested, ok := sanitized["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "******", nested["id_number"])
}

func TestSanitizePayloadStructInput(t *testing.T) {
	type request struct {
		IDNumber string `json:"idNumber"`
		Amount   string `json:"amount"`
	}

	sanitized, ok := SanitizePayload(request{IDNumber: "A1234567", Amount: "95.00"}).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "******", sanitized["idNumber"])
	assert.Equal(t, "95.00", sanitized["amount"])
}
