package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	evt := NewEvent("jaspel.status_updated", map[string]interface{}{
		"status":  "approved",
		"updated": float64(3),
	})

	raw, err := Encode(evt)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, evt.Id, decoded.Id)
	assert.Equal(t, "jaspel.status_updated", decoded.EventType())
	assert.Equal(t, "approved", decoded.Payload()["status"])
	assert.Equal(t, float64(3), decoded.Payload()["updated"])
	assert.True(t, evt.OccurredAt.Equal(decoded.OccurredAt))
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id":"x","data":{}}`))
	assert.Error(t, err)
}
