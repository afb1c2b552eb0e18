package alertbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcancelled/school-status-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	updated := time.Date(2025, time.January, 22, 6, 30, 0, 0, time.UTC)
	report := domain.StatusReport{
		IsOpen:      false,
		Status:      domain.StatusClosed,
		Message:     "Today (Wednesday, January 22nd, 2025): Closed\nSchools closed.",
		TargetDate:  "2025-01-22",
		LastUpdated: updated,
		Confidence:  0.92,
		Verified:    true,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("Closed"), msg.Key)
	assert.Contains(t, string(msg.Value), `"status":"Closed"`)
	assert.Contains(t, string(msg.Value), `"message":"Today (Wednesday, January 22nd, 2025): Closed\nSchools closed."`)
	assert.Contains(t, string(msg.Value), `"targetDate":"2025-01-22"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "status", msg.Headers[0].Key)
	assert.Equal(t, []byte("Closed"), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(updated.Format(time.RFC3339)), msg.Headers[1].Value)
}
