package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestEncodeWrapsPayload(t *testing.T) {
	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	data, err := Encode(TaskToggled, map[string]interface{}{"task_id": "t1", "completed": true}, at, "corr-1")
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	require.Equal(t, TaskToggled, envelope.Name)
	require.Equal(t, "corr-1", envelope.CorrelationID)
	require.Equal(t, time.UTC, envelope.OccurredAt.Location())
	require.JSONEq(t, `{"task_id":"t1","completed":true}`, string(envelope.Payload))
}

func TestNATSPublisherWithoutConnection(t *testing.T) {
	publisher := NewNATSPublisher(nil, ".studypath.", nil, zerolog.Nop())
	require.Equal(t, "studypath.account.deleted", publisher.Subject(AccountDeleted))
	require.NoError(t, publisher.Publish(context.Background(), AccountDeleted, map[string]string{"user_id": "u1"}))

	var nilPublisher *NATSPublisher
	require.NoError(t, nilPublisher.Publish(context.Background(), AccountDeleted, nil))
	require.NoError(t, Nop{}.Publish(context.Background(), RoadmapImported, nil))

	bare := NewNATSPublisher(nil, "", nil, zerolog.Nop())
	require.Equal(t, "task.toggled", bare.Subject(TaskToggled))
}
