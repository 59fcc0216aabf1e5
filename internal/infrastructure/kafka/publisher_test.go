package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishEscrowEvent_KeysByOrderRef(t *testing.T) {
	w := &recordingWriter{}
	pub := &KafkaPublisher{writer: w}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := pub.PublishEscrowEvent(domain.EscrowEvent{
		OrderRef:       "AB12CD34EF",
		Action:         string(domain.ActionMarkFunded),
		EscrowStatus:   domain.EscrowInEscrow,
		PreviousStatus: domain.EscrowAwaitingPayment,
		ActorID:        "op-1",
		ActorRole:      domain.RoleSupport,
		AmountCents:    2200,
		OccurredAt:     at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "AB12CD34EF", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var decoded EscrowEventMessage
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "in_escrow", decoded.EscrowStatus)
	assert.Equal(t, "awaiting_payment", decoded.PreviousStatus)
	assert.Equal(t, "support", decoded.ActorRole)
	assert.Equal(t, int64(2200), decoded.AmountCents)
}

func TestPublishEscrowEvent_PropagatesWriterError(t *testing.T) {
	pub := &KafkaPublisher{writer: &recordingWriter{err: errors.New("broker down")}}
	err := pub.PublishEscrowEvent(domain.EscrowEvent{OrderRef: "X"})
	assert.EqualError(t, err, "broker down")
}
