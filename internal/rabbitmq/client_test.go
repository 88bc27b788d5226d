package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

type ackRecorder struct {
	acked   int
	nacked  int
	requeue []bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func delivery(t *testing.T, ack amqp.Acknowledger, payload any) amqp.Delivery {
	t.Helper()
	body, ok := payload.([]byte)
	if !ok {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestHandleDelivery_AcksProcessedMessage(t *testing.T) {
	ack := &ackRecorder{}
	want := payloads.ExerciseAddedPayload{
		AppID:       "app",
		UserID:      "u1",
		Username:    "alice",
		Description: "run",
		Duration:    30,
		Date:        "2024-01-15",
		AddedAt:     time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
	}

	var got payloads.ExerciseAddedPayload
	handleDelivery(context.Background(), delivery(t, ack, want), func(_ context.Context, p payloads.ExerciseAddedPayload) error {
		got = p
		return nil
	}, discardLogger())

	assert.Equal(t, want, got)
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
}

func TestHandleDelivery_RequeuesOnHandlerError(t *testing.T) {
	ack := &ackRecorder{}

	handleDelivery(context.Background(), delivery(t, ack, payloads.ExerciseAddedPayload{UserID: "u1"}),
		func(context.Context, payloads.ExerciseAddedPayload) error { return errors.New("minio down") },
		discardLogger())

	assert.Zero(t, ack.acked)
	assert.Equal(t, []bool{true}, ack.requeue)
}

func TestHandleDelivery_DropsMalformedBody(t *testing.T) {
	ack := &ackRecorder{}
	called := false

	handleDelivery(context.Background(), delivery(t, ack, []byte("{not json")),
		func(context.Context, payloads.ExerciseAddedPayload) error {
			called = true
			return nil
		},
		discardLogger())

	assert.False(t, called)
	assert.Equal(t, []bool{false}, ack.requeue)
}
