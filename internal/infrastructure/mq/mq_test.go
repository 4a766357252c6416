package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet_adoption_server/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestChannelBrokerDeliversInOrder(t *testing.T) {
	rec := &recorder{}
	b := NewChannelBroker(4, rec.handle)
	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, b.Publish(context.Background(), Event{Type: EventApplicationCreated, ApplicationId: id}))
	}
	require.NoError(t, b.Close())

	got := rec.snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].ApplicationId)
	assert.Equal(t, "a3", got[2].ApplicationId)

	assert.ErrorIs(t, b.Publish(context.Background(), Event{}), ErrBrokerClosed)
	assert.NoError(t, b.Close())
}

func TestChannelBrokerSurvivesHandlerPanic(t *testing.T) {
	rec := &recorder{}
	calls := 0
	b := NewChannelBroker(2, func(ctx context.Context, ev Event) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return rec.handle(ctx, ev)
	})
	require.NoError(t, b.Publish(context.Background(), Event{ApplicationId: "x"}))
	require.NoError(t, b.Publish(context.Background(), Event{ApplicationId: "y"}))
	require.NoError(t, b.Close())
	assert.Len(t, rec.snapshot(), 1)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	msgs chan kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) Close() error { return nil }

func TestKafkaBrokerPublishAndConsume(t *testing.T) {
	w := &fakeWriter{}
	r := &fakeReader{msgs: make(chan kafka.Message, 4)}
	rec := &recorder{}
	b := newKafkaBroker(w, r, rec.handle)

	ev := Event{Type: EventApplicationApproved, ApplicationId: "app-1", PetId: "pet-1", OccurredAt: time.Unix(100, 0).UTC()}
	require.NoError(t, b.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("pet-1"), w.msgs[0].Key)

	// 把写出的消息回灌给消费端，外加一条坏消息
	r.msgs <- kafka.Message{Value: []byte("not json")}
	r.msgs <- w.msgs[0]

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	got := rec.snapshot()[0]
	assert.Equal(t, ev.ApplicationId, got.ApplicationId)
	assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
	require.NoError(t, b.Close())
}

type fakeNotifier struct {
	receiver, content, petId string
	err                      error
}

func (f *fakeNotifier) CreateNotification(_ context.Context, receiverId, content, petId string) error {
	f.receiver, f.content, f.petId = receiverId, content, petId
	return f.err
}

func TestNotificationHandler(t *testing.T) {
	n := &fakeNotifier{}
	h := NewNotificationHandler(n)

	require.NoError(t, h(context.Background(), Event{Type: EventApplicationCreated, PetId: "p", PetName: "Rex", PublisherId: "pub", ApplicantId: "app"}))
	assert.Equal(t, "pub", n.receiver)
	assert.Contains(t, n.content, "Rex")

	require.NoError(t, h(context.Background(), Event{Type: EventApplicationRejected, PetName: "Rex", PublisherId: "pub", ApplicantId: "app"}))
	assert.Equal(t, "app", n.receiver)
	assert.Contains(t, n.content, "未通过")

	n.err = errors.New("db down")
	assert.Error(t, h(context.Background(), Event{Type: EventApplicationApproved, ApplicantId: "app"}))

	n.receiver = ""
	assert.NoError(t, h(context.Background(), Event{Type: "unknown"}))
	assert.Empty(t, n.receiver)
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New(&config.KafkaConfig{MessageMode: "nats"}, nil)
	assert.Error(t, err)

	p, err := New(&config.KafkaConfig{}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
