package notification

import (
	"context"
	"encoding/json"
	"errors"
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/rabbitmq"
	"net/smtp"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	queue string
	msgs  []*rabbitmq.Message
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, queue string, msg *rabbitmq.Message) error {
	f.queue = queue
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type recorder struct {
	got []Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestCodeNotification(t *testing.T) {
	n := CodeNotification(enum.EMAIL_VERIFICATION, "user@example.com", "123456")
	assert.Equal(t, enum.EMAIL_CHANNEL, n.Channel)
	assert.Contains(t, n.Body, "123456")

	n = CodeNotification(enum.PHONE_RESET, "5551234567", "654321")
	assert.Equal(t, enum.SMS_CHANNEL, n.Channel)
	assert.Contains(t, n.Body, "654321")
}

func TestQueueNotifier_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	n := CodeNotification(enum.EMAIL_VERIFICATION, "user@example.com", "123456")

	require.NoError(t, NewQueueNotifier(pub).Notify(context.Background(), n))
	assert.Equal(t, Queue, pub.queue)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, MessageType, pub.msgs[0].Type)

	var decoded Notification
	require.NoError(t, json.Unmarshal(pub.msgs[0].Body, &decoded))
	assert.Equal(t, n, decoded)
}

func TestQueueNotifier_RejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	err := NewQueueNotifier(pub).Notify(context.Background(), Notification{Channel: enum.EMAIL_CHANNEL})
	assert.Error(t, err)
	assert.Empty(t, pub.msgs)
}

func TestHandler_Delivers(t *testing.T) {
	rec := &recorder{}
	n := CodeNotification(enum.PHONE_RESET, "5551234567", "000111")
	body, err := json.Marshal(n)
	require.NoError(t, err)

	h := Handler(rec)
	require.NoError(t, h(context.Background(), &amqp.Delivery{Type: MessageType, MessageId: "m1", Body: body}))
	require.Len(t, rec.got, 1)
	assert.Equal(t, n, rec.got[0])

	require.NoError(t, h(context.Background(), &amqp.Delivery{Type: "other", Body: body}))
	assert.Len(t, rec.got, 1)

	assert.Error(t, h(context.Background(), &amqp.Delivery{Type: MessageType, Body: []byte("{")}))

	rec.err = errors.New("smtp down")
	assert.Error(t, h(context.Background(), &amqp.Delivery{Type: MessageType, Body: body}))
}

func TestMailer(t *testing.T) {
	var addr, from string
	var to []string
	var msg []byte
	m := NewMailer(SMTPConfig{Host: "mail.local", Port: 2525, From: "no-reply@lostfound.local"})
	m.send = func(a string, _ smtp.Auth, f string, rcpt []string, body []byte) error {
		addr, from, to, msg = a, f, rcpt, body
		return nil
	}
	fallback := &recorder{}
	m.Fallback = fallback

	require.NoError(t, m.Notify(context.Background(), CodeNotification(enum.EMAIL_VERIFICATION, "user@example.com", "424242")))
	assert.Equal(t, "mail.local:2525", addr)
	assert.Equal(t, "no-reply@lostfound.local", from)
	assert.Equal(t, []string{"user@example.com"}, to)
	assert.Contains(t, string(msg), "Subject: Verify your email")
	assert.Contains(t, string(msg), "424242")

	require.NoError(t, m.Notify(context.Background(), CodeNotification(enum.PHONE_RESET, "5551234567", "1")))
	assert.Len(t, fallback.got, 1)
}

func TestLog(t *testing.T) {
	assert.NoError(t, Log{}.Notify(context.Background(), CodeNotification(enum.EMAIL_VERIFICATION, "a@b.co", "1")))
	assert.Error(t, Log{}.Notify(context.Background(), Notification{}))
}
