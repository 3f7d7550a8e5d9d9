package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is one queued job. Type lets a single queue carry several job
// kinds; the subscriber dispatches on it.
type Message struct {
	ID          string
	Type        string
	Body        []byte
	Headers     amqp.Table
	Timestamp   time.Time
	ContentType string
}

func NewMessage(msgType string, payload interface{}) (*Message, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	var body []byte
	var contentType string
	switch v := payload.(type) {
	case string:
		body = []byte(v)
		contentType = "text/plain"
	case []byte:
		body = v
		contentType = "application/octet-stream"
	default:
		if body, err = json.Marshal(v); err != nil {
			return nil, err
		}
		contentType = "application/json"
	}

	now := time.Now()
	return &Message{
		ID:          fmt.Sprintf("msg_%s_%d", gid, now.Unix()),
		Type:        msgType,
		Body:        body,
		Headers:     amqp.Table{},
		Timestamp:   now,
		ContentType: contentType,
	}, nil
}

func (m *Message) Publishing() amqp.Publishing {
	return amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Type:         m.Type,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}

// Decode unmarshals a JSON delivery body into dest.
func Decode(msg *amqp.Delivery, dest interface{}) error {
	if err := json.Unmarshal(msg.Body, dest); err != nil {
		return fmt.Errorf("decode %s message %s: %w", msg.Type, msg.MessageId, err)
	}
	return nil
}
