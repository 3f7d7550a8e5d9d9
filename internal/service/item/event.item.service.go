package item

import (
	"context"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/service/item/model"
)

const TopicPrefix = "lostfound/items/"

type IEventPublisher interface {
	Publish(ctx context.Context, event model.ItemEvent) error
}

// MQTTEvents publishes item events to lostfound/items/<type>.
type MQTTEvents struct {
	client mqtt.IMqtt
}

func NewMQTTEvents(client mqtt.IMqtt) *MQTTEvents {
	return &MQTTEvents{client: client}
}

func (m *MQTTEvents) Publish(_ context.Context, event model.ItemEvent) error {
	return m.client.Publish(TopicPrefix+event.ItemType.ToString(), 1, false, event)
}

type NoopEvents struct{}

func (NoopEvents) Publish(context.Context, model.ItemEvent) error { return nil }
