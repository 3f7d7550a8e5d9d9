package worker

import (
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/service/item/model"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// ItemEvent is a received item event with the topic it came on.
type ItemEvent struct {
	Topic string
	model.ItemEvent
}

func itemEventHandler(fn func(ItemEvent)) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		if event, ok := decodeItemEvent(mqtt.Message{Topic: msg.Topic(), Payload: msg.Payload()}); ok {
			fn(event)
		}
	}
}

func decodeItemEvent(msg mqtt.Message) (ItemEvent, bool) {
	event := ItemEvent{Topic: msg.Topic}
	if err := helper.ByteToStruct(msg.Payload, &event.ItemEvent); err != nil {
		logger.Warning.Printf("dropping item event on %s: %v", msg.Topic, err)
		return ItemEvent{}, false
	}
	return event, true
}

func LogItemEvent(event ItemEvent) {
	logger.Zap().Info("item event",
		zap.String("topic", event.Topic),
		zap.Uint("id", event.ID),
		zap.String("type", event.ItemType.ToString()),
		zap.String("status", event.Status.ToString()),
		zap.Int("photos", event.PhotoCount),
	)
}
