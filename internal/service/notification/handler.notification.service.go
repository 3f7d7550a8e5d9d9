package notification

import (
	"context"
	"fmt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler returns the worker's queue handler, delivering each notification
// through deliverer.
func Handler(deliverer INotifier) rabbitmq.MessageHandler {
	return func(ctx context.Context, msg *amqp.Delivery) error {
		if msg.Type != "" && msg.Type != MessageType {
			logger.Warning.Printf("dropping message %s of unknown type %q", msg.MessageId, msg.Type)
			return nil
		}
		var n Notification
		if err := rabbitmq.Decode(msg, &n); err != nil {
			return err
		}
		if err := deliverer.Notify(ctx, n); err != nil {
			return fmt.Errorf("deliver %s: %w", msg.MessageId, err)
		}
		logger.Debug.Printf("delivered %s notification %s", n.Channel, msg.MessageId)
		return nil
	}
}
