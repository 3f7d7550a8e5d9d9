package worker

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/pkg/rabbitmq"
	"lostfound/internal/service/item"
	"lostfound/internal/service/notification"
)

// Service runs the background consumers: queued notifications from
// rabbitmq and, when a broker is configured, item events from mqtt.
type Service struct {
	ctx        context.Context
	rabbitmq   *rabbitmq.ConnectionManager
	deliverer  notification.INotifier
	events     mqtt.IMqtt
	onEvent    func(ItemEvent)
	subscriber *rabbitmq.Subscriber
}

type IService interface {
	Start() error
	Stop() error
	IsHealthy() bool
}

type Option func(*Service)

// WithItemEvents subscribes to every item topic on client.
func WithItemEvents(client mqtt.IMqtt, fn func(ItemEvent)) Option {
	return func(s *Service) {
		s.events = client
		s.onEvent = fn
	}
}

func NewService(ctx context.Context, manager *rabbitmq.ConnectionManager, deliverer notification.INotifier, opts ...Option) IService {
	s := &Service{
		ctx:       ctx,
		rabbitmq:  manager,
		deliverer: deliverer,
		onEvent:   LogItemEvent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Start() error {
	opts := rabbitmq.DefaultSubscribeOptions(notification.Queue)
	opts.QueueOpts = rabbitmq.DefaultQueueConfig()
	subscriber, err := rabbitmq.NewSubscriber(s.ctx, s.rabbitmq, notification.Handler(s.deliverer), opts)
	if err != nil {
		return err
	}

	if err := subscriber.Start(); err != nil {
		if stopErr := subscriber.Stop(); stopErr != nil {
			logger.Error.Println("Failed to stop subscriber: ", stopErr)
		}
		return err
	}
	s.subscriber = subscriber

	if s.events != nil {
		if err := s.events.Subscribe(item.TopicPrefix+"#", 1, itemEventHandler(s.onEvent)); err != nil {
			return fmt.Errorf("subscribe item events: %w", err)
		}
	}
	return nil
}

func (s *Service) Stop() error {
	var errs []error
	if s.subscriber != nil {
		errs = append(errs, s.subscriber.Stop())
	}
	if s.events != nil {
		s.events.Close()
	}
	return errors.Join(errs...)
}

func (s *Service) IsHealthy() bool {
	return s.subscriber != nil && s.subscriber.IsHealthy()
}
