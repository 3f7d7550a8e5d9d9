package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/pkg/logger"
	"sync"
	"time"
)

type IPublisher interface {
	Publish(ctx context.Context, queue string, msg *Message) error
	Close() error
}

type Publisher struct {
	channelManager *ChannelManager
	mu             sync.Mutex
	declared       map[string]bool
	queueConfig    *QueueConfig
	maxRetries     int
	retryInterval  time.Duration
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) *Publisher {
	return &Publisher{
		channelManager: NewChannelManager(ctx, connManager),
		declared:       make(map[string]bool),
		queueConfig:    DefaultQueueConfig(),
		maxRetries:     3,
		retryInterval:  2 * time.Second,
	}
}

// Publish sends msg to queue through the default exchange and waits for the
// broker confirm.
func (p *Publisher) Publish(ctx context.Context, queue string, msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry: %w", ctx.Err())
			case <-time.After(p.retryInterval * time.Duration(attempt)):
			}
		}
		if lastErr = p.publishOnce(ctx, queue, msg); lastErr == nil {
			return nil
		}
		logger.Warning.Printf("publish %s to %s attempt %d: %v", msg.ID, queue, attempt, lastErr)
	}
	return fmt.Errorf("failed to publish message after %d attempts: %w", p.maxRetries, lastErr)
}

func (p *Publisher) publishOnce(ctx context.Context, queue string, msg *Message) error {
	ch, err := p.channelManager.GetChannel()
	if err != nil {
		return err
	}

	if !p.declared[queue] {
		cfg := p.queueConfig
		if _, err := ch.QueueDeclare(queue, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
			return fmt.Errorf("failed to declare queue: %w", err)
		}
		p.declared[queue] = true
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, msg.Publishing())
	if err != nil {
		delete(p.declared, queue)
		return fmt.Errorf("failed to publish message: %w", err)
	}
	if confirm == nil {
		return nil
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errors.New("broker nacked message")
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.channelManager.Close()
}
