package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/pkg/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrChannelClosed = errors.New("channel manager is closed")

// ChannelManager hands out one confirm-mode channel, reopening it after the
// broker closes it.
type ChannelManager struct {
	connManager   *ConnectionManager
	channel       *amqp.Channel
	mu            sync.Mutex
	closed        bool
	maxRetries    int
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewChannelManager(ctx context.Context, connManager *ConnectionManager) *ChannelManager {
	ctx, cancel := context.WithCancel(ctx)
	return &ChannelManager{
		connManager:   connManager,
		maxRetries:    5,
		retryInterval: 2 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (cm *ChannelManager) GetChannel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil, ErrChannelClosed
	}
	if cm.channel != nil && !cm.channel.IsClosed() {
		return cm.channel, nil
	}

	var err error
	for attempt := 0; attempt < cm.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-cm.ctx.Done():
				return nil, cm.ctx.Err()
			case <-time.After(cm.retryInterval):
			}
		}
		if cm.channel, err = cm.open(); err == nil {
			return cm.channel, nil
		}
		logger.Warning.Printf("open channel attempt %d/%d: %v", attempt+1, cm.maxRetries, err)
	}
	return nil, fmt.Errorf("failed to setup channel after %d attempts: %w", cm.maxRetries, err)
}

func (cm *ChannelManager) open() (*amqp.Channel, error) {
	conn := cm.connManager.GetConnection()
	if conn == nil {
		return nil, errors.New("no connection available")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	return ch, nil
}

func (cm *ChannelManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil
	}
	cm.closed = true
	cm.cancel()

	if cm.channel != nil {
		err := cm.channel.Close()
		cm.channel = nil
		if err != nil && err != amqp.ErrClosed {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	return nil
}
