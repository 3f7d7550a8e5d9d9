package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/pkg/logger"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(ctx context.Context, msg *amqp.Delivery) error

type SubscribeOptions struct {
	QueueOpts     *QueueConfig
	QueueName     string
	ConsumerName  string
	WorkerCount   int
	PrefetchCount int
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:     queueName,
		ConsumerName:  queueName,
		WorkerCount:   3,
		PrefetchCount: 10,
	}
}

// Subscriber consumes one queue and runs the handler for each delivery on
// an ants pool. A failed delivery is requeued once, then rejected.
type Subscriber struct {
	channelManager *ChannelManager
	handler        MessageHandler
	opts           *SubscribeOptions
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	isRunning      atomic.Bool
	pool           *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(opts.WorkerCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("worker panic: %v", i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Subscriber{
		channelManager: NewChannelManager(ctx, connManager),
		handler:        handler,
		opts:           opts,
		ctx:            ctx,
		cancel:         cancel,
		pool:           pool,
	}, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return errors.New("subscriber is already running")
	}
	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *Subscriber) run() {
	defer s.wg.Done()

	backoff := &exponentialBackoff{min: 100 * time.Millisecond, max: 30 * time.Second, factor: 2}
	for s.isRunning.Load() {
		err := s.consume()
		if err == nil || s.ctx.Err() != nil {
			return
		}
		logger.Error.Printf("consume %s: %v", s.opts.QueueName, err)
		backoff.sleep(s.ctx)
	}
}

type exponentialBackoff struct {
	min    time.Duration
	max    time.Duration
	factor float64
	curr   time.Duration
}

func (b *exponentialBackoff) sleep(ctx context.Context) {
	if b.curr == 0 {
		b.curr = b.min
	} else {
		b.curr = time.Duration(float64(b.curr) * b.factor)
		if b.curr > b.max {
			b.curr = b.max
		}
	}
	select {
	case <-ctx.Done():
	case <-time.After(b.curr):
	}
}

func (s *Subscriber) consume() error {
	ch, err := s.channelManager.GetChannel()
	if err != nil {
		return err
	}
	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	cfg := s.opts.QueueOpts
	if cfg == nil {
		cfg = DefaultQueueConfig()
	}
	q, err := ch.QueueDeclare(s.opts.QueueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	consumerName := fmt.Sprintf("%s-%d", s.opts.ConsumerName, time.Now().Unix())
	msgs, err := ch.Consume(q.Name, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	logger.Info.Printf("consuming %s as %s", q.Name, consumerName)

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("consume channel closed")
			}
			delivery := msg
			if err := s.pool.Submit(func() { s.process(&delivery) }); err != nil {
				logger.Error.Printf("submit %s: %v", delivery.MessageId, err)
				_ = delivery.Nack(false, true)
			}
		}
	}
}

func (s *Subscriber) process(msg *amqp.Delivery) {
	if err := s.handler(s.ctx, msg); err != nil {
		requeue := !msg.Redelivered
		logger.Error.Printf("handle %s message %s (requeue=%t): %v", msg.Type, msg.MessageId, requeue, err)
		if err := msg.Reject(requeue); err != nil {
			logger.Error.Printf("reject %s: %v", msg.MessageId, err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		logger.Error.Printf("ack %s: %v", msg.MessageId, err)
	}
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(60 * time.Second):
		return errors.New("timeout waiting for workers to stop")
	}

	if err := s.pool.ReleaseTimeout(30 * time.Second); err != nil {
		logger.Warning.Printf("release worker pool: %v", err)
	}
	return s.channelManager.Close()
}

func (s *Subscriber) IsHealthy() bool {
	return s.isRunning.Load() && !s.pool.IsClosed()
}
