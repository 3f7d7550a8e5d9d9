package rabbitmq

import (
	"context"
	"fmt"
	"lostfound/internal/pkg/logger"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Config struct {
	Username string
	Password string
	Host     string
	Port     int
	VHost    string
}

func (c *Config) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.VHost,
	}
	return u.String()
}

type ConnectionManager struct {
	conn          *amqp.Connection
	mu            sync.Mutex
	url           string
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	cm := &ConnectionManager{
		url:           config.URL(),
		retryInterval: 2 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := cm.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return cm, nil
}

func (cm *ConnectionManager) connect() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.conn != nil && !cm.conn.IsClosed() {
		return nil
	}
	if err := cm.ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	cm.conn = conn

	go cm.connectionMonitor(conn)
	return nil
}

// connectionMonitor redials until the manager is closed. Each connection
// gets its own monitor, so it returns once a replacement is up.
func (cm *ConnectionManager) connectionMonitor(conn *amqp.Connection) {
	connErr := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-cm.ctx.Done():
		return
	case err, ok := <-connErr:
		if !ok || err == nil {
			return
		}
		logger.Warning.Printf("rabbitmq connection lost: %v, reconnecting", err)
	}

	for {
		if err := cm.connect(); err == nil {
			logger.Info.Println("rabbitmq reconnected")
			return
		} else {
			logger.Warning.Printf("rabbitmq reconnect failed: %v, retrying in %v", err, cm.retryInterval)
		}
		select {
		case <-cm.ctx.Done():
			return
		case <-time.After(cm.retryInterval):
		}
	}
}

func (cm *ConnectionManager) GetConnection() *amqp.Connection {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil || cm.conn == nil || cm.conn.IsClosed() {
		return nil
	}
	return cm.conn
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.conn != nil {
		err := cm.conn.Close()
		cm.conn = nil
		if err != nil && err != amqp.ErrClosed {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

func (cm *ConnectionManager) IsClosed() bool {
	return cm.GetConnection() == nil
}
