package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lostfound/internal/pkg/logger"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

const maxReconnectAttempts = 10

func Setup(ctx context.Context, config *Config) (IRedis, error) {
	clientCtx, cancel := context.WithCancel(ctx)

	r := &Client{
		cancel: cancel,
		ctx:    clientCtx,
		config: config,
	}

	if err := r.connect(); err != nil {
		cancel()
		return nil, err
	}

	go r.reconnectHandler()

	return r, nil
}

func (r *Client) connect() error {
	r.client = _redis.NewClient(&_redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Password: r.config.Password,
		PoolSize: r.config.PoolSize,
	})

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	return nil
}

func (r *Client) reconnect() error {
	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return r.connect()
	}
	return nil
}

// reconnectHandler pings every second and re-dials with a linear backoff.
// When every attempt fails the client context is cancelled.
func (r *Client) reconnectHandler() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			logger.Info.Println("redis reconnect handler shutting down")
			return
		case <-ticker.C:
			if err := r.client.Ping(r.ctx).Err(); err == nil {
				continue
			} else {
				logger.Warning.Printf("redis connection lost: %v", err)
			}
			if !r.retryConnect() {
				logger.Warning.Println("all redis reconnection attempts failed")
				r.cancel()
				return
			}
		}
	}
}

func (r *Client) retryConnect() bool {
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		select {
		case <-r.ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * time.Second):
		}
		if err := r.reconnect(); err != nil {
			logger.Warning.Printf("redis reconnect attempt #%d failed: %v", attempt, err)
			continue
		}
		logger.Info.Println("reconnected to redis")
		return true
	}
	return false
}

func (r *Client) Close() error {
	r.cancel()
	return r.client.Close()
}

// Set stores value as JSON with an expiration time.
func (r *Client) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err = r.client.Set(r.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get returns the stored JSON, or "" when the key does not exist.
func (r *Client) Get(key string) (string, error) {
	result, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if errors.Is(err, NilType) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) GetInto(key string, dest interface{}) (bool, error) {
	raw, err := r.Get(key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to decode key %s: %w", key, err)
	}
	return true, nil
}

func (r *Client) Del(key string) error {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (r *Client) Expire(key string, expiration time.Duration) error {
	if err := r.client.Expire(r.ctx, key, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set expiration on key %s: %w", key, err)
	}
	return nil
}
