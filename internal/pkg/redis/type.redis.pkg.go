package redis

import (
	"context"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

type Config struct {
	Host     string
	Port     int
	Password string
	PoolSize int
}

type Client struct {
	client *_redis.Client
	config *Config
	cancel context.CancelFunc
	ctx    context.Context
}

// IRedis is the key/value surface the services need. Values are stored as
// JSON; Get returns the raw JSON text and GetInto decodes it.
type IRedis interface {
	Close() error
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	GetInto(key string, dest interface{}) (bool, error)
	Del(key string) error
	Expire(key string, expiration time.Duration) error
}

const NilType = _redis.Nil
