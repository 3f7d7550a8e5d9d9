package mqtt

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Client struct {
	client  mqtt.Client
	timeout time.Duration
}

type Config struct {
	URL      string
	ClientID string
	Username string
	Password string
}

type IMqtt interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error
	Publish(topic string, qos byte, retained bool, payload interface{}) error
	Close()
}

// Message is what a subscriber callback receives, decoupled from paho for
// consumers that only need topic and payload.
type Message struct {
	Topic   string
	Payload []byte
}
