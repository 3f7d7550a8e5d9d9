package mqtt

import (
	"encoding/json"
	"fmt"
	"lostfound/internal/pkg/logger"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const defaultTimeout = 5 * time.Second

func Setup(config *Config) (IMqtt, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.URL)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultTimeout)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info.Printf("connected to mqtt broker %s", config.URL)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Error.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", token.Error())
	}

	return &Client{client: client, timeout: defaultTimeout}, nil
}

func (m *Client) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error {
	token := m.client.Subscribe(topic, qos, callback)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("subscribe %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// Publish sends payload as JSON unless it is already []byte.
func (m *Client) Publish(topic string, qos byte, retained bool, payload any) error {
	data, ok := payload.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	token := m.client.Publish(topic, qos, retained, data)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	return token.Error()
}

func (m *Client) Close() {
	m.client.Disconnect(250)
}
