package mirror

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// DefaultConnectTimeout bounds DialMQTT's wait for the broker.
const DefaultConnectTimeout = 5 * time.Second

// disconnectQuiesce is how long Close lets in-flight work finish, in ms.
const disconnectQuiesce = 250

// MQTT publishes console output to a broker topic.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// DialMQTT connects to broker (for example "tcp://localhost:1883") and
// returns a mirror publishing to topic.
func DialMQTT(broker, topic, clientID string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(DefaultConnectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(DefaultConnectTimeout) {
		return nil, fmt.Errorf("connect %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, err)
	}

	pkg.LogInfo(pkg.ComponentMirror, "mqtt mirror connected",
		"broker", broker,
		"topic", topic)

	return NewMQTT(client, topic), nil
}

// NewMQTT returns a mirror publishing to topic over an existing client.
func NewMQTT(client mqtt.Client, topic string) *MQTT {
	return &MQTT{client: client, topic: topic}
}

// Topic returns the publish topic.
func (m *MQTT) Topic() string {
	return m.topic
}

// IsOpen reports whether the broker connection is up.
func (m *MQTT) IsOpen() bool {
	return m.client.IsConnectionOpen()
}

// Write publishes p at QoS 0. It does not wait for the publish to complete.
func (m *MQTT) Write(p []byte) (int, error) {
	if !m.client.IsConnectionOpen() {
		return 0, pkg.ErrClosed
	}
	// The client may retain the payload after Publish returns.
	payload := make([]byte, len(p))
	copy(payload, p)
	m.client.Publish(m.topic, 0, false, payload)
	return len(p), nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(disconnectQuiesce)
	return nil
}

var _ hal.Mirror = (*MQTT)(nil)
