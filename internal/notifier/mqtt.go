package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

const (
	// DefaultMQTTTopic receives the latest scan, retained.
	DefaultMQTTTopic   = "slotwatch/scan"
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

// mqttClient is the part of paho.Client the notifier uses.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// MQTTNotifier publishes each scan as a retained JSON document.
type MQTTNotifier struct {
	client mqttClient
	topic  string
}

// NewMQTTNotifier connects to broker, e.g. "tcp://localhost:1883".
func NewMQTTNotifier(broker, topic string) (*MQTTNotifier, error) {
	if broker == "" {
		return nil, fmt.Errorf("broker is required")
	}
	if topic == "" {
		topic = DefaultMQTTTopic
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("slotwatch").
		SetConnectTimeout(mqttConnectTimeout)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTTNotifier{client: client, topic: topic}, nil
}

func (n *MQTTNotifier) Name() string { return "mqtt" }

// Notify publishes with QoS 1 so the retained state survives broker restarts.
func (n *MQTTNotifier) Notify(ctx context.Context, m report.Message) error {
	payload, err := FormatPayload(m)
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("format payload: %w", err)}
	}

	token := n.client.Publish(n.topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return &DeliveryError{Channel: n.Name(), Err: ctx.Err()}
	case <-time.After(mqttPublishTimeout):
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("publish timeout")}
	}
	if err := token.Error(); err != nil {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("publish: %w", err)}
	}
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(1000)
	return nil
}

type mqttPayload struct {
	ScanID       string          `json:"scan_id,omitempty"`
	Timestamp    string          `json:"timestamp"`
	Date         string          `json:"date,omitempty"`
	AnyAvailable bool            `json:"any_available"`
	Available    []string        `json:"available"`
	Facilities   map[string]bool `json:"facilities"`
	Order        []string        `json:"order"`
}

// FormatPayload renders the MQTT document for m. Facilities maps each name to
// its availability; Order keeps the scan order.
func FormatPayload(m report.Message) ([]byte, error) {
	p := mqttPayload{
		ScanID:       m.ScanID,
		Timestamp:    m.CheckedAt.UTC().Format(time.RFC3339),
		AnyAvailable: m.AnyAvailable,
		Available:    m.AvailableNames(),
		Facilities:   make(map[string]bool, len(m.Entries)),
		Order:        make([]string, 0, len(m.Entries)),
	}
	if !m.Date.IsZero() {
		p.Date = m.Date.Display()
	}
	for _, e := range m.Entries {
		p.Facilities[e.Name] = e.Available
		p.Order = append(p.Order, e.Name)
	}
	return json.Marshal(p)
}
