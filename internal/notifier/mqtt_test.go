package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(complete bool, err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                       { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}            { return t.done }
func (t *fakeToken) Error() error                     { return t.err }

type fakeMQTT struct {
	token        paho.Token
	topic        string
	qos          byte
	retained     bool
	payload      []byte
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.topic, f.qos, f.retained = topic, qos, retained
	f.payload, _ = payload.([]byte)
	return f.token
}

func (f *fakeMQTT) Disconnect(quiesce uint) { f.disconnected = true }

func TestFormatPayload(t *testing.T) {
	m := testMessage(t, false, true)

	data, err := FormatPayload(m)
	if err != nil {
		t.Fatalf("FormatPayload() error = %v", err)
	}

	var got mqttPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ScanID != "scan-1" || got.Date != "2026-10-24" || got.Timestamp != "2026-10-19T08:30:00Z" {
		t.Errorf("header fields = %+v", got)
	}
	if !got.AnyAvailable || len(got.Available) != 1 || got.Available[0] != "体育武道センター" {
		t.Errorf("available = %v (any %v)", got.Available, got.AnyAvailable)
	}
	if len(got.Order) != 2 || got.Order[0] != "芝スポーツセンター" {
		t.Errorf("order = %v", got.Order)
	}
	if got.Facilities["芝スポーツセンター"] || !got.Facilities["体育武道センター"] {
		t.Errorf("facilities = %v", got.Facilities)
	}
}

func TestFormatPayload_NoDate(t *testing.T) {
	data, err := FormatPayload(report.Message{CheckedAt: time.Now()})
	if err != nil {
		t.Fatalf("FormatPayload() error = %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["date"]; exists {
		t.Error("date should be omitted when unresolved")
	}
}

func TestMQTTNotifier_Notify(t *testing.T) {
	tests := []struct {
		name    string
		token   paho.Token
		ctx     func() context.Context
		wantErr bool
	}{
		{
			name:  "published",
			token: newFakeToken(true, nil),
			ctx:   context.Background,
		},
		{
			name:    "broker rejects",
			token:   newFakeToken(true, errors.New("not authorized")),
			ctx:     context.Background,
			wantErr: true,
		},
		{
			name:  "cancelled while waiting",
			token: newFakeToken(false, nil),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeMQTT{token: tt.token}
			n := &MQTTNotifier{client: client, topic: DefaultMQTTTopic}

			err := n.Notify(tt.ctx(), testMessage(t, true))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Notify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if client.topic != "slotwatch/scan" || client.qos != 1 || !client.retained {
				t.Errorf("published to %q qos=%d retained=%v", client.topic, client.qos, client.retained)
			}
			if !json.Valid(client.payload) {
				t.Errorf("payload is not JSON: %q", client.payload)
			}
		})
	}
}

func TestMQTTNotifier_Close(t *testing.T) {
	client := &fakeMQTT{}
	n := &MQTTNotifier{client: client, topic: DefaultMQTTTopic}
	if err := n.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !client.disconnected {
		t.Error("Close() did not disconnect")
	}
}

func TestNewMQTTNotifier_RequiresBroker(t *testing.T) {
	if _, err := NewMQTTNotifier("", ""); err == nil {
		t.Error("NewMQTTNotifier() without broker should fail")
	}
}
