package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/logging"
)

// hubMessage is published for each recipient; the home hub forwards it as SMS.
type hubMessage struct {
	ID     string    `json:"id"`
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// MQTTTransport publishes messages to a home hub over MQTT.
type MQTTTransport struct {
	cfg       config.MQTTConfig
	newClient func(*mqtt.ClientOptions) mqtt.Client

	mu     sync.Mutex
	client mqtt.Client
}

// NewMQTTTransport creates a transport. The broker is contacted lazily on
// the first availability check.
func NewMQTTTransport(cfg config.MQTTConfig) *MQTTTransport {
	return &MQTTTransport{cfg: cfg, newClient: mqtt.NewClient}
}

// Name returns "mqtt".
func (t *MQTTTransport) Name() string { return "mqtt" }

func (t *MQTTTransport) options() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(t.cfg.Broker)
	opts.SetClientID(t.cfg.ClientID + "-" + uuid.NewString()[:8])
	if t.cfg.Username != "" {
		opts.SetUsername(t.cfg.Username)
	}
	if t.cfg.Password != "" {
		opts.SetPassword(t.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(t.cfg.ConnectTimeout)
	return opts
}

// IsAvailable connects to the broker if needed and reports the result.
func (t *MQTTTransport) IsAvailable(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		t.client = t.newClient(t.options())
	}
	if t.client.IsConnected() {
		return true
	}

	if err := wait(ctx, t.client.Connect()); err != nil {
		logging.WarnContext(ctx, "mqtt broker unavailable",
			logging.KeyTransport, t.Name(),
			logging.KeyError, err)
		return false
	}
	return true
}

// Send publishes one message per recipient and waits for each to be acknowledged.
func (t *MQTTTransport) Send(ctx context.Context, recipients []string, body string) error {
	t.mu.Lock()
	client := t.client
	t.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	for _, to := range recipients {
		payload, err := json.Marshal(hubMessage{
			ID:     uuid.NewString(),
			To:     to,
			Body:   body,
			SentAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := wait(ctx, client.Publish(t.cfg.Topic, t.cfg.QoS, false, payload)); err != nil {
			return fmt.Errorf("failed to publish to topic %s: %w", t.cfg.Topic, err)
		}
	}
	return nil
}

// Close disconnects from the broker.
func (t *MQTTTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil && t.client.IsConnected() {
		t.client.Disconnect(250)
	}
	return nil
}

// wait blocks until the token completes or ctx ends.
func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
