package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/safecompanion/internal/config"
)

func testHTTPConfig(url string) config.HTTPConfig {
	return config.HTTPConfig{
		URL:        url,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryWait:  10 * time.Millisecond,
	}
}

// =============================================================================
// Factory Tests
// =============================================================================

func TestNew(t *testing.T) {
	tr, err := New(config.MessagingConfig{Transport: "none"})
	require.NoError(t, err)
	assert.Equal(t, "none", tr.Name())
	assert.False(t, tr.IsAvailable(context.Background()))

	tr, err = New(config.MessagingConfig{Transport: "log"})
	require.NoError(t, err)
	assert.True(t, tr.IsAvailable(context.Background()))
	assert.NoError(t, tr.Send(context.Background(), []string{"+15551234567"}, "hi"))

	tr, err = New(config.MessagingConfig{Transport: "http", HTTP: testHTTPConfig("http://localhost:1/send")})
	require.NoError(t, err)
	assert.Equal(t, "http", tr.Name())

	tr, err = New(config.MessagingConfig{Transport: "mqtt", MQTT: config.MQTTConfig{Broker: "tcp://localhost:1"}})
	require.NoError(t, err)
	assert.Equal(t, "mqtt", tr.Name())
	assert.NoError(t, Close(tr))

	_, err = New(config.MessagingConfig{Transport: "pigeon"})
	assert.Error(t, err)
}

// =============================================================================
// HTTP Gateway Tests
// =============================================================================

func TestHTTPGatewaySend(t *testing.T) {
	var got smsRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "SafeCompanion/1.0", r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := testHTTPConfig(srv.URL)
	cfg.Token = "tok"
	cfg.From = "+15550000000"
	g, err := NewHTTPGateway(cfg)
	require.NoError(t, err)

	assert.True(t, g.IsAvailable(context.Background()))
	require.NoError(t, g.Send(context.Background(), []string{"+15551234567"}, "help"))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, []string{"+15551234567"}, got.To)
	assert.Equal(t, "+15550000000", got.From)
	assert.Equal(t, "help", got.Body)
}

func TestHTTPGatewayRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(testHTTPConfig(srv.URL))
	require.NoError(t, err)
	require.NoError(t, g.Send(context.Background(), []string{"+15551234567"}, "help"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPGatewayDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(testHTTPConfig(srv.URL))
	require.NoError(t, err)
	err = g.Send(context.Background(), []string{"x"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "bad number")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPGatewayRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(testHTTPConfig(srv.URL))
	require.NoError(t, err)
	err = g.Send(context.Background(), []string{"+15551234567"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestHTTPGatewayHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testHTTPConfig(srv.URL + "/send")
	cfg.HealthURL = srv.URL + "/health"
	cfg.MaxRetries = 0
	g, err := NewHTTPGateway(cfg)
	require.NoError(t, err)

	assert.True(t, g.IsAvailable(context.Background()))
	healthy.Store(false)
	assert.False(t, g.IsAvailable(context.Background()))

	empty, err := NewHTTPGateway(testHTTPConfig(""))
	require.NoError(t, err)
	assert.False(t, empty.IsAvailable(context.Background()))
}

func TestHTTPGatewayTemplate(t *testing.T) {
	var body string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		contentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	cfg := testHTTPConfig(srv.URL)
	cfg.Template = "to={{.To}}&text={{.Body}}"
	g, err := NewHTTPGateway(cfg)
	require.NoError(t, err)

	require.NoError(t, g.Send(context.Background(), []string{"+1", "+2"}, "hi"))
	assert.Equal(t, "to=+1,+2&text=hi", body)
	assert.Equal(t, "text/plain", contentType)

	cfg.Template = "{{.Broken"
	_, err = NewHTTPGateway(cfg)
	assert.Error(t, err)
}

// =============================================================================
// MQTT Transport Tests
// =============================================================================

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	mqtt.Client
	mu         sync.Mutex
	connected  bool
	connectErr error
	publishErr error
	published  [][]byte
	topics     []string
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr == nil {
		c.connected = true
	}
	return newToken(c.connectErr)
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	c.published = append(c.published, payload.([]byte))
	return newToken(c.publishErr)
}

func newTestMQTT(client *fakeClient) *MQTTTransport {
	tr := NewMQTTTransport(config.MQTTConfig{Broker: "tcp://hub:1883", Topic: "home/sms", QoS: 1})
	tr.newClient = func(*mqtt.ClientOptions) mqtt.Client { return client }
	return tr
}

func TestMQTTTransportSend(t *testing.T) {
	client := &fakeClient{}
	tr := newTestMQTT(client)

	require.True(t, tr.IsAvailable(context.Background()))
	require.NoError(t, tr.Send(context.Background(), []string{"+15551234567", "+15557654321"}, "help"))

	require.Len(t, client.published, 2)
	assert.Equal(t, []string{"home/sms", "home/sms"}, client.topics)

	var msg hubMessage
	require.NoError(t, json.Unmarshal(client.published[0], &msg))
	assert.Equal(t, "+15551234567", msg.To)
	assert.Equal(t, "help", msg.Body)
	assert.NotEmpty(t, msg.ID)

	require.NoError(t, tr.Close())
	assert.False(t, client.IsConnected())
}

func TestMQTTTransportUnavailable(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("connection refused")}
	tr := newTestMQTT(client)

	assert.False(t, tr.IsAvailable(context.Background()))
	assert.Error(t, tr.Send(context.Background(), []string{"+15551234567"}, "help"))
}

func TestMQTTTransportPublishError(t *testing.T) {
	client := &fakeClient{publishErr: errors.New("not authorized")}
	tr := newTestMQTT(client)

	require.True(t, tr.IsAvailable(context.Background()))
	err := tr.Send(context.Background(), []string{"+15551234567"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home/sms")
}

func TestMQTTWaitHonoursContext(t *testing.T) {
	pending := &fakeToken{done: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := wait(ctx, pending)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
