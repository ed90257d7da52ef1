// Package messaging delivers alert text to emergency contacts.
package messaging

import (
	"context"
	"fmt"
	"io"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/logging"
)

// Transport sends a text message to a set of phone numbers.
type Transport interface {
	// IsAvailable reports whether the transport can send right now.
	IsAvailable(ctx context.Context) bool
	// Send delivers body to every recipient.
	Send(ctx context.Context, recipients []string, body string) error
	// Name identifies the transport in logs and outcomes.
	Name() string
}

// None is a transport that is never available, for devices without SMS.
type None struct{}

func (None) IsAvailable(context.Context) bool { return false }

func (None) Send(context.Context, []string, string) error {
	return fmt.Errorf("no messaging transport configured")
}

func (None) Name() string { return "none" }

// LogTransport writes messages to the log instead of sending them. It is
// always available and is meant for dry runs.
type LogTransport struct{}

func (LogTransport) IsAvailable(context.Context) bool { return true }

func (LogTransport) Send(ctx context.Context, recipients []string, body string) error {
	logging.InfoContext(ctx, "message (dry run)",
		logging.KeyTransport, "log",
		"to", logging.MaskPhones(recipients),
		"bytes", len(body))
	return nil
}

func (LogTransport) Name() string { return "log" }

// New builds the transport selected by configuration. The caller should
// close the transport when it implements io.Closer.
func New(cfg config.MessagingConfig) (Transport, error) {
	switch cfg.Transport {
	case "", "none":
		return None{}, nil
	case "log":
		return LogTransport{}, nil
	case "http":
		return NewHTTPGateway(cfg.HTTP)
	case "mqtt":
		return NewMQTTTransport(cfg.MQTT), nil
	default:
		return nil, fmt.Errorf("unknown messaging transport %q", cfg.Transport)
	}
}

// Close closes t if it holds resources.
func Close(t Transport) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
