package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/go-resty/resty/v2"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/logging"
)

// smsRequest is the default JSON body posted to the gateway.
type smsRequest struct {
	To   []string `json:"to"`
	From string   `json:"from,omitempty"`
	Body string   `json:"body"`
}

// HTTPGateway sends SMS through an HTTP API. Requests are retried on 429
// and 5xx responses.
type HTTPGateway struct {
	client    *resty.Client
	url       string
	healthURL string
	from      string
	tmpl      *template.Template
}

// NewHTTPGateway creates a gateway client from configuration.
func NewHTTPGateway(cfg config.HTTPConfig) (*HTTPGateway, error) {
	g := &HTTPGateway{
		url:       cfg.URL,
		healthURL: cfg.HealthURL,
		from:      cfg.From,
	}

	if cfg.Template != "" {
		tmpl, err := template.New("sms").Parse(cfg.Template)
		if err != nil {
			return nil, errors.NewUserErrorWithField("messaging.http.template", cfg.Template,
				"Invalid message template", err.Error())
		}
		g.tmpl = tmpl
	}

	g.client = resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4*cfg.RetryWait).
		SetHeader("User-Agent", "SafeCompanion/1.0").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})
	if cfg.Token != "" {
		g.client.SetAuthToken(cfg.Token)
	}

	return g, nil
}

// Name returns "http".
func (g *HTTPGateway) Name() string { return "http" }

// IsAvailable probes the health endpoint when one is configured.
func (g *HTTPGateway) IsAvailable(ctx context.Context) bool {
	if g.url == "" {
		return false
	}
	if g.healthURL == "" {
		return true
	}

	resp, err := g.client.R().SetContext(ctx).Get(g.healthURL)
	if err != nil {
		logging.WarnContext(ctx, "sms gateway health check failed", logging.KeyError, err)
		return false
	}
	return resp.IsSuccess()
}

// Send posts one request carrying every recipient.
func (g *HTTPGateway) Send(ctx context.Context, recipients []string, body string) error {
	payload, contentType, err := g.payload(recipients, body)
	if err != nil {
		return err
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(payload).
		Post(g.url)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("sms gateway returned HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	logging.DebugLog("sms accepted",
		logging.KeyTransport, g.Name(),
		logging.KeyStatus, resp.StatusCode(),
		"attempts", resp.Request.Attempt)
	return nil
}

func (g *HTTPGateway) payload(recipients []string, body string) ([]byte, string, error) {
	if g.tmpl == nil {
		data, err := json.Marshal(smsRequest{To: recipients, From: g.from, Body: body})
		return data, "application/json", err
	}

	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, map[string]any{
		"To":         strings.Join(recipients, ","),
		"Recipients": recipients,
		"From":       g.from,
		"Body":       body,
	})
	if err != nil {
		return nil, "", err
	}

	contentType := "text/plain"
	if json.Valid(buf.Bytes()) {
		contentType = "application/json"
	}
	return buf.Bytes(), contentType, nil
}
