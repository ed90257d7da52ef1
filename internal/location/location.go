// Package location provides the position used in emergency alerts.
package location

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/permission"
)

// Provider returns the device's current position.
type Provider interface {
	CurrentLocation(ctx context.Context) (*model.LocationFix, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (*model.LocationFix, error)

// CurrentLocation calls f.
func (f ProviderFunc) CurrentLocation(ctx context.Context) (*model.LocationFix, error) {
	return f(ctx)
}

// Unavailable is a provider that never has a fix.
var Unavailable = ProviderFunc(func(context.Context) (*model.LocationFix, error) {
	return nil, errors.ErrLocationUnavailable
})

// StaticProvider always reports the same coordinates.
type StaticProvider struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	now       func() time.Time
}

// NewStaticProvider creates a provider for a fixed home position.
func NewStaticProvider(lat, lon, accuracy float64) *StaticProvider {
	return &StaticProvider{Latitude: lat, Longitude: lon, Accuracy: accuracy, now: time.Now}
}

// CurrentLocation returns the configured position stamped with the current time.
func (p *StaticProvider) CurrentLocation(ctx context.Context) (*model.LocationFix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.LocationFix{
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Accuracy:   p.Accuracy,
		CapturedAt: p.now(),
		Source:     "static",
	}, nil
}

// WithPermission asks the gateway before every request and fails with
// ErrPermissionDenied when location access is not granted.
func WithPermission(p Provider, g permission.Gateway) Provider {
	return ProviderFunc(func(ctx context.Context) (*model.LocationFix, error) {
		status, err := g.RequestLocation(ctx)
		if err != nil {
			return nil, err
		}
		if !status.Granted() {
			return nil, fmt.Errorf("%w: location is %s", errors.ErrPermissionDenied, status)
		}
		return p.CurrentLocation(ctx)
	})
}

// WithTimeout bounds every request to d. Providers that ignore cancellation
// are abandoned when the deadline passes.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return ProviderFunc(func(ctx context.Context) (*model.LocationFix, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			fix *model.LocationFix
			err error
		}
		done := make(chan result, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- result{err: fmt.Errorf("location provider panicked: %v", r)}
				}
			}()
			fix, err := p.CurrentLocation(ctx)
			done <- result{fix, err}
		}()

		select {
		case r := <-done:
			return r.fix, r.err
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: location request after %s", errors.ErrTimeout, d)
		}
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the provider selected by configuration, gated by the permission
// gateway and bounded by the configured timeout. The returned closer releases
// provider resources such as the GeoIP database.
func New(cfg config.LocationConfig, g permission.Gateway) (Provider, io.Closer, error) {
	var p Provider
	var closer io.Closer = nopCloser{}
	switch cfg.Provider {
	case "", "none":
		p = Unavailable
	case "static":
		p = NewStaticProvider(cfg.Static.Latitude, cfg.Static.Longitude, cfg.Static.Accuracy)
	case "geoip":
		geo, err := OpenGeoIP(cfg.GeoIP)
		if err != nil {
			return nil, nil, err
		}
		p, closer = geo, geo
	default:
		return nil, nil, fmt.Errorf("unknown location provider %q", cfg.Provider)
	}

	if g != nil {
		p = WithPermission(p, g)
	}
	return WithTimeout(p, cfg.Timeout), closer, nil
}
