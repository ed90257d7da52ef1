// Package alert implements the SOS workflow: locate, compose, fan out to
// every emergency contact, and summarize the result.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/location"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/messaging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

const flightKey = "sos"

// ContactSource supplies the current emergency contact list.
type ContactSource interface {
	List(ctx context.Context) ([]model.EmergencyContact, error)
}

// Recorder observes finished alerts. err is non-nil when the alert could
// not be attempted.
type Recorder interface {
	RecordAlert(outcome *model.AlertOutcome, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordAlert(*model.AlertOutcome, error) {}

// Options tune the workflow.
type Options struct {
	// Sentinel is the phone value that is never messaged.
	Sentinel string
	// SendTimeout bounds each transport call. Zero disables the bound.
	SendTimeout time.Duration
	// LocationTimeout bounds the location request. Zero disables the bound.
	LocationTimeout time.Duration
	// Dedupe makes concurrent calls share one fan-out.
	Dedupe bool
	// SenderName appears on the last line of the message.
	SenderName string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Sentinel:        model.DefaultEmergencySentinel,
		SendTimeout:     15 * time.Second,
		LocationTimeout: 10 * time.Second,
		Dedupe:          true,
		SenderName:      defaultSenderName,
	}
}

// Service sends emergency alerts.
type Service struct {
	contacts  ContactSource
	locator   location.Provider
	transport messaging.Transport
	opts      Options
	recorder  Recorder
	group     singleflight.Group
}

// NewService creates an alert service. A nil locator or transport behaves
// as permanently unavailable.
func NewService(contacts ContactSource, locator location.Provider, transport messaging.Transport, opts Options) *Service {
	if locator == nil {
		locator = location.Unavailable
	}
	if transport == nil {
		transport = messaging.None{}
	}
	if opts.Sentinel == "" {
		opts.Sentinel = model.DefaultEmergencySentinel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		contacts:  contacts,
		locator:   locator,
		transport: transport,
		opts:      opts,
		recorder:  nopRecorder{},
	}
}

// SetRecorder installs a recorder for finished alerts.
func (s *Service) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	s.recorder = r
}

// Send raises an emergency alert. Location and transport problems degrade
// the outcome; only an unreadable contact list or a panicking collaborator
// returns an error, and that error always wraps ErrAlertFailed.
//
// With deduplication on, a caller arriving while another alert is in flight
// waits for it and receives a copy of its outcome with Shared set.
func (s *Service) Send(ctx context.Context) (*model.AlertOutcome, error) {
	if !s.opts.Dedupe {
		return s.run(ctx)
	}

	executed := false
	ch := s.group.DoChan(flightKey, func() (any, error) {
		executed = true
		// The fan-out outlives a joiner that gives up waiting.
		return s.run(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		outcome := res.Val.(*model.AlertOutcome)
		if executed {
			return outcome, nil
		}
		shared := *outcome
		shared.Shared = true
		logging.InfoContext(ctx, "joined in-flight alert", logging.KeyAlertID, shared.ID)
		return &shared, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", errors.ErrAlertInFlight, ctx.Err())
	}
}

func (s *Service) run(ctx context.Context) (outcome *model.AlertOutcome, err error) {
	outcome = &model.AlertOutcome{
		ID:        uuid.NewString(),
		StartedAt: s.opts.Now(),
		Transport: s.transport.Name(),
	}
	ctx = logging.WithRequestID(ctx, outcome.ID[:8])

	defer func() {
		if r := recover(); r != nil {
			err = failure(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			logging.ErrorContext(ctx, "emergency alert failed", logging.KeyError, err)
			s.recorder.RecordAlert(nil, err)
			outcome = nil
			return
		}
		outcome.FinishedAt = s.opts.Now()
		logging.InfoContext(ctx, "emergency alert finished",
			logging.KeyAlertID, outcome.ID,
			logging.KeyTransport, outcome.Transport,
			logging.KeyCount, outcome.Attempted(),
			"notified", outcome.Notified(),
			"skipped", outcome.Skipped(),
			"failed", outcome.Failed(),
			logging.KeyDuration, outcome.Duration())
		s.recorder.RecordAlert(outcome, nil)
	}()

	outcome.Location = s.locate(ctx)
	outcome.LocationIncluded = outcome.Location != nil
	outcome.Message = ComposeMessage(outcome.Location, s.opts.SenderName)

	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, failure(err)
	}

	for _, c := range contacts {
		res, err := s.deliver(ctx, c, outcome.Message)
		if err != nil {
			return nil, failure(err)
		}
		outcome.Results = append(outcome.Results, res)
	}
	return outcome, nil
}

// locate returns nil on any failure.
func (s *Service) locate(ctx context.Context) *model.LocationFix {
	fix, err := bounded(ctx, s.opts.LocationTimeout, s.locator.CurrentLocation)
	if err != nil {
		logging.WarnContext(ctx, "sending alert without location", logging.KeyError, err)
		return nil
	}
	return fix
}

// deliver sends to one contact. The returned error is reserved for panics.
func (s *Service) deliver(ctx context.Context, c model.EmergencyContact, body string) (model.ContactResult, error) {
	res := model.ContactResult{ContactID: c.ID, Name: c.Name, Phone: c.Phone}
	if !c.Messageable(s.opts.Sentinel) {
		res.Status = model.DeliveryExcluded
		return res, nil
	}

	available, err := bounded(ctx, s.opts.SendTimeout, func(ctx context.Context) (bool, error) {
		return s.transport.IsAvailable(ctx), nil
	})
	if isPanic(err) {
		return res, err
	}
	if err != nil || !available {
		res.Status = model.DeliveryUnavailable
		logging.DebugLog("transport unavailable, skipping contact",
			logging.KeyContactID, c.ID,
			logging.KeyTransport, s.transport.Name())
		return res, nil
	}

	_, err = bounded(ctx, s.opts.SendTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.transport.Send(ctx, []string{c.Phone}, body)
	})
	switch {
	case isPanic(err):
		return res, err
	case err != nil:
		res.Status = model.DeliveryFailed
		res.Error = err.Error()
		logging.WarnContext(ctx, "alert delivery failed",
			logging.KeyContactID, c.ID,
			logging.KeyPhone, logging.MaskPhone(c.Phone),
			logging.KeyError, err)
	default:
		res.Status = model.DeliveryDelivered
	}
	return res, nil
}

func failure(cause error) error {
	return errors.NewSystemErrorWithOp("sos", "emergency alert failed",
		fmt.Errorf("%w: %w", errors.ErrAlertFailed, cause))
}
