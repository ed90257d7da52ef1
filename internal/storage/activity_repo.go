package storage

import (
	"context"
	"time"

	"github.com/manav03panchal/safecompanion/internal/model"
)

// ActivityRepo provides operations for the activity singleton.
type ActivityRepo struct {
	kv  KV
	now func() time.Time
}

// NewActivityRepo creates a new activity repository.
func NewActivityRepo(kv KV) *ActivityRepo {
	return &ActivityRepo{kv: kv, now: time.Now}
}

// Get retrieves the activity record, creating it if it doesn't exist.
func (r *ActivityRepo) Get(ctx context.Context) (*model.Activity, error) {
	activity := &model.Activity{}
	err := getJSON(ctx, r.kv, model.KeyActivity, activity)
	if err == nil {
		return activity, nil
	}

	if !IsErrKeyNotFound(err) {
		return nil, err
	}

	// First read starts the inactivity clock.
	activity = &model.Activity{LastActivity: r.now(), Source: "first-run"}
	if err := setJSON(ctx, r.kv, model.KeyActivity, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Touch records activity at the given time.
func (r *ActivityRepo) Touch(ctx context.Context, at time.Time, source string) (*model.Activity, error) {
	activity, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	activity.LastActivity = at
	activity.Source = source
	if err := setJSON(ctx, r.kv, model.KeyActivity, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// MarkNoticed records that an inactivity notice was raised.
func (r *ActivityRepo) MarkNoticed(ctx context.Context, at time.Time) error {
	activity, err := r.Get(ctx)
	if err != nil {
		return err
	}
	activity.LastNotice = at
	return setJSON(ctx, r.kv, model.KeyActivity, activity)
}
