package reminders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/storage"
)

func setupService(t *testing.T) (*Service, *storage.ReminderRepo) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = storage.NewSeeder(db, "").Seed(context.Background())
	require.NoError(t, err)

	repo := storage.NewReminderRepo(db)
	return NewService(repo), repo
}

func TestToggle(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	list, found, err := svc.Toggle(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, list, 3)
	assert.True(t, list[1].Completed)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, stored)
	assert.Equal(t, "Check blood pressure", stored[1].Title)
	assert.False(t, stored[0].Completed)
	assert.False(t, stored[2].Completed)
}

func TestToggleTwiceRestores(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, 1)
	require.NoError(t, err)
	_, _, err = svc.Toggle(ctx, 1)
	require.NoError(t, err)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReminders(), stored)
}

func TestToggleUnknownID(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	list, found, err := svc.Toggle(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, model.DefaultReminders(), list)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReminders(), stored)
}

type brokenStore struct{}

func (brokenStore) List(context.Context) ([]model.Reminder, error) {
	return nil, errors.ErrStoreUnavailable
}

func (brokenStore) Update(context.Context, func([]model.Reminder) ([]model.Reminder, bool)) ([]model.Reminder, bool, error) {
	return nil, false, fmt.Errorf("read: %w", errors.ErrStoreCorrupted)
}

func TestToggleStoreError(t *testing.T) {
	svc := NewService(brokenStore{})
	_, _, err := svc.Toggle(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreCorrupted))

	_, err = svc.Pending(context.Background())
	assert.True(t, errors.Is(err, errors.ErrStoreUnavailable))
}

func TestPending(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, 1)
	require.NoError(t, err)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].ID)
	assert.Equal(t, 3, pending[1].ID)
}

func TestDue(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	afternoon := time.Date(2026, 3, 1, 15, 30, 0, 0, time.Local)

	due, err := svc.Due(ctx, afternoon)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, 1, due[0].ID)
	assert.Equal(t, 2, due[1].ID)

	_, _, err = svc.Toggle(ctx, 1)
	require.NoError(t, err)
	due, err = svc.Due(ctx, afternoon)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 2, due[0].ID)

	early := time.Date(2026, 3, 1, 7, 0, 0, 0, time.Local)
	due, err = svc.Due(ctx, early)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestTimeOn(t *testing.T) {
	day := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	at, ok := TimeOn(model.Reminder{Time: "08:05"}, day)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 5, 0, 0, time.UTC), at)

	_, ok = TimeOn(model.Reminder{Time: "8am"}, day)
	assert.False(t, ok)
}
