package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

// getJSON reads key and decodes it into v.
func getJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrStoreCorrupted, key, err)
	}
	return nil
}

// setJSON encodes v and overwrites key.
func setJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, data)
}

// exists reports whether key has ever been written.
func exists(ctx context.Context, kv KV, key string) (bool, error) {
	_, err := kv.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if IsErrKeyNotFound(err) {
		return false, nil
	}
	return false, err
}
