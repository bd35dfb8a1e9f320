package kvstore

import (
	"context"
	"encoding/json"
)

// LoadJSON decodes the item at key into out. A missing or undecodable value
// leaves out untouched and reports false; only storage failures are errors.
func LoadJSON(ctx context.Context, store Store, sessionID, key string, out any) (bool, error) {
	if store == nil {
		return false, nil
	}
	raw, ok, err := store.GetItem(ctx, sessionID, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes value and writes it under key.
func SaveJSON(ctx context.Context, store Store, sessionID, key string, value any) error {
	if store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.SetItem(ctx, sessionID, key, string(payload))
}
