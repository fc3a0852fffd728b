package store

import (
	"context"
	"encoding/json"

	"github.com/suporte-ti/helpdesk/pkg/util"
)

// ReadCollection decodes the records stored under key. An absent key
// yields an empty slice; a decode failure surfaces as a storage error.
func ReadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, util.NewStorageError("read "+key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, util.NewStorageError("decode "+key, err)
	}
	return records, nil
}

// WriteCollection replaces the records stored under key.
func WriteCollection[T any](ctx context.Context, kv KV, key string, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return util.NewStorageError("encode "+key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return util.NewStorageError("write "+key, err)
	}
	return nil
}
