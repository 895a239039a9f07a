package port

import "context"

// UpsertResult reports the outcome of a mirror upsert.
type UpsertResult struct {
	ExternalID string
	Created    bool
}

// MirrorClient talks to the external spreadsheet mirror. Upserts are idempotent
// by key field; field names follow the external schema's column names exactly.
type MirrorClient interface {
	Upsert(ctx context.Context, table, keyField string, fields map[string]any) (UpsertResult, error)
	DeleteByKey(ctx context.Context, table, keyField, key string) error
	Ping(ctx context.Context) error
}
