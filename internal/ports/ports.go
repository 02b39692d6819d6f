package ports

import (
	"context"

	"github.com/csg33k/leadform/internal/domain"
)

// RecordStore is the keyed append-only collection submissions land in.
// A Set to a key obtained from NewKey is atomic: the record is either
// fully written or not written at all.
type RecordStore interface {
	// NewKey mints a fresh unique key under collection.
	NewKey(ctx context.Context, collection string) (string, error)
	// Set writes rec at collection/key.
	Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error
}

// RecordLister is implemented by stores that can read the collection back,
// oldest first. Only operator tooling uses it.
type RecordLister interface {
	List(ctx context.Context, collection string) ([]domain.StoredRecord, error)
}

// Submitter is the form submission boundary: an untyped payload in, a
// Result out.
type Submitter interface {
	Submit(ctx context.Context, payload any) domain.Result
}

// Logger is the structured logger used across the module.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

// Opener launches one external target, e.g. in a browser tab.
type Opener interface {
	Open(ctx context.Context, target string) error
}
