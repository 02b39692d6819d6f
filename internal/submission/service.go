// Package submission implements the trust-boundary write path: it
// re-validates a payload, stamps it, and appends it to the record store.
package submission

import (
	"context"
	"time"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/ports"
	"github.com/csg33k/leadform/internal/validation"
)

const (
	MsgInvalid    = "Invalid data provided. Please check the form."
	MsgSaveFailed = "Failed to save data to the database."
)

var _ ports.Submitter = (*Service)(nil)

type Service struct {
	store      ports.RecordStore
	logger     ports.Logger
	collection string
	now        func() time.Time
}

type Option func(*Service)

// WithCollection overrides the collection path records are appended under.
func WithCollection(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.collection = path
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store ports.RecordStore, logger ports.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		logger:     logger,
		collection: domain.DefaultCollection,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit validates payload and, if it conforms, makes exactly one write.
// It never returns an error value: every outcome is a Result.
func (s *Service) Submit(ctx context.Context, payload any) domain.Result {
	lead, err := validation.Parse(payload)
	if err != nil {
		s.logger.Debug("rejected submission", "error", err)
		return domain.Result{Success: false, Error: MsgInvalid}
	}

	rec := domain.NewRecord(lead, s.now())

	key, err := s.store.NewKey(ctx, s.collection)
	if err != nil {
		return s.failed(err, "")
	}
	if err := s.store.Set(ctx, s.collection, key, rec); err != nil {
		return s.failed(err, key)
	}

	s.logger.Info("submission saved", "collection", s.collection, "key", key)
	return domain.Result{Success: true}
}

func (s *Service) failed(err error, key string) domain.Result {
	s.logger.Error("store write failed", "collection", s.collection, "key", key, "error", err)
	msg := err.Error()
	if msg == "" {
		msg = MsgSaveFailed
	}
	return domain.Result{Success: false, Error: msg}
}
