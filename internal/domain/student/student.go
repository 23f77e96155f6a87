// Package student holds the domain operations of the student service.
//
// Each operation performs exactly one persistence call. Not-found is a
// plain boolean result, never an error; storage errors are returned
// untouched so the request layer can decide the HTTP status.
package student

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrNoFields rejects an update that sets neither name nor age.
var ErrNoFields = errors.New("no fields provided for update")

// SeedStudents is the fixed batch written by Seed.
var SeedStudents = []types.Student{
	{ID: 6, Name: "Ruipali", Age: 45},
	{ID: 7, Name: "Mits", Age: 30},
	{ID: 8, Name: "Anju", Age: 28},
}

// Service runs student operations against a StudentStore.
type Service struct {
	store  storage.StudentStore
	seeded prometheus.Counter
}

// New returns a Service backed by store. seeded, when not nil, counts
// the rows written by Seed.
func New(store storage.StudentStore, seeded prometheus.Counter) *Service {
	return &Service{store: store, seeded: seeded}
}

// Seed inserts SeedStudents in one statement and returns how many rows
// were written. It is not idempotent: a second call collides on the
// primary keys and returns the driver's error.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if err := s.store.InsertStudents(ctx, SeedStudents); err != nil {
		return 0, err
	}
	if s.seeded != nil {
		s.seeded.Add(float64(len(SeedStudents)))
	}
	return len(SeedStudents), nil
}

// Get returns the student with the given id.
func (s *Service) Get(ctx context.Context, id int64) (types.Student, bool, error) {
	return s.store.GetStudentByID(ctx, id)
}

// Update applies the fields present in upd. An empty update fails with
// ErrNoFields before storage is touched.
func (s *Service) Update(ctx context.Context, id int64, upd types.StudentUpdate) (bool, error) {
	if upd.Empty() {
		return false, ErrNoFields
	}
	return s.store.UpdateStudentByID(ctx, id, upd)
}

// Delete removes the student with the given id.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteStudentByID(ctx, id)
}

// Ping reports whether storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
