// Package course holds the domain operation of the course service.
package course

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrEmptyBatch rejects a submission with no course in it.
var ErrEmptyBatch = errors.New("course list is empty")

// Service runs course operations against a CourseStore.
type Service struct {
	store  storage.CourseStore
	stored prometheus.Counter
}

// New returns a Service backed by store. stored, when not nil, counts
// appended courses.
func New(store storage.CourseStore, stored prometheus.Counter) *Service {
	return &Service{store: store, stored: stored}
}

// Create appends an already-validated batch and returns how many
// courses were stored. An empty batch never reaches the store.
func (s *Service) Create(ctx context.Context, courses []types.Course) (int, error) {
	if len(courses) == 0 {
		return 0, ErrEmptyBatch
	}

	n, err := s.store.AppendCourses(ctx, courses)
	if err != nil {
		return 0, err
	}
	if s.stored != nil {
		s.stored.Add(float64(n))
	}
	return n, nil
}
