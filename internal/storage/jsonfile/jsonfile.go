// Package jsonfile stores courses as one JSON array in a single file.
//
// Appending is a read-modify-write of the whole document. Three things
// keep that safe:
//
//   - writes replace the file atomically (temp file + rename), so a
//     reader or a crash never observes a half-written document;
//   - a mutex makes the Store the only writer inside the process;
//   - an advisory lock on "<path>.lock" serialises writers across
//     processes sharing the same file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/juju/utils/v4"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

const lockRetryDelay = 10 * time.Millisecond

// Store is the concrete implementation of storage.CourseStore.
type Store struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// New returns a Store backed by path. The file itself is created on the
// first append.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// AppendCourses adds courses after the stored ones and rewrites the file.
// Stored records are carried over as they are, keys the Course type does
// not know about included.
func (s *Store) AppendCourses(ctx context.Context, courses []types.Course) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, fmt.Errorf("AppendCourses: create dir: %w", err)
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return 0, fmt.Errorf("AppendCourses: lock: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("AppendCourses: lock %s not acquired", s.lock.Path())
	}
	defer s.lock.Unlock()

	existing, err := s.read()
	if err != nil {
		return 0, err
	}

	for _, c := range courses {
		raw, err := json.Marshal(c)
		if err != nil {
			return 0, fmt.Errorf("AppendCourses: encode: %w", err)
		}
		existing = append(existing, raw)
	}

	data, err := encode(existing)
	if err != nil {
		return 0, fmt.Errorf("AppendCourses: encode: %w", err)
	}

	if err := utils.AtomicWriteFile(s.path, data, 0o644); err != nil {
		return 0, fmt.Errorf("AppendCourses: write: %w", err)
	}

	return len(courses), nil
}

// read returns the stored records undecoded. Only the array itself is
// checked; a missing file is an empty array.
func (s *Store) read() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}
	// A literal "null" document decodes without error but is not an array.
	if records == nil {
		return nil, fmt.Errorf("%w: not a JSON array", storage.ErrCorrupt)
	}

	return records, nil
}

// encode renders records the way they have always been stored: an
// indented array, four spaces per level.
func encode(records []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
