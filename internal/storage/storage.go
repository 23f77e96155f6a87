// Package storage defines the contracts the domain operations depend on.
//
// Each method acquires its own resource handle (a pooled database
// connection or the course file), performs exactly one logical
// operation and releases the handle on every exit path. Implementations
// live in the sqldb and jsonfile sub-packages; tests substitute fakes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrCorrupt is returned when persisted data cannot be decoded. The
// stored data is left untouched.
var ErrCorrupt = errors.New("corrupt stored data")

// StudentStore is the relational storage contract of the student service.
type StudentStore interface {
	// InsertStudents inserts every record in a single statement inside
	// one transaction. Any failure, including a primary-key collision,
	// rolls the whole batch back.
	InsertStudents(ctx context.Context, students []types.Student) error

	// GetStudentByID looks up one student. found is false, with a nil
	// error, when no row matches.
	GetStudentByID(ctx context.Context, id int64) (student types.Student, found bool, err error)

	// UpdateStudentByID writes only the non-nil fields of upd. It reports
	// false when no row matched id.
	UpdateStudentByID(ctx context.Context, id int64, upd types.StudentUpdate) (bool, error)

	// DeleteStudentByID physically removes a row. It reports false when
	// no row matched id.
	DeleteStudentByID(ctx context.Context, id int64) (bool, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// CourseStore is the file-backed storage contract of the course service.
type CourseStore interface {
	// AppendCourses adds courses after every stored record, preserving
	// order, and returns how many were stored.
	AppendCourses(ctx context.Context, courses []types.Course) (int, error)
}
