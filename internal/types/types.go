// Package types holds all shared data structures (models) used across
// both services. Keeping them in one place prevents import cycles —
// handlers, domain operations and storage can all import types without
// depending on each other.
package types

// Student represents a row of the students table.
//
// ID is supplied by the caller; the database never generates it.
type Student struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// StudentUpdate is the body of PUT /students/{id}.
//
// Both fields are pointers so "absent" (or an explicit JSON null) can be
// told apart from a zero value: {"age": 0} sets age to 0, {} sets nothing.
type StudentUpdate struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u StudentUpdate) Empty() bool {
	return u.Name == nil && u.Age == nil
}

// Course is one record of the course store.
//
// validate:"..." tags are checked by go-playground/validator before a
// batch ever reaches storage. A single failing record rejects the batch.
type Course struct {
	CourseID   int    `json:"course_id"   validate:"gt=0"`
	CourseName string `json:"course_name" validate:"required"`
	Credits    int    `json:"credits"     validate:"gte=1,lte=10"`
	Instructor string `json:"instructor"  validate:"required"`
}
