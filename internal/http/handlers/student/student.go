// Package student contains all HTTP handlers related to the Student resource.
//
// Each handler is built by a factory that receives the domain service and
// returns the function the router needs:
//
//	router.HandleFunc("GET /students/{id}", student.Get(svc))
//
// The factory runs once at start-up; the returned closure runs on every
// request. This is the only layer that assigns HTTP status codes.
package student

import (
	"errors"
	"log/slog"
	"net/http"

	students "github.com/aanand-mishra/records-api/internal/domain/student"
	"github.com/aanand-mishra/records-api/internal/http/request"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

func notFound(w http.ResponseWriter, id int64) {
	response.WriteJSON(w, http.StatusNotFound,
		response.Errorf("Student with ID %d not found", id))
}

// storageError logs err and answers 500 with its text. POST /students/insert
// has no {id} wildcard, so the id attr is only set when the route has one.
func storageError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	attrs := []slog.Attr{slog.String("error", err.Error())}
	if id := r.PathValue("id"); id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	slog.LogAttrs(r.Context(), slog.LevelError, msg, attrs...)
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert handles POST /students/insert
// Writes the fixed seed batch.
//
// Success response (200 OK):
//
//	{ "status": "success", "message": "3 student records inserted" }
//
// Error responses:
//
//	500 Internal     — database error, including a primary-key collision
//	                   when the batch was already inserted
//
// ─────────────────────────────────────────────────────────────────────────────
func Insert(svc *students.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "inserting seed students")

		n, err := svc.Seed(r.Context())
		if err != nil {
			storageError(w, r, "error inserting students", err)
			return
		}

		slog.InfoContext(r.Context(), "students inserted", slog.Int("count", n))
		response.WriteJSON(w, http.StatusOK,
			response.OK("%d student records inserted", n))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Get handles GET /students/{id}
//
// Success response (200 OK):
//
//	{ "status": "success", "data": { "id": 1, "name": "Alice", "age": 20 } }
//
// Error responses:
//
//	400 Bad Request  — id is not a positive integer
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Get(svc *students.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.InfoContext(r.Context(), "getting a student", slog.Int64("id", id))

		st, found, err := svc.Get(r.Context(), id)
		if err != nil {
			storageError(w, r, "error getting student", err)
			return
		}
		if !found {
			notFound(w, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OKData(st))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Changes only the fields present in the body.
//
// Request body (JSON), both fields optional:
//
//	{ "name": "Alice", "age": 21 }
//
// Success response (200 OK):
//
//	{ "status": "success", "message": "Student with ID 1 updated successfully" }
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty or malformed body, no fields set
//	422 Unprocessable — a field has the wrong JSON type
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc *students.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.InfoContext(r.Context(), "updating a student", slog.Int64("id", id))

		var upd types.StudentUpdate
		if err := request.DecodeJSON(r, &upd); err != nil {
			var typeErr *request.TypeError
			status := http.StatusBadRequest
			if errors.As(err, &typeErr) {
				status = http.StatusUnprocessableEntity
			}
			response.WriteJSON(w, status, response.GeneralError(err))
			return
		}

		updated, err := svc.Update(r.Context(), id, upd)
		switch {
		case errors.Is(err, students.ErrNoFields):
			response.WriteJSON(w, http.StatusBadRequest,
				response.Errorf("No fields provided for update"))
			return
		case err != nil:
			storageError(w, r, "error updating student", err)
			return
		case !updated:
			notFound(w, id)
			return
		}

		slog.InfoContext(r.Context(), "student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK,
			response.OK("Student with ID %d updated successfully", id))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
// Permanently removes a student record from the database.
//
// Success response (200 OK):
//
//	{ "status": "success", "message": "Student with ID 1 deleted successfully" }
//
// Error responses:
//
//	400 Bad Request  — invalid id
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc *students.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.InfoContext(r.Context(), "deleting a student", slog.Int64("id", id))

		deleted, err := svc.Delete(r.Context(), id)
		if err != nil {
			storageError(w, r, "error deleting student", err)
			return
		}
		if !deleted {
			notFound(w, id)
			return
		}

		slog.InfoContext(r.Context(), "student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK,
			response.OK("Student with ID %d deleted successfully", id))
	}
}

// Health handles GET /healthz by pinging the database.
func Health(svc *students.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("ok"))
	}
}
