// Package course contains the HTTP handler of the course service.
package course

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	courses "github.com/aanand-mishra/records-api/internal/domain/course"
	"github.com/aanand-mishra/records-api/internal/http/request"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /courses
// Validates every course in the list, then appends the batch to the store.
//
// Request body (JSON):
//
//	[ { "course_id": 1, "course_name": "Go", "credits": 4, "instructor": "Rob" } ]
//
// Success response (200 OK):
//
//	{ "status": "success", "message": "1 courses saved successfully" }
//
// Error responses:
//
//	400 Bad Request   — missing, malformed or empty list
//	422 Unprocessable — the body is not a list (null included), a record
//	                    fails validation or has a wrong JSON type; nothing
//	                    from the batch is stored
//	500 Internal      — the course file exists but is unreadable or corrupt
//
// ─────────────────────────────────────────────────────────────────────────────
func Create(svc *courses.Service, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var batch []types.Course
		if err := request.DecodeJSON(r, &batch); err != nil {
			var typeErr *request.TypeError
			status := http.StatusBadRequest
			if errors.As(err, &typeErr) {
				status = http.StatusUnprocessableEntity
			}
			response.WriteJSON(w, status, response.GeneralError(err))
			return
		}
		// A literal null decodes into a nil slice. It is the wrong type, not
		// an empty list.
		if batch == nil {
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.Errorf("body must be a list of courses"))
			return
		}
		slog.InfoContext(r.Context(), "creating courses", slog.Int("count", len(batch)))

		for i, c := range batch {
			if err := validate.Struct(c); err != nil {
				var verrs validator.ValidationErrors
				if !errors.As(err, &verrs) {
					response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
					return
				}
				response.WriteJSON(w, http.StatusUnprocessableEntity,
					response.ValidationError(fmt.Sprintf("courses[%d]", i), verrs))
				return
			}
		}

		n, err := svc.Create(r.Context(), batch)
		switch {
		case errors.Is(err, courses.ErrEmptyBatch):
			response.WriteJSON(w, http.StatusBadRequest,
				response.Errorf("Course list cannot be empty"))
			return
		case errors.Is(err, storage.ErrCorrupt):
			slog.ErrorContext(r.Context(), "course file is corrupt", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Errorf("Error reading existing course file"))
			return
		case err != nil:
			slog.ErrorContext(r.Context(), "error saving courses", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.InfoContext(r.Context(), "courses saved", slog.Int("count", n))
		response.WriteJSON(w, http.StatusOK,
			response.OK("%d courses saved successfully", n))
	}
}

// Health handles GET /healthz. The file store has nothing to ping, so it
// only reports that the process is serving.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK("ok"))
	}
}
