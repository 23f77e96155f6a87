// Package router builds the route table of each service.
//
// Route table, student service:
//
//	POST   /students/insert → insert the fixed seed batch
//	GET    /students/{id}   → get one student by ID
//	PUT    /students/{id}   → update name and/or age
//	DELETE /students/{id}   → delete a student
//
// Route table, course service:
//
//	POST   /courses         → append a batch of courses
//
// Both services also serve GET /healthz and GET /metrics.
package router

import (
	"log/slog"
	"net/http"

	courses "github.com/aanand-mishra/records-api/internal/domain/course"
	students "github.com/aanand-mishra/records-api/internal/domain/student"
	"github.com/aanand-mishra/records-api/internal/http/handlers/course"
	"github.com/aanand-mishra/records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/records-api/internal/http/middleware"
	"github.com/aanand-mishra/records-api/internal/http/request"
	"github.com/aanand-mishra/records-api/internal/metrics"
)

// Students returns the handler of the student service.
func Students(log *slog.Logger, m *metrics.Metrics, svc *students.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /students/insert", student.Insert(svc))
	mux.HandleFunc("GET /students/{id}", student.Get(svc))
	mux.HandleFunc("PUT /students/{id}", student.Update(svc))
	mux.HandleFunc("DELETE /students/{id}", student.Delete(svc))
	mux.HandleFunc("GET /healthz", student.Health(svc))
	mux.Handle("GET /metrics", m.Handler())

	return wrap(mux, log, m)
}

// Courses returns the handler of the course service.
func Courses(log *slog.Logger, m *metrics.Metrics, svc *courses.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /courses", course.Create(svc, request.NewValidator()))
	mux.HandleFunc("GET /healthz", course.Health())
	mux.Handle("GET /metrics", m.Handler())

	return wrap(mux, log, m)
}

// wrap applies the shared middleware. Metrics sits closest to the mux so
// it sees the route pattern the mux records on the request.
func wrap(mux *http.ServeMux, log *slog.Logger, m *metrics.Metrics) http.Handler {
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Metrics(m),
	)
}
