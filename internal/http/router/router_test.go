package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/config"
	courses "github.com/aanand-mishra/records-api/internal/domain/course"
	students "github.com/aanand-mishra/records-api/internal/domain/student"
	"github.com/aanand-mishra/records-api/internal/metrics"
	"github.com/aanand-mishra/records-api/internal/storage/jsonfile"
	"github.com/aanand-mishra/records-api/internal/storage/sqldb"
	"github.com/aanand-mishra/records-api/internal/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func newStudents(t *testing.T) (http.Handler, *sqldb.DB) {
	t.Helper()
	db, err := sqldb.New(context.Background(), config.Database{
		Driver: "sqlite3",
		URL:    filepath.Join(t.TempDir(), "students.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := metrics.New()
	return Students(discard, m, students.New(db, m.StudentsSeeded)), db
}

func TestStudentLifecycle(t *testing.T) {
	h, db := newStudents(t)
	require.NoError(t, db.InsertStudents(context.Background(),
		[]types.Student{{ID: 1, Name: "Alice", Age: 20}}))

	code, env := do(t, h, http.MethodGet, "/students/1", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "success", env.Status)
	require.JSONEq(t, `{"id":1,"name":"Alice","age":20}`, string(env.Data))

	code, env = do(t, h, http.MethodPut, "/students/1", `{"age": 21}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Student with ID 1 updated successfully", env.Message)

	code, env = do(t, h, http.MethodGet, "/students/1", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"id":1,"name":"Alice","age":21}`, string(env.Data))

	code, env = do(t, h, http.MethodDelete, "/students/1", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Student with ID 1 deleted successfully", env.Message)

	code, env = do(t, h, http.MethodGet, "/students/1", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "error", env.Status)
	require.Equal(t, "Student with ID 1 not found", env.Error)
}

func TestStudentNotFound(t *testing.T) {
	h, _ := newStudents(t)

	for _, id := range []string{"99", "9999999999"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			code, _ := do(t, h, method, "/students/"+id, "")
			require.Equal(t, http.StatusNotFound, code, "%s %s", method, id)
		}
		code, _ := do(t, h, http.MethodPut, "/students/"+id, `{"name": "Ghost"}`)
		require.Equal(t, http.StatusNotFound, code, id)
	}
}

func TestStudentUpdateWithoutFields(t *testing.T) {
	h, db := newStudents(t)
	require.NoError(t, db.InsertStudents(context.Background(),
		[]types.Student{{ID: 2, Name: "Bob", Age: 30}}))

	for _, body := range []string{`{}`, `{"name": null, "age": null}`} {
		code, env := do(t, h, http.MethodPut, "/students/2", body)
		require.Equal(t, http.StatusBadRequest, code, body)
		require.Equal(t, "No fields provided for update", env.Error)
	}

	got, _, err := db.GetStudentByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, types.Student{ID: 2, Name: "Bob", Age: 30}, got)
}

func TestStudentBadRequests(t *testing.T) {
	h, _ := newStudents(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/students/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/students/0", "", http.StatusBadRequest},
		{http.MethodPut, "/students/1", "", http.StatusBadRequest},
		{http.MethodPut, "/students/1", `{"age": `, http.StatusBadRequest},
		{http.MethodPut, "/students/1", `{"age": "old"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		code, env := do(t, h, tt.method, tt.path, tt.body)
		require.Equal(t, tt.want, code, "%s %s %s", tt.method, tt.path, tt.body)
		require.Equal(t, "error", env.Status)
	}
}

func TestStudentSeedTwiceFails(t *testing.T) {
	h, _ := newStudents(t)

	code, env := do(t, h, http.MethodPost, "/students/insert", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "3 student records inserted", env.Message)

	code, env = do(t, h, http.MethodGet, "/students/7", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"id":7,"name":"Mits","age":30}`, string(env.Data))

	code, env = do(t, h, http.MethodPost, "/students/insert", "")
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotEmpty(t, env.Error)
}

func TestStudentHealthAndMetrics(t *testing.T) {
	h, _ := newStudents(t)

	code, _ := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, code)
	do(t, h, http.MethodPost, "/students/insert", "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `http_requests_total{method="GET",path="GET /healthz",status="200"} 1`)
	require.Contains(t, body, "students_seeded_total 3")
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newStudents(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func newCourses(t *testing.T) (http.Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.json")
	m := metrics.New()
	return Courses(discard, m, courses.New(jsonfile.New(path), m.CoursesStored)), path
}

func batch(ids ...int) string {
	var cs []types.Course
	for _, id := range ids {
		cs = append(cs, types.Course{CourseID: id, CourseName: "Course", Credits: 4, Instructor: "Dr. Ada"})
	}
	data, _ := json.Marshal(cs)
	return string(data)
}

func storedCourses(t *testing.T, path string) []types.Course {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cs []types.Course
	require.NoError(t, json.Unmarshal(data, &cs))
	return cs
}

func TestCoursesAppendInOrder(t *testing.T) {
	h, path := newCourses(t)

	code, env := do(t, h, http.MethodPost, "/courses", batch(1, 2))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "2 courses saved successfully", env.Message)

	code, env = do(t, h, http.MethodPost, "/courses", batch(3, 4, 5))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "3 courses saved successfully", env.Message)

	stored := storedCourses(t, path)
	require.Len(t, stored, 5)
	for i, c := range stored {
		require.Equal(t, i+1, c.CourseID)
	}
}

func TestCoursesEmptyListWritesNothing(t *testing.T) {
	h, path := newCourses(t)

	code, env := do(t, h, http.MethodPost, "/courses", `[]`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Course list cannot be empty", env.Error)
	require.NoFileExists(t, path)
}

func TestCoursesNullBodyIsUnprocessable(t *testing.T) {
	h, path := newCourses(t)

	code, env := do(t, h, http.MethodPost, "/courses", `null`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.Equal(t, "body must be a list of courses", env.Error)
	require.NoFileExists(t, path)
}

func TestCoursesInvalidRecordRejectsBatch(t *testing.T) {
	h, path := newCourses(t)

	body := `[
		{"course_id": 1, "course_name": "Go", "credits": 4, "instructor": "Rob"},
		{"course_id": 2, "course_name": "C", "credits": 11, "instructor": "Ken"}
	]`
	code, env := do(t, h, http.MethodPost, "/courses", body)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.Equal(t, "courses[1]: field credits must be at most 10", env.Error)
	require.NoFileExists(t, path)
}

func TestCoursesFieldRules(t *testing.T) {
	tests := map[string]string{
		"zero id":        `[{"course_id": 0, "course_name": "Go", "credits": 4, "instructor": "Rob"}]`,
		"missing id":     `[{"course_name": "Go", "credits": 4, "instructor": "Rob"}]`,
		"empty name":     `[{"course_id": 1, "course_name": "", "credits": 4, "instructor": "Rob"}]`,
		"zero credits":   `[{"course_id": 1, "course_name": "Go", "credits": 0, "instructor": "Rob"}]`,
		"no instructor":  `[{"course_id": 1, "course_name": "Go", "credits": 4}]`,
		"string credits": `[{"course_id": 1, "course_name": "Go", "credits": "4", "instructor": "Rob"}]`,
		"not a list":     `{"course_id": 1, "course_name": "Go", "credits": 4, "instructor": "Rob"}`,
		"null record":    `[null]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			h, path := newCourses(t)
			code, _ := do(t, h, http.MethodPost, "/courses", body)
			require.Equal(t, http.StatusUnprocessableEntity, code)
			require.NoFileExists(t, path)
		})
	}
}

func TestCoursesBoundaryCreditsAccepted(t *testing.T) {
	h, path := newCourses(t)

	body := `[
		{"course_id": 1, "course_name": "Go", "credits": 1, "instructor": "Rob"},
		{"course_id": 1, "course_name": "Go", "credits": 10, "instructor": "Rob"}
	]`
	code, _ := do(t, h, http.MethodPost, "/courses", body)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, storedCourses(t, path), 2)
}

func TestCoursesMalformedBody(t *testing.T) {
	h, path := newCourses(t)

	for _, body := range []string{"", `[{"course_id": `} {
		code, _ := do(t, h, http.MethodPost, "/courses", body)
		require.Equal(t, http.StatusBadRequest, code, body)
	}
	require.NoFileExists(t, path)
}

func TestCoursesCorruptFile(t *testing.T) {
	h, path := newCourses(t)
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	code, env := do(t, h, http.MethodPost, "/courses", batch(1))
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "Error reading existing course file", env.Error)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.Equal([]byte("{oops"), data))
}
