package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadStudentsFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("HTTP_SERVER_ADDR", ":9000")

	var cfg Students
	require.NoError(t, Load("", &cfg))
	require.Equal(t, "postgres://u:p@localhost/db", cfg.Database.URL)
	require.Equal(t, "pgx", cfg.Database.Driver)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "dev", cfg.Env)
	require.NoError(t, cfg.Validate())
}

func TestLoadStudentsAcceptsNeonAlias(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Setenv("NEONDB_URL", "postgres://neon/db")

	var cfg Students
	require.NoError(t, Load("", &cfg))
	require.Equal(t, "postgres://neon/db", cfg.Database.URL)
}

func TestLoadStudentsRequiresURL(t *testing.T) {
	// t.Setenv registers the restore; the variables must be truly unset.
	for _, name := range []string{"DATABASE_URL", "NEONDB_URL"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	var cfg Students
	require.Error(t, Load("", &cfg))
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Students{Database: Database{Driver: "oracle", URL: "x"}}
	require.ErrorIs(t, cfg.Validate(), ErrUnsupportedDriver)
}

func TestLoadCoursesDefaults(t *testing.T) {
	var cfg Courses
	require.NoError(t, Load("", &cfg))
	require.Equal(t, "courses.json", cfg.CourseFile)
}

func TestLoadCoursesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	yaml := "env: prod\nhttp_server:\n  address: \"localhost:8090\"\ncourse_file: data/courses.json\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	var cfg Courses
	require.NoError(t, Load(path, &cfg))
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "localhost:8090", cfg.Addr)
	require.Equal(t, "data/courses.json", cfg.CourseFile)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg Courses
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	require.ErrorContains(t, err, "does not exist")
}
