// Package config handles loading and parsing the configuration of both
// services. Values are resolved in this order (later wins):
//  1. A .env file in the working directory, if present
//  2. An optional YAML file:  CONFIG_PATH=/path/to/config.yaml
//     or the command-line flag --config=/path/to/config.yaml
//  3. Process environment variables (env:"..." tags)
//
// The parsed values are returned as a pointer and handed to the storage
// layer at composition time. Nothing in this package is global state.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Common holds the settings shared by both services.
type Common struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Students is the configuration of the student-records service.
type Students struct {
	Common   `yaml:",inline"`
	Database Database `yaml:"database"`
}

// Database describes the relational backend of the student service.
//
// URL is mandatory: the service refuses to start without a connection
// string. NEONDB_URL is accepted as an alias of DATABASE_URL.
type Database struct {
	// Driver is a database/sql driver name: "pgx" or "sqlite3".
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"pgx"`
	URL    string `yaml:"url" env:"DATABASE_URL,NEONDB_URL" env-required:"true"`
}

// Courses is the configuration of the course-submission service.
type Courses struct {
	Common `yaml:",inline"`

	// CourseFile is the JSON document holding every submitted course.
	// A relative path is resolved against the working directory and the
	// file is created on the first write.
	CourseFile string `yaml:"course_file" env:"COURSE_FILE" env-default:"courses.json"`
}

// ErrUnsupportedDriver is returned for a Database.Driver other than
// "pgx" or "sqlite3".
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Validate checks the fields cleanenv cannot express as tags.
func (s *Students) Validate() error {
	switch s.Database.Driver {
	case "pgx", "sqlite3":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, s.Database.Driver)
	}
}

// Load populates cfg from the YAML file at path (skipped when path is
// empty) and then from the environment. It is the error-returning core
// of MustLoadStudents and MustLoadCourses.
func Load(path string, cfg any) error {
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("read env: %w", err)
		}
		return nil
	}

	// Verify the file exists before trying to read it so the failure
	// names the path rather than surfacing a bare "open" error.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// MustLoadStudents reads and returns the student service config.
// Functions prefixed with "Must" exit the process on failure: a missing
// connection string is fatal at start-up.
func MustLoadStudents() *Students {
	var cfg Students
	mustLoad(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// MustLoadCourses reads and returns the course service config.
func MustLoadCourses() *Courses {
	var cfg Courses
	mustLoad(&cfg)
	return &cfg
}

func mustLoad(cfg any) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

	if err := Load(configPath(), cfg); err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
}

// configPath returns CONFIG_PATH, falling back to the --config flag.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	flags := flag.String("config", "", "Path to the configuration YAML file")
	flag.Parse()
	return *flags
}
