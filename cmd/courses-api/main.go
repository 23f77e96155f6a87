// main is the entry point of the course-submission service.
//
// RUNNING THE SERVER:
//
//	COURSE_FILE=courses.json go run ./cmd/courses-api
//
// The course file is created on the first successful submission.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/records-api/internal/config"
	courses "github.com/aanand-mishra/records-api/internal/domain/course"
	"github.com/aanand-mishra/records-api/internal/http/router"
	"github.com/aanand-mishra/records-api/internal/http/server"
	"github.com/aanand-mishra/records-api/internal/metrics"
	"github.com/aanand-mishra/records-api/internal/storage/jsonfile"
)

func main() {
	cfg := config.MustLoadCourses()

	log := server.NewLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting courses-api",
		slog.String("env", cfg.Env),
		slog.String("course_file", cfg.CourseFile),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	store := jsonfile.New(cfg.CourseFile)
	handler := router.Courses(log, m, courses.New(store, m.CoursesStored))

	if err := server.Run(ctx, log, cfg.HTTPServer.Addr, handler); err != nil {
		log.Error("server encountered an error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
