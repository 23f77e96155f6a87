// Package sqldb provides a database/sql implementation of
// storage.StudentStore that runs against PostgreSQL (through the pgx
// stdlib driver) or SQLite (through go-sqlite3).
//
// Every operation checks out one connection from the pool with
// (*sql.DB).Conn and returns it before the method exits, so each request
// works on its own connection and relies on the database's transactions
// for isolation.
//
// Queries use $N placeholders, which both PostgreSQL and SQLite accept.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/types"

	// Blank imports: side-effect only, they register the "pgx" and
	// "sqlite3" drivers with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// schema is idempotent and valid for both backends. id is caller-supplied,
// so there is no AUTOINCREMENT / SERIAL. BIGINT makes PostgreSQL type the
// $1 of an id lookup as int8, matching the full int64 path id range.
const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id   BIGINT  PRIMARY KEY,
		name TEXT    NOT NULL,
		age  INTEGER NOT NULL
	)`

// DB is the concrete implementation of storage.StudentStore.
type DB struct {
	db *sql.DB
}

// New opens the database described by cfg and makes sure the students
// table exists.
func New(ctx context.Context, cfg config.Database) (*DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("sqldb.New: open db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqldb.New: create table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the connection pool.
func (s *DB) Close() error {
	return s.db.Close()
}

// Ping checks that a connection can be established.
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withConn checks out a single connection for the duration of fn.
func (s *DB) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// withTx runs fn in a transaction on its own connection. fn's commit
// decision is its boolean result: false rolls back even without an
// error. Every error path rolls back before returning.
func (s *DB) withTx(ctx context.Context, fn func(*sql.Tx) (commit bool, err error)) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		// Rollback on panic, then re-throw.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r)
			}
		}()

		commit, err := fn(tx)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
			return err
		}
		if !commit {
			return tx.Rollback()
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

// InsertStudents inserts every record with one multi-row INSERT.
func (s *DB) InsertStudents(ctx context.Context, students []types.Student) error {
	if len(students) == 0 {
		return nil
	}

	rows := make([]string, 0, len(students))
	args := make([]any, 0, 3*len(students))
	for i, st := range students {
		n := 3 * i
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", n+1, n+2, n+3))
		args = append(args, st.ID, st.Name, st.Age)
	}
	query := "INSERT INTO students (id, name, age) VALUES " + strings.Join(rows, ", ")

	return s.withTx(ctx, func(tx *sql.Tx) (bool, error) {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("InsertStudents: exec: %w", err)
		}
		return true, nil
	})
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *DB) GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error) {
	var (
		student types.Student
		found   bool
	)

	err := s.withConn(ctx, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx,
			"SELECT id, name, age FROM students WHERE id = $1",
			id,
		).Scan(&student.ID, &student.Name, &student.Age)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return fmt.Errorf("GetStudentByID: scan: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return types.Student{}, false, err
	}

	return student, found, nil
}

// updatableColumns is the whitelist of columns an update may touch. Column
// names only ever come from here; request input contributes values.
var updatableColumns = []struct {
	name  string
	value func(types.StudentUpdate) (any, bool)
}{
	{"name", func(u types.StudentUpdate) (any, bool) {
		if u.Name == nil {
			return nil, false
		}
		return *u.Name, true
	}},
	{"age", func(u types.StudentUpdate) (any, bool) {
		if u.Age == nil {
			return nil, false
		}
		return *u.Age, true
	}},
}

// buildUpdate assembles the UPDATE statement for the fields present in upd.
// It returns an empty query when upd carries no field.
func buildUpdate(id int64, upd types.StudentUpdate) (string, []any) {
	var (
		sets []string
		args []any
	)
	for _, col := range updatableColumns {
		v, ok := col.value(upd)
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col.name, len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE students SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))
	return query, args
}

// UpdateStudentByID writes the fields present in upd. Nothing matched
// means nothing changed, so that case rolls back and reports false.
func (s *DB) UpdateStudentByID(ctx context.Context, id int64, upd types.StudentUpdate) (bool, error) {
	query, args := buildUpdate(id, upd)
	if query == "" {
		return false, errors.New("UpdateStudentByID: no fields to update")
	}

	var updated bool
	err := s.withTx(ctx, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return false, fmt.Errorf("UpdateStudentByID: exec: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
		}
		updated = n > 0
		return updated, nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

// DeleteStudentByID removes a student row by primary key.
func (s *DB) DeleteStudentByID(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
		if err != nil {
			return false, fmt.Errorf("DeleteStudentByID: exec: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
		}
		deleted = n > 0
		return true, nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}
