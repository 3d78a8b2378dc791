// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the high-level database interface for the
// speed center. It answers the read-only queries of the analysis
// engine and stores submitted results.
package db

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// DB is a high-level interface to a database for the speed center.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRevision    *sql.Stmt
	insertInterpreter *sql.Stmt
	insertBenchmark   *sql.Stmt
	insertEnvironment *sql.Stmt
	insertResult      *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible. MySQL connections
// must set parseTime=true.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
{{define "id"}}{{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}{{end}}
CREATE TABLE IF NOT EXISTS Revisions (
	RevisionID {{template "id" .}},
	Number BIGINT NOT NULL,
	Project VARCHAR(255) NOT NULL,
	Tag VARCHAR(255) NOT NULL DEFAULT '',
	Date DATETIME NULL,
	UNIQUE (Number, Project)
);
CREATE TABLE IF NOT EXISTS Interpreters (
	InterpreterID {{template "id" .}},
	Name VARCHAR(255) NOT NULL,
	COptions VARCHAR(255) NOT NULL,
	UNIQUE (Name, COptions)
);
CREATE TABLE IF NOT EXISTS Benchmarks (
	BenchmarkID {{template "id" .}},
	Name VARCHAR(255) NOT NULL UNIQUE,
	Description VARCHAR(1024) NOT NULL DEFAULT '',
	Type VARCHAR(32) NOT NULL DEFAULT '',
	Units VARCHAR(32) NOT NULL DEFAULT '',
	LessIsBetter BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS Environments (
	EnvironmentID {{template "id" .}},
	Name VARCHAR(255) NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS Results (
	ResultID {{template "id" .}},
	Value DOUBLE NOT NULL,
	StdDev DOUBLE NULL,
	ValMin DOUBLE NULL,
	ValMax DOUBLE NULL,
	Date DATETIME NOT NULL,
	RevisionID BIGINT UNSIGNED NOT NULL,
	InterpreterID BIGINT UNSIGNED NOT NULL,
	BenchmarkID BIGINT UNSIGNED NOT NULL,
	EnvironmentID BIGINT UNSIGNED NOT NULL,
{{if not .sqlite3}}
	Index (RevisionID, InterpreterID, BenchmarkID),
{{end}}
	FOREIGN KEY (RevisionID) REFERENCES Revisions(RevisionID) ON UPDATE CASCADE ON DELETE CASCADE,
	FOREIGN KEY (InterpreterID) REFERENCES Interpreters(InterpreterID) ON UPDATE CASCADE ON DELETE CASCADE,
	FOREIGN KEY (BenchmarkID) REFERENCES Benchmarks(BenchmarkID) ON UPDATE CASCADE ON DELETE CASCADE,
	FOREIGN KEY (EnvironmentID) REFERENCES Environments(EnvironmentID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ResultsRevisionInterpreterBenchmark ON Results(RevisionID, InterpreterID, BenchmarkID);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	for _, s := range []struct {
		stmt **sql.Stmt
		q    string
	}{
		{&db.insertRevision, "INSERT INTO Revisions(Number, Project, Tag) VALUES (?, ?, '')"},
		{&db.insertInterpreter, "INSERT INTO Interpreters(Name, COptions) VALUES (?, ?)"},
		{&db.insertBenchmark, "INSERT INTO Benchmarks(Name) VALUES (?)"},
		{&db.insertEnvironment, "INSERT INTO Environments(Name) VALUES (?)"},
		{&db.insertResult, "INSERT INTO Results(Value, StdDev, ValMin, ValMax, Date, RevisionID, InterpreterID, BenchmarkID, EnvironmentID) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"},
	} {
		var err error
		*s.stmt, err = db.sql.Prepare(s.q)
		if err != nil {
			return err
		}
	}
	return nil
}

// a scanner is a *sql.Row or *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// notFound converts sql.ErrNoRows into an error wrapping
// store.ErrNotFound that describes what was missing.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), store.ErrNotFound)
	}
	return err
}

const revisionColumns = "RevisionID, Number, Project, Tag, Date"

func scanRevision(s scanner) (*store.Revision, error) {
	var r store.Revision
	var date sql.NullTime
	if err := s.Scan(&r.ID, &r.Number, &r.Project, &r.Tag, &date); err != nil {
		return nil, err
	}
	if date.Valid {
		r.Date = date.Time
	}
	return &r, nil
}

func (db *DB) queryRevisions(ctx context.Context, query string, args ...interface{}) ([]*store.Revision, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT "+revisionColumns+" FROM Revisions "+query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var revs []*store.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// RecentRevisions returns at most n revisions of project numbered
// upTo or lower, newest first.
func (db *DB) RecentRevisions(ctx context.Context, project string, upTo int64, n int) ([]*store.Revision, error) {
	if n <= 0 {
		return nil, nil
	}
	return db.queryRevisions(ctx, "WHERE Project = ? AND Number <= ? ORDER BY Number DESC LIMIT ?", project, upTo, n)
}

// RevisionsByNumber returns the revisions of every project that
// have the given number.
func (db *DB) RevisionsByNumber(ctx context.Context, number int64) ([]*store.Revision, error) {
	return db.queryRevisions(ctx, "WHERE Number = ? ORDER BY RevisionID", number)
}

// TaggedRevisions returns every revision with a non-empty tag.
func (db *DB) TaggedRevisions(ctx context.Context) ([]*store.Revision, error) {
	return db.queryRevisions(ctx, "WHERE Tag <> '' ORDER BY RevisionID")
}

// Revision returns the revision of project with the given number.
func (db *DB) Revision(ctx context.Context, number int64, project string) (*store.Revision, error) {
	row := db.sql.QueryRowContext(ctx, "SELECT "+revisionColumns+" FROM Revisions WHERE Number = ? AND Project = ?", number, project)
	r, err := scanRevision(row)
	if err != nil {
		return nil, notFound(err, "revision %d of %q", number, project)
	}
	return r, nil
}

// TagRevision sets the tag of an existing revision.
func (db *DB) TagRevision(ctx context.Context, number int64, project, tag string) error {
	res, err := db.sql.ExecContext(ctx, "UPDATE Revisions SET Tag = ? WHERE Number = ? AND Project = ?", tag, number, project)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("revision %d of %q: %w", number, project, store.ErrNotFound)
	}
	return nil
}

// Interpreter returns the interpreter with the given id.
func (db *DB) Interpreter(ctx context.Context, id int64) (*store.Interpreter, error) {
	var in store.Interpreter
	err := db.sql.QueryRowContext(ctx, "SELECT InterpreterID, Name, COptions FROM Interpreters WHERE InterpreterID = ?", id).Scan(&in.ID, &in.Name, &in.COptions)
	if err != nil {
		return nil, notFound(err, "interpreter %d", id)
	}
	return &in, nil
}

// Interpreters returns every interpreter in creation order.
func (db *DB) Interpreters(ctx context.Context) ([]*store.Interpreter, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT InterpreterID, Name, COptions FROM Interpreters ORDER BY InterpreterID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ins []*store.Interpreter
	for rows.Next() {
		var in store.Interpreter
		if err := rows.Scan(&in.ID, &in.Name, &in.COptions); err != nil {
			return nil, err
		}
		ins = append(ins, &in)
	}
	return ins, rows.Err()
}

const benchmarkColumns = "BenchmarkID, Name, Description, Type, Units, LessIsBetter"

func scanBenchmark(s scanner) (*store.Benchmark, error) {
	var b store.Benchmark
	if err := s.Scan(&b.ID, &b.Name, &b.Description, &b.Type, &b.Units, &b.LessIsBetter); err != nil {
		return nil, err
	}
	return &b, nil
}

// Benchmark returns the benchmark with the given id.
func (db *DB) Benchmark(ctx context.Context, id int64) (*store.Benchmark, error) {
	b, err := scanBenchmark(db.sql.QueryRowContext(ctx, "SELECT "+benchmarkColumns+" FROM Benchmarks WHERE BenchmarkID = ?", id))
	if err != nil {
		return nil, notFound(err, "benchmark %d", id)
	}
	return b, nil
}

// BenchmarkByName returns the benchmark with the given name.
func (db *DB) BenchmarkByName(ctx context.Context, name string) (*store.Benchmark, error) {
	b, err := scanBenchmark(db.sql.QueryRowContext(ctx, "SELECT "+benchmarkColumns+" FROM Benchmarks WHERE Name = ?", name))
	if err != nil {
		return nil, notFound(err, "benchmark %q", name)
	}
	return b, nil
}

// Benchmarks returns every benchmark in creation order.
func (db *DB) Benchmarks(ctx context.Context) ([]*store.Benchmark, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT "+benchmarkColumns+" FROM Benchmarks ORDER BY BenchmarkID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bs []*store.Benchmark
	for rows.Next() {
		b, err := scanBenchmark(rows)
		if err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

// SetBenchmarkDescription sets the description of an existing benchmark.
func (db *DB) SetBenchmarkDescription(ctx context.Context, name, description string) error {
	res, err := db.sql.ExecContext(ctx, "UPDATE Benchmarks SET Description = ? WHERE Name = ?", description, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("benchmark %q: %w", name, store.ErrNotFound)
	}
	return nil
}

// Environments returns every environment in creation order.
func (db *DB) Environments(ctx context.Context) ([]*store.Environment, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT EnvironmentID, Name FROM Environments ORDER BY EnvironmentID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var envs []*store.Environment
	for rows.Next() {
		var e store.Environment
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		envs = append(envs, &e)
	}
	return envs, rows.Err()
}

// EnvironmentByName returns the environment with the given name.
func (db *DB) EnvironmentByName(ctx context.Context, name string) (*store.Environment, error) {
	var e store.Environment
	err := db.sql.QueryRowContext(ctx, "SELECT EnvironmentID, Name FROM Environments WHERE Name = ?", name).Scan(&e.ID, &e.Name)
	if err != nil {
		return nil, notFound(err, "environment %q", name)
	}
	return &e, nil
}

// AddEnvironment returns the environment called name, creating it
// if it does not exist yet.
func (db *DB) AddEnvironment(ctx context.Context, name string) (*store.Environment, error) {
	e, err := db.EnvironmentByName(ctx, name)
	if !errors.Is(err, store.ErrNotFound) {
		return e, err
	}
	res, err := db.insertEnvironment.ExecContext(ctx, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &store.Environment{ID: id, Name: name}, nil
}

// Results returns the results matching q.
func (db *DB) Results(ctx context.Context, q store.ResultQuery) ([]*store.Result, error) {
	var where []string
	var args []interface{}
	if q.Project != "" {
		where = append(where, "v.Project = ?")
		args = append(args, q.Project)
	}
	if len(q.Revisions) > 0 {
		where = append(where, "v.Number IN ("+strings.TrimSuffix(strings.Repeat("?, ", len(q.Revisions)), ", ")+")")
		for _, n := range q.Revisions {
			args = append(args, n)
		}
	}
	for _, f := range []struct {
		col string
		id  int64
	}{
		{"r.InterpreterID", q.Interpreter},
		{"r.BenchmarkID", q.Benchmark},
		{"r.EnvironmentID", q.Environment},
	} {
		if f.id != 0 {
			where = append(where, f.col+" = ?")
			args = append(args, f.id)
		}
	}

	var query strings.Builder
	query.WriteString("SELECT r.ResultID, r.Value, r.StdDev, r.ValMin, r.ValMax, r.Date, r.RevisionID, v.Number, v.Project, r.InterpreterID, r.BenchmarkID, r.EnvironmentID FROM Results r JOIN Revisions v ON r.RevisionID = v.RevisionID")
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}
	query.WriteString(" ORDER BY v.Number DESC, r.ResultID")
	if q.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := db.sql.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*store.Result
	for rows.Next() {
		var r store.Result
		var stddev, min, max sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Value, &stddev, &min, &max, &r.Date, &r.RevisionID, &r.RevisionNumber, &r.Project, &r.InterpreterID, &r.BenchmarkID, &r.EnvironmentID); err != nil {
			return nil, err
		}
		r.StdDev, r.Min, r.Max = nullFloat(stddev), nullFloat(min), nullFloat(max)
		results = append(results, &r)
	}
	return results, rows.Err()
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

// CountResults returns the number of stored results.
func (db *DB) CountResults(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Results").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRevision, db.insertInterpreter, db.insertBenchmark, db.insertEnvironment, db.insertResult} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
