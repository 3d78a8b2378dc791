// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// AddResult stores the result described by s. The revision,
// interpreter and benchmark it names are created if they don't exist
// yet; the environment must already exist. Submitting an identical
// result again does not create a second row: the existing result is
// returned with created set to false.
//
// Either everything is written or, on error, nothing is.
func (db *DB) AddResult(ctx context.Context, s *store.Submission) (res *store.Result, created bool, err error) {
	if err := s.Validate(); err != nil {
		return nil, false, err
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var envID int64
	if err := tx.QueryRowContext(ctx, "SELECT EnvironmentID FROM Environments WHERE Name = ?", s.Environment).Scan(&envID); err != nil {
		return nil, false, notFound(err, "environment %q", s.Environment)
	}

	benchID, err := db.getOrCreate(ctx, tx, db.insertBenchmark,
		"SELECT BenchmarkID FROM Benchmarks WHERE Name = ?", s.BenchmarkName)
	if err != nil {
		return nil, false, fmt.Errorf("benchmark %q: %v", s.BenchmarkName, err)
	}
	if err := updateBenchmark(ctx, tx, benchID, s); err != nil {
		return nil, false, err
	}

	revID, err := db.getOrCreate(ctx, tx, db.insertRevision,
		"SELECT RevisionID FROM Revisions WHERE Number = ? AND Project = ?", s.RevisionNumber, s.RevisionProject)
	if err != nil {
		return nil, false, fmt.Errorf("revision %d of %q: %v", s.RevisionNumber, s.RevisionProject, err)
	}
	if !s.RevisionDate.IsZero() {
		if _, err := tx.ExecContext(ctx, "UPDATE Revisions SET Date = ? WHERE RevisionID = ?", s.RevisionDate, revID); err != nil {
			return nil, false, err
		}
	}

	inID, err := db.getOrCreate(ctx, tx, db.insertInterpreter,
		"SELECT InterpreterID FROM Interpreters WHERE Name = ? AND COptions = ?", s.InterpreterName, s.InterpreterCOptions)
	if err != nil {
		return nil, false, fmt.Errorf("interpreter %q (%s): %v", s.InterpreterName, s.InterpreterCOptions, err)
	}

	res = &store.Result{
		Value:          s.Value,
		RevisionID:     revID,
		RevisionNumber: s.RevisionNumber,
		Project:        s.RevisionProject,
		InterpreterID:  inID,
		BenchmarkID:    benchID,
		EnvironmentID:  envID,
	}
	var stddev, min, max sql.NullFloat64
	err = tx.QueryRowContext(ctx,
		"SELECT ResultID, Date, StdDev, ValMin, ValMax FROM Results WHERE Value = ? AND RevisionID = ? AND InterpreterID = ? AND BenchmarkID = ? AND EnvironmentID = ? ORDER BY ResultID LIMIT 1",
		s.Value, revID, inID, benchID, envID).Scan(&res.ID, &res.Date, &stddev, &min, &max)
	switch {
	case err == nil:
		res.StdDev, res.Min, res.Max = nullFloat(stddev), nullFloat(min), nullFloat(max)
		return res, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, err
	}

	res.Date, res.StdDev, res.Min, res.Max = s.Date, s.StdDev, s.Min, s.Max
	r, err := tx.StmtContext(ctx, db.insertResult).ExecContext(ctx,
		s.Value, s.StdDev, s.Min, s.Max, s.Date, revID, inID, benchID, envID)
	if err != nil {
		return nil, false, err
	}
	if res.ID, err = r.LastInsertId(); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// getOrCreate looks up a row ID with query and args, inserting a new
// row with insert and the same args if none matches.
func (db *DB) getOrCreate(ctx context.Context, tx *sql.Tx, insert *sql.Stmt, query string, args ...interface{}) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.StmtContext(ctx, insert).ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// updateBenchmark records the optional benchmark metadata carried by s.
func updateBenchmark(ctx context.Context, tx *sql.Tx, id int64, s *store.Submission) error {
	for _, f := range []struct {
		col   string
		set   bool
		value interface{}
	}{
		{"Type", s.BenchmarkType != nil, s.BenchmarkType},
		{"Units", s.Units != nil, s.Units},
		{"LessIsBetter", s.LessIsBetter != nil, s.LessIsBetter},
	} {
		if !f.set {
			continue
		}
		if _, err := tx.ExecContext(ctx, "UPDATE Benchmarks SET "+f.col+" = ? WHERE BenchmarkID = ?", f.value, id); err != nil {
			return fmt.Errorf("benchmark %q: %v", s.BenchmarkName, err)
		}
	}
	return nil
}
