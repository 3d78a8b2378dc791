// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides fresh databases for tests of packages
// that use x/speedcenter/store/db.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"golang.org/x/speedcenter/store/db"
	_ "golang.org/x/speedcenter/store/db/sqlite3"
)

var cloud = flag.Bool("cloud", false, "connect to Cloud SQL database instead of in-memory SQLite")
var cloudsql = flag.String("cloudsql", "golang-org:us-central1:golang-org", "name of Cloud SQL instance to run tests on")

// scratchDatabase creates a database with a random name on the Cloud
// SQL instance and drops it when the test is over.
func scratchDatabase(t *testing.T) db.CloudSQL {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	c := db.CloudSQL{Instance: *cloudsql, User: "root"}
	server, err := sql.Open("mysql", c.DSN())
	if err != nil {
		t.Fatal(err)
	}
	c.Database = "speedcenter-test-" + base64.RawURLEncoding.EncodeToString(buf)
	if _, err := server.Exec(fmt.Sprintf("CREATE DATABASE `%s`", c.Database)); err != nil {
		server.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", c.Database)

	t.Cleanup(func() {
		if _, err := server.Exec(fmt.Sprintf("DROP DATABASE `%s`", c.Database)); err != nil {
			t.Error(err)
		}
		server.Close()
	})
	return c
}

// NewDB opens an empty testing database: in-memory SQLite, or a
// scratch Cloud SQL database if the -cloud flag is set. cleanup must
// be called when done with the database instead of db.Close. A Cloud
// SQL database is dropped after the test and its cleanups finish.
func NewDB(t *testing.T) (d *db.DB, cleanup func()) {
	var err error
	if *cloud {
		d, err = db.OpenCloudSQL(scratchDatabase(t))
	} else {
		d, err = db.OpenSQL("sqlite3", ":memory:")
	}
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	cleanup = func() { d.Close() }

	if n, err := d.CountResults(context.Background()); err != nil {
		cleanup()
		t.Fatal(err)
	} else if n != 0 {
		cleanup()
		t.Fatalf("found %d row(s) in Results, want 0", n)
	}
	return d, cleanup
}
