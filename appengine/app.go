// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appengine serves the speed center on App Engine, backed by
// Cloud SQL.
//
// The app is configured by environment variables set in app.yaml:
// CLOUDSQL_CONNECTION_NAME, CLOUDSQL_USER and CLOUDSQL_DATABASE name
// the database, CLOUDSQL_PASSWORD is used if set, and
// SPEEDCENTER_CONFIG names the site settings file.
package appengine

import (
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/speedcenter/analysis"
	aapp "golang.org/x/speedcenter/analysis/app"
	"golang.org/x/speedcenter/config"
	sapp "golang.org/x/speedcenter/store/app"
	"golang.org/x/speedcenter/store/db"
	"google.golang.org/appengine"
	aelog "google.golang.org/appengine/log"
)

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}

// A server answers every request with a fresh database connection.
type server struct {
	database db.CloudSQL
	site     analysis.Config
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := appengine.NewContext(r)
	d, err := db.OpenCloudSQL(s.database)
	if err != nil {
		aelog.Errorf(ctx, "open %s: %v", s.database.Database, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer d.Close()

	mux := http.NewServeMux()
	(&sapp.App{DB: d}).RegisterOnMux(mux)
	(&aapp.App{Engine: &analysis.Engine{Store: d, Config: s.site}}).RegisterOnMux(mux)
	mux.ServeHTTP(w, r)
}

func init() {
	site, err := config.Load(mustGetenv("SPEEDCENTER_CONFIG"))
	if err != nil {
		log.Panicf("load config: %v", err)
	}
	http.Handle("/", &server{
		database: db.CloudSQL{
			Instance: mustGetenv("CLOUDSQL_CONNECTION_NAME"),
			User:     mustGetenv("CLOUDSQL_USER"),
			Password: os.Getenv("CLOUDSQL_PASSWORD"),
			Database: mustGetenv("CLOUDSQL_DATABASE"),
		},
		site: site,
	})
}
