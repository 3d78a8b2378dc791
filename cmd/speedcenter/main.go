// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Speedcenter runs a speed center server that accepts benchmark
// results and serves the overview and timeline data computed from them.
//
// Usage:
//
//	speedcenter [-addr address] [-config file] [-driver name -dsn source] [-environments list]
//
// Without -dsn the results are kept in an in-memory SQLite database
// and lost on exit.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/speedcenter/analysis"
	aapp "golang.org/x/speedcenter/analysis/app"
	"golang.org/x/speedcenter/config"
	sapp "golang.org/x/speedcenter/store/app"
	"golang.org/x/speedcenter/store/db"
	_ "golang.org/x/speedcenter/store/db/sqlite3"
)

var (
	addr         = flag.String("addr", ":8080", "serve HTTP on `address`")
	configFile   = flag.String("config", "", "read site settings from YAML or JSON `file`")
	project      = flag.String("project", "", "analyze revisions of `project`, overriding the config file")
	driver       = flag.String("driver", "sqlite3", "database `driver` (sqlite3 or mysql)")
	dsn          = flag.String("dsn", ":memory:", "database data source `name`")
	environments = flag.String("environments", "", "comma-separated `list` of environments to create")
)

func main() {
	log.SetPrefix("speedcenter: ")
	flag.Parse()

	var cfg analysis.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *project != "" {
		cfg.Project = *project
	}
	if cfg.Project == "" {
		log.Fatal("no project configured; use -project or a config file")
	}

	db, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	for _, name := range strings.Split(*environments, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		if _, err := db.AddEnvironment(context.Background(), name); err != nil {
			log.Fatalf("add environment %q: %v", name, err)
		}
	}

	submit := &sapp.App{DB: db}
	submit.RegisterOnMux(http.DefaultServeMux)
	view := &aapp.App{Engine: &analysis.Engine{Store: db, Config: cfg}}
	view.RegisterOnMux(http.DefaultServeMux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, nil))
}
