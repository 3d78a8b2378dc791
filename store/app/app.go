// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the result submission server. Combine an
// App with a database to get an HTTP server.
package app

import (
	"net/http"

	"golang.org/x/speedcenter/store/db"
)

// App manages the submission server logic. Construct an App instance
// using a literal with a DB and call RegisterOnMux to connect it with
// an HTTP server.
type App struct {
	DB *db.DB
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/result/add", a.addResult)
}
