// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import "fmt"

// CloudSQL names a MySQL database on a Cloud SQL instance. Connecting
// to it requires the cloudsql dialer, which is registered by importing
// github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql.
type CloudSQL struct {
	// Instance is the connection name, "project:region:instance".
	Instance string
	User     string
	Password string // may be empty
	// Database is the database to use, or "" for the server itself.
	Database string
}

// DSN returns the mysql data source name for c.
func (c CloudSQL) DSN() string {
	dsn := fmt.Sprintf("%s:%s@cloudsql(%s)/", c.User, c.Password, c.Instance)
	if c.Database != "" {
		dsn += c.Database + "?parseTime=true"
	}
	return dsn
}

// OpenCloudSQL opens the database named by c with the mysql driver.
func OpenCloudSQL(c CloudSQL) (*DB, error) {
	if c.Database == "" {
		return nil, fmt.Errorf("cloudsql %s: no database named", c.Instance)
	}
	return OpenSQL("mysql", c.DSN())
}
