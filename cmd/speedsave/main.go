// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Speedsave submits one benchmark result to a speed center server.
//
// Usage:
//
//	speedsave [-server url] -project name -revision number -interpreter name
//		-coptions options -benchmark name -environment name value
//
// The optional flags -units, -type, -lessisbetter, -revdate, -stddev,
// -min and -max describe the benchmark and the result further. The
// result date defaults to the current time.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

var (
	server = flag.String("server", "http://localhost:8080", "submit results to server at `url`")

	project     = flag.String("project", "", "`name` of the project the revision belongs to")
	revision    = flag.Int64("revision", 0, "revision `number` the result was measured at")
	revDate     = flag.String("revdate", "", "commit `date` of the revision")
	interpreter = flag.String("interpreter", "", "interpreter `name`")
	coptions    = flag.String("coptions", "", "interpreter compile `options`")
	benchmark   = flag.String("benchmark", "", "benchmark `name`")
	benchType   = flag.String("type", "", "benchmark `type`")
	units       = flag.String("units", "", "`units` of the result")
	lessBetter  = flag.String("lessisbetter", "", "whether smaller results are better (`bool`)")
	environment = flag.String("environment", "", "`name` of the environment the result was measured in")
	date        = flag.String("date", "", "result `date`; defaults to now")
	stdDev      = flag.String("stddev", "", "standard deviation of the result")
	minValue    = flag.String("min", "", "minimum of the runs")
	maxValue    = flag.String("max", "", "maximum of the runs")
	verbose     = flag.Bool("v", false, "print verbose log messages")
)

type addStatus struct {
	ResultID int64 `json:"resultid"`
	Created  bool  `json:"created"`
}

// submission returns the form for the result value.
func submission(value string) url.Values {
	f := url.Values{
		"revision_number":      {strconv.FormatInt(*revision, 10)},
		"revision_project":     {*project},
		"interpreter_name":     {*interpreter},
		"interpreter_coptions": {*coptions},
		"benchmark_name":       {*benchmark},
		"environment":          {*environment},
		"result_value":         {value},
		"result_date":          {*date},
	}
	if *date == "" {
		f.Set("result_date", time.Now().UTC().Format("2006-01-02 15:04:05"))
	}
	for key, v := range map[string]string{
		"revision_date":  *revDate,
		"benchmark_type": *benchType,
		"units":          *units,
		"lessisbetter":   *lessBetter,
		"std_dev":        *stdDev,
		"min":            *minValue,
		"max":            *maxValue,
	} {
		if v != "" {
			f.Set(key, v)
		}
	}
	return f
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of speedsave:
	speedsave [flags] value
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("speedsave: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}
	if _, err := strconv.ParseFloat(flag.Arg(0), 64); err != nil {
		log.Fatalf("invalid result value %q", flag.Arg(0))
	}

	resp, err := http.PostForm(*server+"/result/add", submission(flag.Arg(0)))
	if err != nil {
		log.Fatalf("submit failed: %v\n", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Printf("submit failed: %v\n", resp.Status)
		io.Copy(os.Stderr, resp.Body)
		os.Exit(1)
	}

	status := &addStatus{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		log.Fatalf("cannot parse submit response: %v\n", err)
	}
	if *verbose {
		if status.Created {
			log.Printf("result %d created", status.ResultID)
		} else {
			log.Printf("result %d already present", status.ResultID)
		}
	}
}
