// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/speedcenter/analysis"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "speedcenter.yaml", `
project: pypy
default_environment: tannit
default_interpreters: [1, 3]
baselines:
  - interpreter: 2
    revision: 100
  - {interpreter: 4, revision: 7}
default_baseline: {interpreter: 4, revision: 7}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := analysis.Config{
		Project:             "pypy",
		DefaultEnvironment:  "tannit",
		DefaultInterpreters: []int64{1, 3},
		Baselines:           []analysis.BaselineRef{{Interpreter: 2, Revision: 100}, {Interpreter: 4, Revision: 7}},
		DefaultBaseline:     &analysis.BaselineRef{Interpreter: 4, Revision: 7},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "speedcenter.json", `{"project": "cpython", "baselines": [], "default_baseline": {"interpreter": 1}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project != "cpython" {
		t.Errorf("Project = %q, want cpython", cfg.Project)
	}
	if cfg.Baselines == nil || len(cfg.Baselines) != 0 {
		t.Errorf("Baselines = %#v, want empty non-nil list", cfg.Baselines)
	}
	if cfg.DefaultInterpreters != nil {
		t.Errorf("DefaultInterpreters = %v, want nil", cfg.DefaultInterpreters)
	}
	if cfg.DefaultBaseline != nil {
		t.Errorf("DefaultBaseline = %+v, want nil without a revision", cfg.DefaultBaseline)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeFile(t, "speedcenter.ini", "project = pypy")); err == nil {
		t.Error("Load of .ini file succeeded, want error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "project: [unclosed")); err == nil {
		t.Error("Load of malformed file succeeded, want error")
	}
}
