// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the speed center site settings from a YAML
// or JSON file.
//
// A settings file looks like:
//
//	project: pypy
//	default_environment: tannit
//	default_interpreters: [1, 3]
//	baselines:
//	  - {interpreter: 2, revision: 100}
//	default_baseline: {interpreter: 2, revision: 100}
//
// Every key is optional.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/speedcenter/analysis"
)

// settings mirrors the file layout.
type settings struct {
	Project             string                 `koanf:"project"`
	Baselines           []analysis.BaselineRef `koanf:"baselines"`
	DefaultBaseline     analysis.BaselineRef   `koanf:"default_baseline"`
	DefaultEnvironment  string                 `koanf:"default_environment"`
	DefaultInterpreters []int64                `koanf:"default_interpreters"`
}

// Load reads the settings file at path. The format is chosen by the
// file extension: .yaml, .yml or .json.
func Load(path string) (analysis.Config, error) {
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return analysis.Config{}, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return analysis.Config{}, fmt.Errorf("config %s: %v", path, err)
	}
	return fromKoanf(k)
}

// fromKoanf converts loaded settings. Lists that are present in the
// file, even empty ones, stay non-nil so they take effect. A default
// baseline is only used if it names both an interpreter and a
// revision.
func fromKoanf(k *koanf.Koanf) (analysis.Config, error) {
	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return analysis.Config{}, err
	}
	cfg := analysis.Config{
		Project:            s.Project,
		DefaultEnvironment: s.DefaultEnvironment,
	}
	if k.Exists("baselines") {
		cfg.Baselines = s.Baselines
		if cfg.Baselines == nil {
			cfg.Baselines = []analysis.BaselineRef{}
		}
	}
	if k.Exists("default_interpreters") {
		cfg.DefaultInterpreters = s.DefaultInterpreters
		if cfg.DefaultInterpreters == nil {
			cfg.DefaultInterpreters = []int64{}
		}
	}
	if k.Exists("default_baseline.interpreter") && k.Exists("default_baseline.revision") {
		def := s.DefaultBaseline
		cfg.DefaultBaseline = &def
	}
	return cfg, nil
}
