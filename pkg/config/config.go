// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/cardimport/pkg/fsutil"
	"github.com/walteh/cardimport/pkg/layout"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultRoot        = "/Users/mac/Pictures/工作"
	DefaultPhotoSource = "/Volumes/Untitled/DCIM/100SIGMA"
	DefaultVRSource    = "/Volumes/Osmo360/DCIM/CAM_001"
)

// 🔎 SearchNames are the file names FindConfig looks for, in order
var SearchNames = []string{
	".cardimport.yaml",
	".cardimport.yml",
	".cardimport.json",
	".cardimport.hcl",
}

// 💾 Sources are the mounted card folders
type Sources struct {
	Photo string `json:"photo" yaml:"photo" hcl:"photo,optional"`
	VR    string `json:"vr" yaml:"vr" hcl:"vr,optional"`
}

// 🏷️ NamingArgs overrides parts of the day-folder names
type NamingArgs struct {
	PhotoRoot    string `json:"photo_root,omitempty" yaml:"photo_root,omitempty" hcl:"photo_root,optional"`
	VRRoot       string `json:"vr_root,omitempty" yaml:"vr_root,omitempty" hcl:"vr_root,optional"`
	MonthSuffix  string `json:"month_suffix,omitempty" yaml:"month_suffix,omitempty" hcl:"month_suffix,optional"`
	CreateSuffix string `json:"create_suffix,omitempty" yaml:"create_suffix,omitempty" hcl:"create_suffix,optional"`
	ImportSuffix string `json:"import_suffix,omitempty" yaml:"import_suffix,omitempty" hcl:"import_suffix,optional"`
}

// 🔧 ImportArgs tunes the import run
type ImportArgs struct {
	ConflictAttempts        int      `json:"conflict_attempts,omitempty" yaml:"conflict_attempts,omitempty" hcl:"conflict_attempts,optional"`
	SuppressErrorsInSummary *bool    `json:"suppress_errors_in_summary,omitempty" yaml:"suppress_errors_in_summary,omitempty" hcl:"suppress_errors_in_summary,optional"`
	IgnorePatterns          []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Lock                    *bool    `json:"lock,omitempty" yaml:"lock,omitempty" hcl:"lock,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root    string      `json:"root" yaml:"root" hcl:"root,optional"`
	Sources *Sources    `json:"sources" yaml:"sources" hcl:"sources,block"`
	Naming  *NamingArgs `json:"naming,omitempty" yaml:"naming,omitempty" hcl:"naming,block"`
	Import  *ImportArgs `json:"import,omitempty" yaml:"import,omitempty" hcl:"import,block"`

	location string
}

func ptr[T any](v T) *T { return &v }

// 🏠 Default returns the configuration used when no file is present
func Default() *Config {
	def := layout.DefaultNaming()
	return &Config{
		Root: DefaultRoot,
		Sources: &Sources{
			Photo: DefaultPhotoSource,
			VR:    DefaultVRSource,
		},
		Naming: &NamingArgs{
			PhotoRoot:    def.PhotoRoot,
			VRRoot:       def.VRRoot,
			MonthSuffix:  def.MonthSuffix,
			CreateSuffix: def.CreateSuffix,
			ImportSuffix: def.ImportSuffix,
		},
		Import: &ImportArgs{
			ConflictAttempts:        fsutil.DefaultConflictAttempts,
			SuppressErrorsInSummary: ptr(true),
			Lock:                    ptr(true),
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 FindConfig returns the first config file in dir, or "" when there is none
func FindConfig(dir string) string {
	for _, name := range SearchNames {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// 📂 LoadOrDefault loads path, or the first config found in dir when path is
// empty. With nothing to load it falls back to Default.
func LoadOrDefault(ctx context.Context, path, dir string) (*Config, error) {
	if path == "" {
		path = FindConfig(dir)
	}
	if path == "" {
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// ✅ Validate checks required fields, cleans paths and fills defaults
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	if cfg.Sources == nil {
		return errors.Errorf("sources is required")
	}
	if cfg.Sources.Photo == "" {
		return errors.Errorf("sources.photo is required")
	}
	if cfg.Sources.VR == "" {
		return errors.Errorf("sources.vr is required")
	}

	cfg.Root = filepath.Clean(cfg.Root)
	cfg.Sources.Photo = filepath.Clean(cfg.Sources.Photo)
	cfg.Sources.VR = filepath.Clean(cfg.Sources.VR)

	def := Default()
	if cfg.Naming == nil {
		cfg.Naming = &NamingArgs{}
	}
	n := cfg.LayoutNaming()
	cfg.Naming.PhotoRoot = n.PhotoRoot
	cfg.Naming.VRRoot = n.VRRoot
	cfg.Naming.MonthSuffix = n.MonthSuffix
	cfg.Naming.CreateSuffix = n.CreateSuffix
	cfg.Naming.ImportSuffix = n.ImportSuffix

	if cfg.Import == nil {
		cfg.Import = &ImportArgs{}
	}
	if cfg.Import.ConflictAttempts < 0 {
		return errors.Errorf("import.conflict_attempts must not be negative, got %d", cfg.Import.ConflictAttempts)
	}
	if cfg.Import.ConflictAttempts == 0 {
		cfg.Import.ConflictAttempts = def.Import.ConflictAttempts
	}
	if cfg.Import.SuppressErrorsInSummary == nil {
		cfg.Import.SuppressErrorsInSummary = def.Import.SuppressErrorsInSummary
	}
	if cfg.Import.Lock == nil {
		cfg.Import.Lock = def.Import.Lock
	}
	for _, pattern := range cfg.Import.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("import.ignore_patterns: invalid pattern %q", pattern)
		}
	}

	return nil
}

// Location is the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// LayoutNaming converts the naming overrides, filling gaps with the defaults
func (cfg *Config) LayoutNaming() layout.Naming {
	if cfg.Naming == nil {
		return layout.DefaultNaming()
	}
	return layout.Naming{
		PhotoRoot:    cfg.Naming.PhotoRoot,
		VRRoot:       cfg.Naming.VRRoot,
		MonthSuffix:  cfg.Naming.MonthSuffix,
		CreateSuffix: cfg.Naming.CreateSuffix,
		ImportSuffix: cfg.Naming.ImportSuffix,
	}.WithDefaults()
}

// SuppressErrors reports whether the final summary hides per-task errors
func (cfg *Config) SuppressErrors() bool {
	if cfg.Import == nil || cfg.Import.SuppressErrorsInSummary == nil {
		return true
	}
	return *cfg.Import.SuppressErrorsInSummary
}

// LockEnabled reports whether imports take the run lock
func (cfg *Config) LockEnabled() bool {
	if cfg.Import == nil || cfg.Import.Lock == nil {
		return true
	}
	return *cfg.Import.Lock
}

// ConflictAttempts returns the rename probe budget
func (cfg *Config) ConflictAttempts() int {
	if cfg.Import == nil || cfg.Import.ConflictAttempts == 0 {
		return fsutil.DefaultConflictAttempts
	}
	return cfg.Import.ConflictAttempts
}

// IgnorePatterns returns the configured skip globs
func (cfg *Config) IgnorePatterns() []string {
	if cfg.Import == nil {
		return nil
	}
	return cfg.Import.IgnorePatterns
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	photo, vr := "", ""
	if cfg.Sources != nil {
		photo, vr = cfg.Sources.Photo, cfg.Sources.VR
	}
	return fmt.Sprintf("photo %s + vr %s -> %s", photo, vr, cfg.Root)
}
