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

// Package layout maps a date onto the day-folder tree used by the survey workflow.
//
// Every day gets two folders, one under the photo year directory and one under
// the VR year directory:
//
//	<root>/<YYYY><photo_root>/<MM><month_suffix>/<MMDD><suffix>
//	<root>/<YYYY><vr_root>/<MM><month_suffix>/<MMDD>[<suffix>]
//
// In create mode the photo folder carries the create suffix and the VR folder
// carries none. In import mode both carry the import suffix.
package layout

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 🗂️ Mode selects which naming suffix the day-folders receive
type Mode int

const (
	ModeCreate Mode = iota // folders for a new batch of surveys
	ModeImport             // folders receiving raw card imports
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeImport:
		return "import"
	default:
		return "unknown"
	}
}

// 🔍 ParseMode parses a mode name as used on the command line
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create", "":
		return ModeCreate, nil
	case "import":
		return ModeImport, nil
	default:
		return 0, errors.Errorf("unknown mode %q (want create or import)", s)
	}
}

// 🏷️ Naming holds the pieces the folder names are built from
type Naming struct {
	PhotoRoot    string `json:"photo_root" yaml:"photo_root"`
	VRRoot       string `json:"vr_root" yaml:"vr_root"`
	MonthSuffix  string `json:"month_suffix" yaml:"month_suffix"`
	CreateSuffix string `json:"create_suffix" yaml:"create_suffix"`
	ImportSuffix string `json:"import_suffix" yaml:"import_suffix"`
}

// DefaultNaming returns the folder naming the studio has always used
func DefaultNaming() Naming {
	return Naming{
		PhotoRoot:    "相片",
		VRRoot:       "VR",
		MonthSuffix:  "月",
		CreateSuffix: "贺志",
		ImportSuffix: "原片",
	}
}

// WithDefaults fills empty fields from DefaultNaming
func (n Naming) WithDefaults() Naming {
	def := DefaultNaming()
	if n.PhotoRoot == "" {
		n.PhotoRoot = def.PhotoRoot
	}
	if n.VRRoot == "" {
		n.VRRoot = def.VRRoot
	}
	if n.MonthSuffix == "" {
		n.MonthSuffix = def.MonthSuffix
	}
	if n.CreateSuffix == "" {
		n.CreateSuffix = def.CreateSuffix
	}
	if n.ImportSuffix == "" {
		n.ImportSuffix = def.ImportSuffix
	}
	return n
}

// 📁 Dirs is the pair of day-folders for one date
type Dirs struct {
	Photo string
	VR    string
}

// Slice returns the folders in photo, VR order
func (d Dirs) Slice() []string {
	return []string{d.Photo, d.VR}
}

// 🎯 Resolve computes the day-folders for the date of now under baseRoot.
// Empty naming fields fall back to DefaultNaming.
func Resolve(baseRoot string, mode Mode, now time.Time, naming Naming) Dirs {
	naming = naming.WithDefaults()

	year := fmt.Sprintf("%04d", now.Year())
	month := fmt.Sprintf("%02d%s", int(now.Month()), naming.MonthSuffix)
	day := fmt.Sprintf("%02d%02d", int(now.Month()), now.Day())

	photoDay, vrDay := day+naming.CreateSuffix, day
	if mode == ModeImport {
		photoDay = day + naming.ImportSuffix
		vrDay = day + naming.ImportSuffix
	}

	return Dirs{
		Photo: filepath.Join(baseRoot, year+naming.PhotoRoot, month, photoDay),
		VR:    filepath.Join(baseRoot, year+naming.VRRoot, month, vrDay),
	}
}
