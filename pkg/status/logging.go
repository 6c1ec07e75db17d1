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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	actionWidth  = 12 // Width for action text
	rateWidth    = 12 // Width for rate text
	renamedArrow = "→"
)

// 📦 FileAction is what happened to a single file
type FileAction int

const (
	ActionCopied     FileAction = iota // copied, source kept
	ActionMoved                        // renamed or copied then source removed
	ActionSourceKept                   // copied but the source could not be removed
	ActionFailed                       // nothing usable landed in the destination
)

// String returns a string representation of FileAction
func (a FileAction) String() string {
	switch a {
	case ActionCopied:
		return "copied"
	case ActionMoved:
		return "moved"
	case ActionSourceKept:
		return "source kept"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🎯 FormatFileOperation formats a file result for display. destName is shown
// only when it differs from name, which happens after conflict resolution.
func FormatFileOperation(name, destName string, action FileAction, rate string) string {
	var prefix string
	switch action {
	case ActionCopied:
		prefix = color.GreenString("✓")
	case ActionMoved:
		prefix = color.CyanString("➜")
	case ActionSourceKept:
		prefix = color.YellowString("⟳")
	case ActionFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	label := name
	if destName != "" && destName != name {
		label = fmt.Sprintf("%s %s %s", name, renamedArrow, destName)
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, label)
	actionPart := fmt.Sprintf("%-*s", actionWidth, action)
	ratePart := fmt.Sprintf("%-*s", rateWidth, rate)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		actionPart,
		ratePart,
	)
}
