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

package transfer

import (
	"fmt"
	"time"

	"github.com/walteh/cardimport/pkg/status"
)

// 📷 Kind selects the move/copy/delete policy of a transfer
type Kind int

const (
	KindPhoto Kind = iota // always copied, source never touched
	KindVR                // moved; copy-then-delete across devices
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVR:
		return "vr"
	default:
		return "unknown"
	}
}

// 🔧 Config describes one source → destination migration
type Config struct {
	SourceDir string
	DestDir   string
	Kind      Kind
	Label     string

	// IgnorePatterns are doublestar globs matched against entry names;
	// matching entries are not enumerated.
	IgnorePatterns []string

	// ConflictAttempts caps the rename probe, <= 0 means the default
	ConflictAttempts int
}

// 📈 ProgressEvent is emitted once per attempted file
type ProgressEvent struct {
	CurrentIndex    int
	TotalCount      int
	TransferRateMBs float64
}

// Rate renders the transfer rate, e.g. "12.3 MB/s"
func (e ProgressEvent) Rate() string {
	return status.FormatRate(e.TransferRateMBs)
}

// 📄 FileEvent describes the outcome for a single file
type FileEvent struct {
	Name     string // entry name in the source
	DestPath string // where it landed, or was meant to
	Action   status.FileAction
	Bytes    int64
	Rate     string
	Err      error
}

// 📞 Callbacks are invoked synchronously on the goroutine running the task.
// Making them safe to call from several goroutines is the caller's job.
// Nil members are skipped.
type Callbacks struct {
	OnStart        func(total int)
	OnProgress     func(ev ProgressEvent)
	OnStatusChange func(s status.Status)
	OnFile         func(ev FileEvent)
}

// 🚨 IssueKind classifies everything a transfer can run into
type IssueKind int

const (
	IssueSourceUnavailable IssueKind = iota // source missing, expected when no card is inserted
	IssuePermissionDenied                   // read or write access denied
	IssueFileConflict                       // no free destination name, file may be overwritten
	IssuePartialTransfer                    // copied but the source could not be removed
	IssuePerFileIO                          // any other per-file failure
	IssueTaskFatal                          // unexpected failure outside the file loop
)

// String returns a string representation of IssueKind
func (k IssueKind) String() string {
	switch k {
	case IssueSourceUnavailable:
		return "source_unavailable"
	case IssuePermissionDenied:
		return "permission_denied"
	case IssueFileConflict:
		return "file_conflict"
	case IssuePartialTransfer:
		return "partial_transfer"
	case IssuePerFileIO:
		return "per_file_io"
	case IssueTaskFatal:
		return "task_fatal"
	default:
		return "unknown"
	}
}

// Issue is one classified problem recorded during a run
type Issue struct {
	Kind IssueKind
	Op   string // read, write, copy, move, remove, list
	File string // entry name, empty for directory-level issues
	Err  error
}

func (i *Issue) Error() string {
	msg := fmt.Sprintf("%s during %s", i.Kind, i.Op)
	if i.File != "" {
		msg += " of " + i.File
	}
	if i.Err != nil {
		msg += ": " + i.Err.Error()
	}
	return msg
}

func (i *Issue) Unwrap() error { return i.Err }

// 📦 Result is the terminal record of one run. It is owned by the task that
// produced it and is not modified after Run returns.
type Result struct {
	Kind   Kind
	Label  string
	Source string
	Dest   string

	Total           int // files enumerated at start
	MovedCount      int
	HardFailCount   int
	DeleteFailCount int
	BytesCopied     int64
	SameDevice      bool

	// Errors are the rendered errors and warnings, in order
	Errors []string
	// Logs are human-readable progress notes, in order
	Logs []string
	// Issues are the classified problems, in order
	Issues []*Issue

	Status   status.Status
	Fatal    error
	Duration time.Duration
}

// HasErrors reports whether anything was recorded in Errors
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// IssuesOf returns the recorded issues of the given kind
func (r *Result) IssuesOf(kind IssueKind) []*Issue {
	var out []*Issue
	for _, i := range r.Issues {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}
