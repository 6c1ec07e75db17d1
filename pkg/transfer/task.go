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

// Package transfer migrates the files of one source directory into one
// destination directory.
package transfer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/cardimport/pkg/fsutil"
	"github.com/walteh/cardimport/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// hiddenPrefix marks entries that are never imported
const hiddenPrefix = "."

// 🚚 Task runs one migration. A Task is single-use.
type Task struct {
	cfg Config
	cb  Callbacks

	logger         zerolog.Logger
	result         *Result
	permReported   bool
	freeSpaceCheck func(path string) (uint64, error)
	sameDevice     func(src, dst string) bool
	move           func(src, dst string) error
	copyFile       func(src, dst string, preserve bool) (int64, error)
}

// 🏭 New creates a task for cfg
func New(cfg Config, cb Callbacks) *Task {
	if cfg.Label == "" {
		cfg.Label = cfg.Kind.String()
	}
	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.DestDir = filepath.Clean(cfg.DestDir)
	return &Task{
		cfg:            cfg,
		cb:             cb,
		freeSpaceCheck: fsutil.FreeSpace,
		sameDevice:     fsutil.SameDevice,
		move:           fsutil.Move,
		copyFile:       fsutil.CopyFile,
	}
}

// 🏃 Run executes the migration and returns its result. Individual file
// failures never stop the run; only the availability, permission and
// enumeration checks end it early. A panic is recorded as a fatal issue.
func (t *Task) Run(ctx context.Context) (res *Result) {
	started := time.Now()
	t.logger = zerolog.Ctx(ctx).With().
		Str("kind", t.cfg.Kind.String()).
		Str("label", t.cfg.Label).
		Logger()
	t.result = &Result{
		Kind:   t.cfg.Kind,
		Label:  t.cfg.Label,
		Source: t.cfg.SourceDir,
		Dest:   t.cfg.DestDir,
	}
	res = t.result

	defer func() {
		if r := recover(); r != nil {
			t.fatal("run", errors.Errorf("panic: %v", r))
		}
		res.Duration = time.Since(started)
	}()

	files, ok := t.prepare()
	if !ok {
		return res
	}

	t.migrate(files)

	t.logf("✅ %s: imported %d of %d files", t.cfg.Label, res.MovedCount, res.Total)
	t.setStatus(status.StatusDone)
	return res
}

// 🔍 prepare runs the early-exit checks and returns the enumeration snapshot
func (t *Task) prepare() ([]string, bool) {
	src, dst := t.cfg.SourceDir, t.cfg.DestDir

	if _, err := os.Stat(src); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			t.record(IssueSourceUnavailable, "read", "", err, false)
			t.logf("⚠️ %s: source directory not found (card not inserted?)", t.cfg.Label)
			t.logger.Info().Str("source", src).Msg("source not found, skipping")
			t.setStatus(status.StatusSourceNotFound)
		case fsutil.IsPermission(err):
			t.record(IssuePermissionDenied, "read", "", err, true)
			t.logf("❌ %s: source directory is not readable: %s", t.cfg.Label, src)
			t.setStatus(status.StatusNoReadPermission)
		default:
			t.fatal("stat", errors.Errorf("checking source directory: %w", err))
			t.setStatus(status.StatusFailed)
		}
		return nil, false
	}

	if err := fsutil.ProbeWritable(dst); err != nil {
		kind := IssuePerFileIO
		reason := "I/O error"
		if fsutil.IsPermission(err) {
			kind = IssuePermissionDenied
			reason = "permission denied"
		}
		t.result.Issues = append(t.result.Issues, &Issue{Kind: kind, Op: "write", Err: err})
		t.result.Errors = append(t.result.Errors, fmt.Sprintf("write probe failed (%s): %v", reason, err))
		t.logf("❌ destination directory cannot be written: %s", dst)
		t.logger.Error().Err(err).Str("dest", dst).Str("reason", reason).Msg("write probe failed")
		t.setStatus(status.StatusNoWritePermission)
		return nil, false
	}

	if err := fsutil.CheckReadable(src); err != nil {
		t.record(IssuePermissionDenied, "read", "", err, true)
		t.logf("❌ source directory is not readable: %s", src)
		t.setStatus(status.StatusNoReadPermission)
		return nil, false
	}

	files, totalBytes, err := t.enumerate()
	if err != nil {
		t.fatal("list", err)
		t.setStatus(status.StatusFailed)
		return nil, false
	}
	if len(files) == 0 {
		t.logf("ℹ️ %s: source directory is empty", t.cfg.Label)
		t.setStatus(status.StatusNoFiles)
		return nil, false
	}

	t.result.Total = len(files)
	t.result.SameDevice = t.sameDevice(src, dst)
	t.logger.Debug().
		Int("files", len(files)).
		Str("size", humanize.IBytes(totalBytes)).
		Bool("same_device", t.result.SameDevice).
		Msg("enumerated source")

	if t.needsCopy() {
		t.checkFreeSpace(totalBytes)
	}

	t.logf("🚀 starting import of %s (%d files, %s)", t.cfg.Label, len(files), humanize.IBytes(totalBytes))
	t.start(len(files))
	t.setStatus(status.StatusRunning)
	return files, true
}

// 📋 enumerate lists the regular, non-hidden, non-ignored source entries in
// name order along with their combined size
func (t *Task) enumerate() ([]string, uint64, error) {
	entries, err := os.ReadDir(t.cfg.SourceDir)
	if err != nil {
		return nil, 0, errors.Errorf("listing source directory: %w", err)
	}

	var files []string
	var totalBytes uint64
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, hiddenPrefix) {
			continue
		}
		if !entry.Type().IsRegular() {
			t.logger.Debug().Str("entry", name).Msg("skipping non-regular entry")
			continue
		}
		if t.isIgnored(name) {
			continue
		}
		if info, err := entry.Info(); err == nil {
			totalBytes += uint64(info.Size())
		}
		files = append(files, name)
	}
	return files, totalBytes, nil
}

// 🔍 isIgnored checks name against the configured ignore globs
func (t *Task) isIgnored(name string) bool {
	for _, pattern := range t.cfg.IgnorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			t.logger.Debug().Str("pattern", pattern).Str("file", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			t.logger.Debug().Str("file", name).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}

func (t *Task) needsCopy() bool {
	return t.cfg.Kind == KindPhoto || !t.result.SameDevice
}

// checkFreeSpace only warns; the copy itself reports the real failure
func (t *Task) checkFreeSpace(need uint64) {
	free, err := t.freeSpaceCheck(t.cfg.DestDir)
	if err != nil {
		t.logger.Debug().Err(err).Msg("free space unavailable")
		return
	}
	if free < need {
		t.logf("⚠️ %s: destination has %s free but %s is needed", t.cfg.Label, humanize.IBytes(free), humanize.IBytes(need))
		t.logger.Warn().
			Str("free", humanize.IBytes(free)).
			Str("needed", humanize.IBytes(need)).
			Msg("destination may run out of space")
	}
}

// 🔄 migrate attempts every file in order
func (t *Task) migrate(files []string) {
	total := len(files)
	for idx, name := range files {
		ev := t.transferFile(name)
		if ev.Err != nil {
			t.fail(&ev)
		}
		t.file(ev)
		t.progress(ProgressEvent{
			CurrentIndex:    idx + 1,
			TotalCount:      total,
			TransferRateMBs: ev.rate,
		})
	}
}

// 📄 transferFile moves or copies one file according to the kind policy
func (t *Task) transferFile(name string) (ev fileOutcome) {
	src := filepath.Join(t.cfg.SourceDir, name)
	dst, ok := fsutil.ResolveConflict(t.cfg.DestDir, name, t.cfg.ConflictAttempts)
	ev.Name = name
	ev.DestPath = dst
	if !ok {
		t.record(IssueFileConflict, "copy", name, errors.Errorf("no free name for %s, overwriting", dst), true)
	}

	if t.cfg.Kind == KindPhoto {
		t.copyTimed(src, &ev)
		if ev.Err == nil {
			ev.Action = status.ActionCopied
			t.result.MovedCount++
		}
		return ev
	}

	if t.result.SameDevice {
		err := t.move(src, dst)
		if err == nil {
			ev.Action = status.ActionMoved
			t.result.MovedCount++
			return ev
		}
		if !fsutil.IsCrossDevice(err) {
			ev.Err = err
			ev.Op = "move"
			return ev
		}
		t.logger.Debug().Str("file", name).Msg("rename crossed devices, copying instead")
	}

	t.copyTimed(src, &ev)
	if ev.Err != nil {
		return ev
	}
	t.result.MovedCount++
	ev.Action = status.ActionMoved

	if err := os.Remove(src); err != nil {
		t.result.DeleteFailCount++
		ev.Action = status.ActionSourceKept
		t.result.Issues = append(t.result.Issues, &Issue{Kind: IssuePartialTransfer, Op: "remove", File: name, Err: err})
		t.result.Errors = append(t.result.Errors, fmt.Sprintf("%s: %s copied but original not removed", t.cfg.Label, name))
		t.logger.Warn().Err(err).Str("file", name).Msg("copied but original not removed")
	}
	return ev
}

// copyTimed copies with metadata, falling back once to a plain copy, and
// records the rate. The copy lands atomically, so a failure leaves the
// destination as it was.
func (t *Task) copyTimed(src string, ev *fileOutcome) {
	started := time.Now()
	n, err := t.copyFile(src, ev.DestPath, true)
	if err != nil {
		t.logger.Debug().Err(err).Str("file", ev.Name).Msg("copy with metadata failed, retrying without")
		var plainErr error
		n, plainErr = t.copyFile(src, ev.DestPath, false)
		if plainErr != nil {
			ev.Err = plainErr
			ev.Op = "copy"
			return
		}
	}
	elapsed := time.Since(started)

	ev.Bytes = n
	ev.rate = mbPerSecond(n, elapsed)
	ev.Rate = status.FormatRate(ev.rate)
	t.result.BytesCopied += n
}

// 🚨 fail records a per-file failure. Permission failures are reported once.
func (t *Task) fail(ev *fileOutcome) {
	name := ev.Name
	t.result.HardFailCount++
	ev.Action = status.ActionFailed
	ev.Rate = ""
	ev.rate = 0

	if fsutil.IsPermission(ev.Err) {
		t.result.Issues = append(t.result.Issues, &Issue{Kind: IssuePermissionDenied, Op: ev.Op, File: name, Err: ev.Err})
		t.logger.Warn().Err(ev.Err).Str("file", name).Msg("permission denied")
		if t.permReported {
			return
		}
		t.permReported = true
		t.result.Errors = append(t.result.Errors, fmt.Sprintf(
			"permission denied: cannot read or write files, check disk access permissions\nsource: %s\ndestination: %s",
			filepath.Join(t.cfg.SourceDir, name), ev.DestPath))
		t.setStatus(status.StatusPermissionDenied)
		return
	}

	t.result.Issues = append(t.result.Issues, &Issue{Kind: IssuePerFileIO, Op: ev.Op, File: name, Err: ev.Err})
	t.result.Errors = append(t.result.Errors, fmt.Sprintf("%s: failed to import %s: %v", t.cfg.Kind, name, ev.Err))
	t.logger.Error().Err(ev.Err).Str("file", name).Str("op", ev.Op).Msg("file import failed")
}

// 💥 fatal records an unexpected failure outside the file loop
func (t *Task) fatal(op string, err error) {
	t.result.Fatal = err
	t.result.Issues = append(t.result.Issues, &Issue{Kind: IssueTaskFatal, Op: op, Err: err})
	t.result.Errors = append(t.result.Errors, fmt.Sprintf("%s: task failed: %v", t.cfg.Label, err))
	t.result.Status = status.StatusFailed
	t.logger.Error().Err(err).Str("op", op).Msg("transfer aborted")
}

// record appends an issue and, when asError is set, its rendered form
func (t *Task) record(kind IssueKind, op, file string, err error, asError bool) {
	issue := &Issue{Kind: kind, Op: op, File: file, Err: err}
	t.result.Issues = append(t.result.Issues, issue)
	if asError {
		t.result.Errors = append(t.result.Errors, fmt.Sprintf("%s: %v", t.cfg.Label, issue))
	}
}

func (t *Task) logf(format string, args ...any) {
	t.result.Logs = append(t.result.Logs, fmt.Sprintf(format, args...))
}

func (t *Task) setStatus(s status.Status) {
	t.result.Status = s
	if t.cb.OnStatusChange != nil {
		t.cb.OnStatusChange(s)
	}
}

func (t *Task) start(total int) {
	if t.cb.OnStart != nil {
		t.cb.OnStart(total)
	}
}

func (t *Task) progress(ev ProgressEvent) {
	if t.cb.OnProgress != nil {
		t.cb.OnProgress(ev)
	}
}

func (t *Task) file(ev fileOutcome) {
	if ev.Err == nil {
		t.logger.Debug().
			Str("file", ev.Name).
			Str("dest", ev.DestPath).
			Str("action", ev.Action.String()).
			Str("size", humanize.IBytes(uint64(ev.Bytes))).
			Msg("file imported")
	}
	if t.cb.OnFile != nil {
		t.cb.OnFile(ev.FileEvent)
	}
}

// fileOutcome carries per-file bookkeeping that never leaves the task
type fileOutcome struct {
	FileEvent
	Op   string
	rate float64
}

func mbPerSecond(n int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / (1024 * 1024) / elapsed.Seconds()
}
