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

// Package importer runs the photo and VR card imports side by side and
// folds their results into one summary.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/cardimport/pkg/layout"
	"github.com/walteh/cardimport/pkg/status"
	"github.com/walteh/cardimport/pkg/transfer"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPhotoLabel = "photo (Sigma)"
	DefaultVRLabel    = "VR (Osmo)"

	completeMessage = "all imports complete"
)

// 🔧 Options configures a Coordinator
type Options struct {
	BaseRoot    string
	PhotoSource string
	VRSource    string
	Naming      layout.Naming

	PhotoLabel string
	VRLabel    string

	IgnorePatterns   []string
	ConflictAttempts int

	// SuppressErrorsInSummary keeps per-task errors out of Summary.Errors and
	// Summary.Message. They are still logged and kept on the per-side results.
	SuppressErrorsInSummary bool

	// LockPath, when set, guards the run with an advisory file lock
	LockPath string

	// Callbacks returns the callbacks for one side. It is called on that
	// side's goroutine.
	Callbacks func(kind transfer.Kind) transfer.Callbacks

	// Now defaults to time.Now. New reads it once to fix the destinations.
	Now func() time.Time
}

// 📦 Summary is the merged outcome of one import run
type Summary struct {
	Dirs       layout.Dirs
	Photo      *transfer.Result
	VR         *transfer.Result
	TotalMoved int
	Message    string

	// Errors is empty when errors are suppressed
	Errors           []string
	ErrorsSuppressed bool
}

// Results returns both sides in photo, VR order
func (s *Summary) Results() []*transfer.Result {
	return []*transfer.Result{s.Photo, s.VR}
}

// 🎮 Coordinator runs imports
type Coordinator struct {
	opts Options
	dirs layout.Dirs
}

// 🏭 New creates a coordinator
func New(opts Options) *Coordinator {
	if opts.PhotoLabel == "" {
		opts.PhotoLabel = DefaultPhotoLabel
	}
	if opts.VRLabel == "" {
		opts.VRLabel = DefaultVRLabel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{
		opts: opts,
		dirs: layout.Resolve(opts.BaseRoot, layout.ModeImport, opts.Now(), opts.Naming),
	}
}

// Dirs returns the import destinations. They are fixed when the coordinator
// is built, so a run that crosses midnight lands in the folders shown
// before it started.
func (c *Coordinator) Dirs() layout.Dirs {
	return c.dirs
}

// 🏃 RunImport imports both cards concurrently into Dirs and waits for both.
// A failing or panicking side is reported in the summary, never returned.
// The only errors come from the run lock.
func (c *Coordinator) RunImport(ctx context.Context) (*Summary, error) {
	dirs := c.dirs
	logger := zerolog.Ctx(ctx)

	if c.opts.LockPath != "" {
		lock, err := acquireLock(c.opts.LockPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				logger.Warn().Err(err).Str("lock", c.opts.LockPath).Msg("releasing import lock")
			}
		}()
	}

	logger.Info().Str("photo_dest", dirs.Photo).Str("vr_dest", dirs.VR).Msg("starting import")

	photoCfg := transfer.Config{
		SourceDir:        c.opts.PhotoSource,
		DestDir:          dirs.Photo,
		Kind:             transfer.KindPhoto,
		Label:            c.opts.PhotoLabel,
		IgnorePatterns:   c.opts.IgnorePatterns,
		ConflictAttempts: c.opts.ConflictAttempts,
	}
	vrCfg := transfer.Config{
		SourceDir:        c.opts.VRSource,
		DestDir:          dirs.VR,
		Kind:             transfer.KindVR,
		Label:            c.opts.VRLabel,
		IgnorePatterns:   c.opts.IgnorePatterns,
		ConflictAttempts: c.opts.ConflictAttempts,
	}

	var photoRes, vrRes *transfer.Result
	var eg errgroup.Group
	eg.Go(func() error {
		photoRes = c.runTask(ctx, photoCfg)
		return nil
	})
	eg.Go(func() error {
		vrRes = c.runTask(ctx, vrCfg)
		return nil
	})
	_ = eg.Wait()

	return c.summarize(ctx, dirs, photoRes, vrRes), nil
}

// runTask shields the coordinator from a side that blows up
func (c *Coordinator) runTask(ctx context.Context, cfg transfer.Config) (res *transfer.Result) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			res = &transfer.Result{
				Kind:   cfg.Kind,
				Label:  cfg.Label,
				Source: cfg.SourceDir,
				Dest:   cfg.DestDir,
				Status: status.StatusFailed,
				Fatal:  err,
				Issues: []*transfer.Issue{{Kind: transfer.IssueTaskFatal, Op: "run", Err: err}},
				Errors: []string{fmt.Sprintf("%s: task failed: %v", cfg.Label, err)},
			}
		}
	}()

	var cb transfer.Callbacks
	if c.opts.Callbacks != nil {
		cb = c.opts.Callbacks(cfg.Kind)
	}
	return transfer.New(cfg, cb).Run(ctx)
}

// 📊 summarize merges both sides; errors are always logged, and only shown
// when the policy allows it
func (c *Coordinator) summarize(ctx context.Context, dirs layout.Dirs, photo, vr *transfer.Result) *Summary {
	logger := zerolog.Ctx(ctx)

	sum := &Summary{
		Dirs:             dirs,
		Photo:            photo,
		VR:               vr,
		ErrorsSuppressed: c.opts.SuppressErrorsInSummary,
	}

	var errs []string
	for _, res := range sum.Results() {
		sum.TotalMoved += res.MovedCount
		if res.HasErrors() {
			for _, msg := range res.Errors {
				logger.Warn().Str("label", res.Label).Msg(msg)
			}
			errs = append(errs, res.Errors...)
		}
		if res.Fatal != nil {
			logger.Error().Err(res.Fatal).Str("label", res.Label).Msg("import side failed")
		}

		logger.Info().
			Str("label", res.Label).
			Str("status", res.Status.String()).
			Int("moved", res.MovedCount).
			Int("failed", res.HardFailCount).
			Int("delete_failed", res.DeleteFailCount).
			Str("copied", humanize.IBytes(uint64(res.BytesCopied))).
			Dur("took", res.Duration).
			Msg("import side finished")
	}

	sum.Message = fmt.Sprintf("%s (%d files imported)", completeMessage, sum.TotalMoved)
	if !sum.ErrorsSuppressed {
		sum.Errors = errs
		if len(errs) > 0 {
			sum.Message = fmt.Sprintf("%s (%d files imported, %d errors)", completeMessage, sum.TotalMoved, len(errs))
		}
	}

	return sum
}
