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

package importer

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// ErrImportInProgress is returned when another run holds the lock
var ErrImportInProgress = errors.Base("another import is already running")

// 🔒 runLock keeps two imports from racing on the same cards
type runLock struct {
	flock *flock.Flock
}

func acquireLock(path string) (*runLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring import lock: %w", err)
	}
	if !locked {
		return nil, errors.WithStack(ErrImportInProgress)
	}
	return &runLock{flock: fl}, nil
}

func (l *runLock) release() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return errors.Errorf("releasing import lock: %w", err)
	}
	return os.Remove(l.flock.Path())
}
