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

package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// swapped in tests to simulate EXDEV
var renameFunc = os.Rename

// ProbeFileName is the marker written by ProbeWritable
const ProbeFileName = ".cardimport_probe"

// 📦 CopyFile copies src to dst. The content is written to a hidden
// temporary file next to dst and renamed over it, so dst is either the old
// file or the complete copy. With preserve set the permission bits and
// modification time are carried over as well. The number of bytes copied is
// returned.
func CopyFile(src, dst string, preserve bool) (n int64, err error) {
	source, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return 0, errors.Errorf("reading source metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, errors.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err = io.Copy(tmp, source)
	if err != nil {
		return n, errors.Errorf("copying file content: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return n, errors.Errorf("closing destination file: %w", err)
	}

	mode := os.FileMode(0o644)
	if preserve {
		mode = info.Mode().Perm()
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return n, errors.Errorf("setting mode: %w", err)
	}
	if preserve {
		if err = os.Chtimes(tmp.Name(), info.ModTime(), info.ModTime()); err != nil {
			return n, errors.Errorf("preserving modification time: %w", err)
		}
	}

	if err = os.Rename(tmp.Name(), dst); err != nil {
		return n, errors.Errorf("replacing destination file: %w", err)
	}
	return n, nil
}

// 🔀 Move renames src to dst. EXDEV comes back as *CrossDeviceError.
func Move(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return errors.Errorf("renaming file: %w", err)
	}
	return nil
}

// 📝 ProbeWritable creates dir if needed, then writes and removes a marker
// file inside it.
func ProbeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}

	marker := filepath.Join(dir, ProbeFileName)
	if err := os.WriteFile(marker, []byte("probe"), 0o644); err != nil {
		return errors.Errorf("writing probe file: %w", err)
	}
	if err := os.Remove(marker); err != nil {
		return errors.Errorf("removing probe file: %w", err)
	}
	return nil
}

// 🔍 CheckReadable verifies dir can be listed
func CheckReadable(dir string) error {
	if err := checkReadable(dir); err != nil {
		return errors.Errorf("checking read access: %w", err)
	}
	f, err := os.Open(dir)
	if err != nil {
		return errors.Errorf("opening directory: %w", err)
	}
	return f.Close()
}
