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
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	require.NoError(t, os.WriteFile(src, []byte("raw image bytes"), 0o600))
	mtime := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	t.Run("preserve", func(t *testing.T) {
		dst := filepath.Join(dir, "preserved.jpg")
		n, err := CopyFile(src, dst, true)
		require.NoError(t, err)
		assert.Equal(t, int64(len("raw image bytes")), n)

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(mtime), "mtime carried over")
		assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("degraded", func(t *testing.T) {
		dst := filepath.Join(dir, "plain.jpg")
		_, err := CopyFile(src, dst, false)
		require.NoError(t, err)

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "raw image bytes", string(content))

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.False(t, info.ModTime().Equal(mtime))
	})

	t.Run("missing_source", func(t *testing.T) {
		_, err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "x"), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening source file")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("overwrite_replaces", func(t *testing.T) {
		out := t.TempDir()
		dst := filepath.Join(out, "taken.jpg")
		require.NoError(t, os.WriteFile(dst, []byte("older and longer content"), 0o644))

		_, err := CopyFile(src, dst, true)
		require.NoError(t, err)

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "raw image bytes", string(content))
		assertOnlyEntries(t, out, "taken.jpg")
	})

	t.Run("failed_copy_keeps_destination", func(t *testing.T) {
		out := t.TempDir()
		dst := filepath.Join(out, "taken.jpg")
		require.NoError(t, os.WriteFile(dst, []byte("already imported"), 0o644))

		// reading a directory fails after the source opens fine
		_, err := CopyFile(t.TempDir(), dst, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "copying file content")

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "already imported", string(content), "existing file is not truncated")
		assertOnlyEntries(t, out, "taken.jpg")
	})
}

func assertOnlyEntries(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.Equal(t, want, got, "no temporary files left behind")
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "b.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o644))

	require.NoError(t, Move(src, dst))
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dst)
	assert.NoError(t, err)
}

func TestMoveCrossDevice(t *testing.T) {
	if !isEXDEV(&os.LinkError{Op: "rename", Err: syscall.EXDEV}) {
		t.Skip("EXDEV classification not available on this platform")
	}

	orig := renameFunc
	t.Cleanup(func() { renameFunc = orig })
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	err := Move("/card/a.mp4", "/disk/a.mp4")
	require.Error(t, err)
	assert.True(t, IsCrossDevice(err))
	assert.Contains(t, err.Error(), "cross-device rename")
}

func TestProbeWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2025VR", "03月", "0307原片")
	require.NoError(t, ProbeWritable(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe marker is removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err = ProbeWritable(filepath.Join(blocker, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
	assert.False(t, IsPermission(err))
}

func TestIsPermission(t *testing.T) {
	assert.True(t, IsPermission(&fs.PathError{Op: "open", Path: "x", Err: syscall.EACCES}))
	assert.True(t, IsPermission(errors.Errorf("wrapped: %w", &fs.PathError{Op: "open", Path: "x", Err: syscall.EPERM})))
	assert.False(t, IsPermission(&fs.PathError{Op: "open", Path: "x", Err: syscall.ENOSPC}))
}
