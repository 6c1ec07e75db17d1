package transfer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cardimport/pkg/fsutil"
	"github.com/walteh/cardimport/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func newCrossDeviceTask(t *testing.T, files ...string) (context.Context, *Task, string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "Osmo360", "DCIM", "CAM_001")
	dst := filepath.Join(root, "work", "2025VR", "03月", "0307原片")
	require.NoError(t, os.MkdirAll(src, 0o755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0o644))
	}

	task := New(Config{SourceDir: src, DestDir: dst, Kind: KindVR, Label: "VR (Osmo)"}, Callbacks{})
	task.sameDevice = func(string, string) bool { return false }
	task.freeSpaceCheck = func(string) (uint64, error) { return 1 << 40, nil }

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background()), task, src, dst
}

func TestVRCrossDeviceCopiesThenDeletes(t *testing.T) {
	ctx, task, src, dst := newCrossDeviceTask(t, "CAM_0001.insv", "CAM_0002.insv", "CAM_0003.insv")

	res := task.Run(ctx)

	assert.False(t, res.SameDevice)
	assert.Equal(t, 3, res.MovedCount)
	assert.Zero(t, res.DeleteFailCount)
	assert.Empty(t, res.Errors)

	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	assert.Empty(t, entries, "sources are removed after a successful copy")

	content, err := os.ReadFile(filepath.Join(dst, "CAM_0002.insv"))
	require.NoError(t, err)
	assert.Equal(t, "CAM_0002.insv", string(content))
}

func TestVRCrossDeviceDeleteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	ctx, task, src, dst := newCrossDeviceTask(t, "CAM_0001.insv", "CAM_0002.insv")
	require.NoError(t, os.Chmod(src, 0o555))
	t.Cleanup(func() { _ = os.Chmod(src, 0o755) })

	var files []FileEvent
	task.cb.OnFile = func(ev FileEvent) { files = append(files, ev) }

	res := task.Run(ctx)

	assert.Equal(t, 2, res.MovedCount, "a kept source does not reduce the moved count")
	assert.Equal(t, 2, res.DeleteFailCount)
	assert.Zero(t, res.HardFailCount)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "VR (Osmo): CAM_0001.insv copied but original not removed", res.Errors[0])
	assert.Len(t, res.IssuesOf(IssuePartialTransfer), 2)
	assert.Equal(t, status.StatusDone, res.Status)

	require.Len(t, files, 2)
	assert.Equal(t, status.ActionSourceKept, files[0].Action)

	_, err := os.Stat(filepath.Join(src, "CAM_0001.insv"))
	assert.NoError(t, err, "source stays when removal fails")
	_, err = os.Stat(filepath.Join(dst, "CAM_0001.insv"))
	assert.NoError(t, err)
}

func TestFreeSpaceWarning(t *testing.T) {
	ctx, task, _, _ := newCrossDeviceTask(t, "CAM_0001.insv")
	task.freeSpaceCheck = func(string) (uint64, error) { return 1, nil }

	res := task.Run(ctx)

	assert.Equal(t, 1, res.MovedCount, "a space warning never aborts")
	found := false
	for _, l := range res.Logs {
		if strings.Contains(l, "free but") {
			found = true
		}
	}
	assert.True(t, found, "logs: %v", res.Logs)
}

func TestFreeSpaceSkippedForSameDeviceMoves(t *testing.T) {
	ctx, task, _, _ := newCrossDeviceTask(t, "CAM_0001.insv")
	task.sameDevice = func(string, string) bool { return true }
	called := false
	task.freeSpaceCheck = func(string) (uint64, error) {
		called = true
		return 0, nil
	}

	res := task.Run(ctx)
	assert.Equal(t, 1, res.MovedCount)
	assert.False(t, called, "renames need no space")
}

func countDir(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestSameDeviceRenameFallsBackToCopy(t *testing.T) {
	ctx, task, src, dst := newCrossDeviceTask(t, "CAM_0001.insv", "CAM_0002.insv")
	task.sameDevice = func(string, string) bool { return true }
	renames := 0
	task.move = func(from, to string) error {
		renames++
		return &fsutil.CrossDeviceError{Src: from, Dst: to, Err: syscall.EXDEV}
	}

	res := task.Run(ctx)

	assert.True(t, res.SameDevice)
	assert.Equal(t, 2, renames)
	assert.Equal(t, 2, res.MovedCount)
	assert.Zero(t, res.HardFailCount)
	assert.Zero(t, res.DeleteFailCount)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 0, countDir(t, src), "sources are removed after the copy")
	assert.Equal(t, 2, countDir(t, dst))
}

func TestSameDeviceRenameFailure(t *testing.T) {
	ctx, task, src, dst := newCrossDeviceTask(t, "CAM_0001.insv")
	task.sameDevice = func(string, string) bool { return true }
	task.move = func(string, string) error { return errors.New("device busy") }

	res := task.Run(ctx)

	assert.Zero(t, res.MovedCount)
	assert.Equal(t, 1, res.HardFailCount)
	require.Len(t, res.IssuesOf(IssuePerFileIO), 1)
	assert.Equal(t, "move", res.IssuesOf(IssuePerFileIO)[0].Op)
	assert.Equal(t, 1, countDir(t, src), "no copy is attempted after a plain rename failure")
	assert.Equal(t, 0, countDir(t, dst))
}

func TestDegradedCopyFallback(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		wantSrcLeft int
		wantAction  status.FileAction
	}{
		{name: "photo", kind: KindPhoto, wantSrcLeft: 2, wantAction: status.ActionCopied},
		{name: "vr_cross_device", kind: KindVR, wantSrcLeft: 0, wantAction: status.ActionMoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, task, src, dst := newCrossDeviceTask(t, "a.dat", "b.dat")
			task.cfg.Kind = tt.kind

			var calls []bool
			task.copyFile = func(from, to string, preserve bool) (int64, error) {
				calls = append(calls, preserve)
				if preserve {
					return 0, errors.New("setting times: operation not supported")
				}
				return fsutil.CopyFile(from, to, false)
			}
			var actions []status.FileAction
			task.cb.OnFile = func(ev FileEvent) { actions = append(actions, ev.Action) }

			res := task.Run(ctx)

			assert.Equal(t, []bool{true, false, true, false}, calls, "each file retries once without metadata")
			assert.Equal(t, 2, res.MovedCount)
			assert.Zero(t, res.HardFailCount)
			assert.Empty(t, res.Errors)
			assert.Equal(t, int64(len("a.dat")+len("b.dat")), res.BytesCopied)
			assert.Equal(t, []status.FileAction{tt.wantAction, tt.wantAction}, actions)
			assert.Equal(t, tt.wantSrcLeft, countDir(t, src))
			assert.Equal(t, 2, countDir(t, dst))
		})
	}
}

func TestCopyFailureKeepsSourceAndDestination(t *testing.T) {
	ctx, task, src, dst := newCrossDeviceTask(t, "CAM_0001.insv", "CAM_0002.insv")
	task.copyFile = func(string, string, bool) (int64, error) {
		return 0, errors.New("input/output error")
	}

	res := task.Run(ctx)

	assert.Zero(t, res.MovedCount)
	assert.Equal(t, 2, res.HardFailCount)
	assert.Zero(t, res.DeleteFailCount)
	assert.Len(t, res.Errors, 2)
	assert.Len(t, res.IssuesOf(IssuePerFileIO), 2)
	assert.Equal(t, status.StatusDone, res.Status)
	assert.Equal(t, 2, countDir(t, src), "a VR source is only removed after a good copy")
	assert.Equal(t, 0, countDir(t, dst))
}
