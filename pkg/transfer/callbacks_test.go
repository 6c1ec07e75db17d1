package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cardimport/pkg/status"
	"github.com/walteh/cardimport/pkg/transfer"
)

// 🎭 mockSink is a testify mock standing in for a progress consumer
type mockSink struct {
	mock.Mock
}

func (m *mockSink) callbacks() transfer.Callbacks {
	return transfer.Callbacks{
		OnStart:        func(total int) { m.MethodCalled("start", total) },
		OnProgress:     func(ev transfer.ProgressEvent) { m.MethodCalled("progress", ev.CurrentIndex, ev.TotalCount) },
		OnStatusChange: func(s status.Status) { m.MethodCalled("status", s) },
		OnFile:         func(ev transfer.FileEvent) { m.MethodCalled("file", ev.Name, ev.Action) },
	}
}

func TestCallbackContract(t *testing.T) {
	ctx, src, dst := createTestEnv(t, map[string]string{
		"a.mp4": "a",
		"b.mp4": "b",
	})

	sink := &mockSink{}
	sink.On("start", 2).Return().Once()
	sink.On("status", status.StatusRunning).Return().Once()
	sink.On("file", "a.mp4", status.ActionMoved).Return().Once()
	sink.On("progress", 1, 2).Return().Once()
	sink.On("file", "b.mp4", status.ActionMoved).Return().Once()
	sink.On("progress", 2, 2).Return().Once()
	sink.On("status", status.StatusDone).Return().Once()

	res := transfer.New(transfer.Config{SourceDir: src, DestDir: dst, Kind: transfer.KindVR}, sink.callbacks()).Run(ctx)
	require.Equal(t, 2, res.MovedCount)

	sink.AssertExpectations(t)
}

func TestCallbackContractEarlyExit(t *testing.T) {
	ctx, src, dst := createTestEnv(t, nil)

	sink := &mockSink{}
	sink.On("status", status.StatusNoFiles).Return().Once()

	res := transfer.New(transfer.Config{SourceDir: src, DestDir: dst, Kind: transfer.KindPhoto}, sink.callbacks()).Run(ctx)
	require.Zero(t, res.Total)

	sink.AssertExpectations(t)
	sink.AssertNotCalled(t, "start", mock.Anything)
	sink.AssertNotCalled(t, "status", status.StatusRunning)
}
