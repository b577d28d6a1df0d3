package bridge_test

import (
	"syscall"
	"testing"

	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/bridge"
	"github.com/sfslab/sfs/storage"
	"github.com/stretchr/testify/require"
)

func TestInitSucceeds(t *testing.T) {
	device := storage.NewMemoryBlockStorage()
	fs, err := sfs.Create(device)
	require.NoError(t, err)

	adapter := bridge.New(fs)
	require.NoError(t, adapter.Init())
}

func TestGetAttrReturnsDirectory(t *testing.T) {
	device := storage.NewMemoryBlockStorage()
	fs, err := sfs.Create(device)
	require.NoError(t, err)

	adapter := bridge.New(fs)
	attr, err := adapter.GetAttr(1)
	require.NoError(t, err)
	require.True(t, attr.IsDir)
}

func TestReadDirOffsetZeroYieldsDotEntries(t *testing.T) {
	device := storage.NewMemoryBlockStorage()
	fs, err := sfs.Create(device)
	require.NoError(t, err)

	adapter := bridge.New(fs)
	entries, err := adapter.ReadDir(1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, ".", entries[0].Name)
	require.Equal(t, "..", entries[1].Name)
}

func TestReadDirPastOffsetYieldsNothing(t *testing.T) {
	device := storage.NewMemoryBlockStorage()
	fs, err := sfs.Create(device)
	require.NoError(t, err)

	adapter := bridge.New(fs)
	entries, err := adapter.ReadDir(1, 2)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestErrnoMapsCoreErrorsToHostCodes(t *testing.T) {
	require.Equal(t, syscall.ENOENT, bridge.Errno(sfs.ErrDoesNotExist))
	require.Equal(t, syscall.Errno(0), bridge.Errno(nil))
}
