package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/storage"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlockStorageReadWriteRoundTrip(t *testing.T) {
	mem := storage.NewMemoryBlockStorage()
	require.Equal(t, sfs.BlockSize, mem.BlockSize())
	require.Equal(t, sfs.TotalBlocks, mem.TotalBlocks())

	data := bytes.Repeat([]byte{0xAB}, sfs.BlockSize)
	require.NoError(t, mem.WriteBlock(10, data))

	got, err := mem.ReadBlock(10)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestMemoryBlockStorageFreshIsZeroed(t *testing.T) {
	mem := storage.NewMemoryBlockStorage()
	got, err := mem.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, sfs.BlockSize), got)
}

func TestMemoryBlockStorageRejectsOutOfRange(t *testing.T) {
	mem := storage.NewMemoryBlockStorage()
	_, err := mem.ReadBlock(sfs.TotalBlocks)
	require.Error(t, err)

	err = mem.WriteBlock(-1, make([]byte, sfs.BlockSize))
	require.Error(t, err)
}

func TestMemoryBlockStorageRejectsWrongSizedWrite(t *testing.T) {
	mem := storage.NewMemoryBlockStorage()
	err := mem.WriteBlock(0, make([]byte, 10))
	require.Error(t, err)
}

func TestFileBlockEmulatorCreateAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.sfs")

	emu, err := storage.OpenFileBlockEmulator(path, true)
	require.NoError(t, err)
	defer emu.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, sfs.TotalBlocks*sfs.BlockSize, info.Size())

	data := bytes.Repeat([]byte{0x7F}, sfs.BlockSize)
	require.NoError(t, emu.WriteBlock(5, data))
	require.NoError(t, emu.SyncDisk())

	got, err := emu.ReadBlock(5)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestFileBlockEmulatorOpenExistingRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.sfs")
	require.NoError(t, os.WriteFile(path, []byte("too small"), 0o644))

	_, err := storage.OpenFileBlockEmulator(path, false)
	require.Error(t, err)
}

func TestFileBlockEmulatorOpenExistingSucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.sfs")

	emu, err := storage.OpenFileBlockEmulator(path, true)
	require.NoError(t, err)
	require.NoError(t, emu.Close())

	reopened, err := storage.OpenFileBlockEmulator(path, false)
	require.NoError(t, err)
	defer reopened.Close()
}
