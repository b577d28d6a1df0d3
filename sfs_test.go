package sfs_test

import (
	"strconv"
	"testing"

	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/storage"
	"github.com/stretchr/testify/require"
)

func freshVolume(t *testing.T) (*sfs.Filesystem, storage.BlockStorage) {
	t.Helper()
	device := storage.NewMemoryBlockStorage()
	fs, err := sfs.Create(device)
	require.NoError(t, err)
	return fs, device
}

func TestCreateProducesValidSuperblock(t *testing.T) {
	fs, _ := freshVolume(t)
	sb := fs.Superblock()
	require.EqualValues(t, sfs.SuperblockMagic, sb.Magic)
	require.EqualValues(t, sfs.InodesCount, sb.InodesCount)
	require.EqualValues(t, sfs.DataBlocksCount, sb.BlocksCount)
}

func TestCreateRootOnlyAllocated(t *testing.T) {
	fs, _ := freshVolume(t)
	require.Equal(t, 1, fs.TotalAllocatedInodes())
}

func TestFromBlockStorageRoundTrip(t *testing.T) {
	_, device := freshVolume(t)

	reopened, err := sfs.FromBlockStorage(device)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.TotalAllocatedInodes())

	sb := reopened.Superblock()
	require.EqualValues(t, sfs.SuperblockMagic, sb.Magic)
}

func TestFromBlockStorageRejectsBadMagic(t *testing.T) {
	device := storage.NewMemoryBlockStorage()
	_, err := sfs.FromBlockStorage(device)
	require.Error(t, err)
}

func TestReadFileReturnsWholeBlockMultiple(t *testing.T) {
	fs, _ := freshVolume(t)

	inum, err := fs.Open("/greeting", sfs.ModeCreate)
	require.NoError(t, err)

	data, err := fs.ReadFile(inum)
	require.NoError(t, err)
	require.Len(t, data, 0)
}

func TestCreatingMoreThanAvailableInodesFails(t *testing.T) {
	fs, _ := freshVolume(t)

	var lastErr error
	for i := 0; i < 90; i++ {
		name := "/file" + strconv.Itoa(i)
		_, err := fs.Open(name, sfs.ModeCreate)
		if err != nil {
			lastErr = err
			break
		}
	}
	require.Error(t, lastErr)
	require.Equal(t, sfs.InodesCount, fs.TotalAllocatedInodes())
}
