package sfs_test

import (
	"fmt"
	"testing"

	"github.com/sfslab/sfs"
	"github.com/stretchr/testify/require"
)

// Directory round-trip: for any name->inum mapping with names <= 40 bytes
// and count <= 90, write then read yields the same mapping.
func TestDirectoryRoundTripManyEntries(t *testing.T) {
	fs, _ := freshVolume(t)

	expected := map[string]int{}
	for i := 0; i < 70; i++ {
		name := fmt.Sprintf("entry-%02d", i)
		inum, err := fs.Open("/"+name, sfs.ModeCreate)
		require.NoError(t, err)
		expected[name] = inum
	}

	for name, inum := range expected {
		got, err := fs.Open("/"+name, sfs.ModeReadOnly)
		require.NoError(t, err)
		require.Equal(t, inum, got)
	}
}

func TestDirectoryGrowsAcrossBlocksWhenNeeded(t *testing.T) {
	fs, _ := freshVolume(t)

	// Long names push the serialized directory past one block's worth of
	// content (4096 bytes) at the 77th entry, just before the 80-entry
	// inode table is exhausted, forcing a second directory data block to
	// be allocated.
	created := 0
	for i := 0; i < 79; i++ {
		name := fmt.Sprintf("a-fairly-long-file-name-to-force-growth-number-%03d", i)
		_, err := fs.Open("/"+name, sfs.ModeCreate)
		require.NoError(t, err)
		created++
	}

	for i := 0; i < created; i++ {
		name := fmt.Sprintf("a-fairly-long-file-name-to-force-growth-number-%03d", i)
		_, err := fs.Open("/"+name, sfs.ModeReadOnly)
		require.NoError(t, err)
	}
}
