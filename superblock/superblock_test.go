package superblock_test

import (
	"testing"

	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/superblock"
	"github.com/stretchr/testify/require"
)

func TestDefaultSuperBlock(t *testing.T) {
	sb := superblock.Default()
	require.EqualValues(t, sfs.SuperblockMagic, sb.Magic)
	require.EqualValues(t, 80, sb.InodesCount)
	require.EqualValues(t, 56, sb.BlocksCount)
	require.EqualValues(t, 80, sb.FreeInodesCount)
	require.EqualValues(t, 56, sb.FreeBlocksCount)
}

func TestSerializeParseRoundTrip(t *testing.T) {
	sb := superblock.Default()
	raw := sb.Serialize()
	require.Len(t, raw, superblock.Size)

	reloaded, err := superblock.Parse(raw, sfs.SuperblockMagic)
	require.NoError(t, err)
	require.Equal(t, sb, reloaded)
}

func TestParseRejectsBadMagic(t *testing.T) {
	sb := superblock.Default()
	raw := sb.Serialize()

	_, err := superblock.Parse(raw, 0xdeadbeef)
	require.Error(t, err)
}

func TestParseRejectsShortImage(t *testing.T) {
	_, err := superblock.Parse(make([]byte, 4), sfs.SuperblockMagic)
	require.Error(t, err)
}

func TestToBlockIsBlockSized(t *testing.T) {
	sb := superblock.Default()
	block := sb.ToBlock()
	require.Len(t, block, sfs.BlockSize)
	require.True(t, isZero(block[superblock.Size:]))
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
