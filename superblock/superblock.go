// Package superblock implements the 28-byte volume header written to block
// 0 of an SFS volume.
package superblock

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sfslab/sfs"
)

// Size is the number of bytes the superblock occupies at the start of
// block 0. The rest of the block is zero.
const Size = 28

// SuperBlock is the volume header, serialized little-endian.
type SuperBlock struct {
	Magic               uint32
	InodesCount         uint32
	BlocksCount         uint32
	ReservedBlocksCount uint32
	FreeBlocksCount     uint32
	FreeInodesCount     uint32
	Pad                 uint32
}

// Default returns the canonical fresh superblock for a newly formatted
// volume: magic set, 80 inodes, 56 data blocks, all inodes and data blocks
// free.
func Default() SuperBlock {
	return SuperBlock{
		Magic:               sfs.SuperblockMagic,
		InodesCount:         sfs.InodesCount,
		BlocksCount:         sfs.DataBlocksCount,
		ReservedBlocksCount: 0,
		FreeBlocksCount:     sfs.DataBlocksCount,
		FreeInodesCount:     sfs.InodesCount,
		Pad:                 0,
	}
}

// Serialize encodes the superblock into its 28-byte on-disk image.
func (sb SuperBlock) Serialize() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(Size)
	// Errors from binary.Write against a bytes.Buffer are impossible for
	// fixed-width numeric fields; they're ignored throughout this function.
	binary.Write(buf, binary.LittleEndian, sb.Magic)
	binary.Write(buf, binary.LittleEndian, sb.InodesCount)
	binary.Write(buf, binary.LittleEndian, sb.BlocksCount)
	binary.Write(buf, binary.LittleEndian, sb.ReservedBlocksCount)
	binary.Write(buf, binary.LittleEndian, sb.FreeBlocksCount)
	binary.Write(buf, binary.LittleEndian, sb.FreeInodesCount)
	binary.Write(buf, binary.LittleEndian, sb.Pad)
	return buf.Bytes()
}

// Parse decodes a superblock from its 28-byte on-disk image, failing with
// ErrInvalidBlock if the magic doesn't match expectedMagic.
func Parse(raw []byte, expectedMagic uint32) (SuperBlock, error) {
	if len(raw) < Size {
		return SuperBlock{}, sfs.ErrInvalidBlock.WithMessage(
			fmt.Sprintf("superblock image too short: need %d bytes, got %d", Size, len(raw)))
	}

	reader := bytes.NewReader(raw[:Size])
	var sb SuperBlock
	fields := []*uint32{
		&sb.Magic, &sb.InodesCount, &sb.BlocksCount, &sb.ReservedBlocksCount,
		&sb.FreeBlocksCount, &sb.FreeInodesCount, &sb.Pad,
	}
	for _, field := range fields {
		if err := binary.Read(reader, binary.LittleEndian, field); err != nil {
			return SuperBlock{}, sfs.WrapError(sfs.ErrInvalidBlock, err)
		}
	}

	if sb.Magic != expectedMagic {
		return SuperBlock{}, sfs.ErrInvalidBlock.WithMessage(
			fmt.Sprintf("bad magic: expected 0x%08x, got 0x%08x", expectedMagic, sb.Magic))
	}
	return sb, nil
}

// ToBlock returns the full BlockSize-byte image of block 0: the 28-byte
// superblock followed by zero bytes.
func (sb SuperBlock) ToBlock() []byte {
	block := make([]byte, sfs.BlockSize)
	copy(block, sb.Serialize())
	return block
}
