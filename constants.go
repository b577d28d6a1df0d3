// Package sfs implements a minimal, fixed-size on-disk filesystem: a
// superblock, two allocation bitmaps, an 80-entry inode table, and a
// newline-delimited directory encoding, occupying exactly 64 fixed-size
// blocks on a block-addressable storage device.
package sfs

const (
	// BlockSize is the size, in bytes, of a single block on the volume.
	BlockSize = 4096

	// SuperblockMagic identifies an initialized SFS volume ("SFSB").
	SuperblockMagic = 0x53465342

	// SuperblockBlockIndex is the index of the block holding the superblock.
	SuperblockBlockIndex = 0
	// DataBitmapBlockIndex is the index of the block holding the data-region
	// allocation bitmap.
	DataBitmapBlockIndex = 1
	// InodeBitmapBlockIndex is the index of the block holding the inode
	// allocation bitmap.
	InodeBitmapBlockIndex = 2
	// InodeBlocksStart is the index of the first of the five blocks holding
	// the inode table.
	InodeBlocksStart = 3
	// InodeBlocksCount is the number of blocks occupied by the inode table.
	InodeBlocksCount = 5
	// DataRegionStart is the index of the first data block. Indices below
	// this are metadata and must never be allocated as data.
	DataRegionStart = 8
	// TotalBlocks is the total number of blocks on the volume.
	TotalBlocks = 64
	// DataBlocksCount is the number of blocks in the data region.
	DataBlocksCount = TotalBlocks - DataRegionStart

	// InodeSize is the size, in bytes, of one on-disk inode record.
	InodeSize = 256
	// InodesPerBlock is the number of inodes packed into a single block.
	InodesPerBlock = BlockSize / InodeSize
	// InodesCount is the total number of inodes available on the volume.
	InodesCount = InodeBlocksCount * InodesPerBlock
	// DirectPointers is the number of direct data-block pointers per inode.
	DirectPointers = 15
	// InodePaddingWords is the number of reserved uint32 padding words in
	// each inode, held at zero.
	InodePaddingWords = 43

	// RootInodeNumber is the inode number of the root directory. It is
	// always allocated and its allocation is permanent.
	RootInodeNumber = 0
	// RootDirectoryMode is the mode bits given to the root directory inode.
	RootDirectoryMode = 0x4000
	// RegularFileMode is the mode bits given to a newly created, non-root
	// file inode.
	RegularFileMode = 0x8000
)

// OpenMode selects the behavior of Filesystem.Open when resolving a path.
type OpenMode int

const (
	// ModeReadOnly resolves an existing path; absent components fail with
	// ErrDoesNotExist.
	ModeReadOnly OpenMode = iota
	// ModeWriteOnly is not implemented by this core.
	ModeWriteOnly
	// ModeReadWrite is not implemented by this core.
	ModeReadWrite
	// ModeDirectory is not implemented by this core.
	ModeDirectory
	// ModeCreate creates the final path component as a new inode if it is
	// absent, inserting it into its parent directory.
	ModeCreate
)
