package sfs

import (
	"fmt"

	"github.com/sfslab/sfs/bitmap"
	"github.com/sfslab/sfs/inode"
	"github.com/sfslab/sfs/storage"
	"github.com/sfslab/sfs/superblock"
)

// Filesystem is the top-level in-memory object owning the backing device,
// the superblock, both allocation bitmaps, and the inode group.
// A handler invocation has exclusive mutable access to it for its duration;
// the type performs no internal locking.
type Filesystem struct {
	device     storage.BlockStorage
	super      superblock.SuperBlock
	dataBitmap *bitmap.Bitmap
	inodes     *inode.Group
}

// Create formats a fresh volume on device and returns the mounted
// filesystem. device is assumed to be a zero-filled, TotalBlocks-block
// volume; Create does not read its prior contents.
func Create(device storage.BlockStorage) (*Filesystem, error) {
	super := superblock.Default()

	dataBitmap := bitmap.New()
	for i := 0; i < DataRegionStart; i++ {
		if err := dataBitmap.SetReserved(i); err != nil {
			return nil, err
		}
	}
	// Root's initial directory content lives at the first data block.
	if err := dataBitmap.SetReserved(DataRegionStart); err != nil {
		return nil, err
	}
	super.FreeBlocksCount--

	nodes, err := inode.New()
	if err != nil {
		return nil, err
	}
	// The root directory occupies inode 0.
	super.FreeInodesCount--

	fs := &Filesystem{device: device, super: super, dataBitmap: dataBitmap, inodes: nodes}

	if err := fs.writeSuperblock(); err != nil {
		return nil, err
	}
	if err := fs.writeDataBitmap(); err != nil {
		return nil, err
	}
	if err := fs.writeInodeBitmap(); err != nil {
		return nil, err
	}
	for i := 0; i < InodeBlocksCount; i++ {
		if err := fs.writeInodeBlock(i); err != nil {
			return nil, err
		}
	}
	// The root directory starts empty: an all-zero block already satisfies
	// the directory encoding (byte 0 is the NUL end-of-data marker).
	if err := fs.device.WriteBlock(DataRegionStart, make([]byte, BlockSize)); err != nil {
		return nil, err
	}

	if err := fs.device.SyncDisk(); err != nil {
		return nil, err
	}
	return fs, nil
}

// FromBlockStorage mounts an existing volume. It fails with ErrInvalidBlock
// if the superblock's magic doesn't match, or if any metadata block fails
// to parse.
func FromBlockStorage(device storage.BlockStorage) (*Filesystem, error) {
	block0, err := device.ReadBlock(SuperblockBlockIndex)
	if err != nil {
		return nil, err
	}
	super, err := superblock.Parse(block0, SuperblockMagic)
	if err != nil {
		return nil, err
	}

	block1, err := device.ReadBlock(DataBitmapBlockIndex)
	if err != nil {
		return nil, err
	}
	dataBitmap, err := bitmap.Parse(block1)
	if err != nil {
		return nil, err
	}

	block2, err := device.ReadBlock(InodeBitmapBlockIndex)
	if err != nil {
		return nil, err
	}
	inodeBitmap, err := bitmap.Parse(block2)
	if err != nil {
		return nil, err
	}

	nodes := inode.Open(inodeBitmap)
	for i := 0; i < InodeBlocksCount; i++ {
		block, err := device.ReadBlock(InodeBlocksStart + i)
		if err != nil {
			return nil, err
		}
		if err := nodes.LoadBlock(i, block); err != nil {
			return nil, err
		}
	}

	return &Filesystem{device: device, super: super, dataBitmap: dataBitmap, inodes: nodes}, nil
}

// TotalAllocatedInodes returns the number of inode slots currently in use.
func (fs *Filesystem) TotalAllocatedInodes() int {
	return fs.inodes.TotalAllocated()
}

// Superblock returns a copy of the filesystem's current superblock.
func (fs *Filesystem) Superblock() superblock.SuperBlock {
	return fs.super
}

// Inode returns a copy of inode record inum, for introspection by the
// consistency checker.
func (fs *Filesystem) Inode(inum int) (inode.Inode, error) {
	return fs.inodes.Get(inum)
}

// InodeBitmapState returns the allocation state of inode slot inum.
func (fs *Filesystem) InodeBitmapState(inum int) (bitmap.State, error) {
	return fs.inodes.Bitmap().Get(inum)
}

// DataBitmapState returns the allocation state of data-block index.
func (fs *Filesystem) DataBitmapState(index int) (bitmap.State, error) {
	return fs.dataBitmap.Get(index)
}

// ReadDirEntries decodes the directory at inum into a name-to-inode-number
// mapping, exported for the consistency checker.
func (fs *Filesystem) ReadDirEntries(inum int) (map[string]int, error) {
	return fs.readDir(inum)
}

func (fs *Filesystem) writeSuperblock() error {
	return fs.device.WriteBlock(SuperblockBlockIndex, fs.super.ToBlock())
}

func (fs *Filesystem) writeDataBitmap() error {
	return fs.device.WriteBlock(DataBitmapBlockIndex, fs.dataBitmap.Serialize())
}

func (fs *Filesystem) writeInodeBitmap() error {
	return fs.device.WriteBlock(InodeBitmapBlockIndex, fs.inodes.Bitmap().Serialize())
}

func (fs *Filesystem) writeInodeBlock(relativeBlockIndex int) error {
	raw, err := fs.inodes.SerializeBlock(relativeBlockIndex)
	if err != nil {
		return err
	}
	return fs.device.WriteBlock(InodeBlocksStart+relativeBlockIndex, raw)
}

// allocateDataBlock reserves and returns the lowest-indexed free block in
// the data region.
func (fs *Filesystem) allocateDataBlock() (int, error) {
	index, err := fs.dataBitmap.NextFree(DataRegionStart, TotalBlocks)
	if err != nil {
		return 0, err
	}
	if err := fs.dataBitmap.SetReserved(index); err != nil {
		return 0, err
	}
	fs.super.FreeBlocksCount--
	if err := fs.writeSuperblock(); err != nil {
		return 0, err
	}
	if err := fs.writeDataBitmap(); err != nil {
		return 0, err
	}
	return index, nil
}

// allocateInode reserves a new inode, persists its owning inode block, the
// inode bitmap, and the superblock's updated free-inode counter.
func (fs *Filesystem) allocateInode(n inode.Inode) (int, error) {
	inum, err := fs.inodes.Allocate(n)
	if err != nil {
		return 0, err
	}
	fs.super.FreeInodesCount--
	if err := fs.writeSuperblock(); err != nil {
		return 0, err
	}
	if err := fs.writeInodeBitmap(); err != nil {
		return 0, err
	}
	if err := fs.writeInodeBlock(inum / InodesPerBlock); err != nil {
		return 0, err
	}
	return inum, nil
}

func (fs *Filesystem) persistInode(inum int, n inode.Inode) error {
	if err := fs.inodes.Set(inum, n); err != nil {
		return err
	}
	return fs.writeInodeBlock(inum / InodesPerBlock)
}

// collectBlocks reads every data block allocated to inum's inode, in
// pointer order, and returns their concatenated raw contents.
func (fs *Filesystem) collectBlocks(inum int) ([]byte, error) {
	n, err := fs.inodes.Get(inum)
	if err != nil {
		return nil, err
	}

	var out []byte
	for i := 0; i < DirectPointers; i++ {
		if !n.IsAllocated(i) {
			continue
		}
		block, err := fs.device.ReadBlock(int(n.Blocks[i]))
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

// ReadFile returns the whole-block-multiple contents of the data blocks
// allocated to inum. Truncation to the inode's recorded size is the
// caller's responsibility.
func (fs *Filesystem) ReadFile(inum int) ([]byte, error) {
	return fs.collectBlocks(inum)
}

func invalidName(name string) bool {
	for _, r := range name {
		if r == ':' || r == '\n' {
			return true
		}
	}
	return false
}

func invalidNameError(name string) error {
	return ErrInvalidArgument.WithMessage(
		fmt.Sprintf("name %q must not contain ':' or newline", name))
}
