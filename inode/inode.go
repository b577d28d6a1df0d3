// Package inode implements the on-disk inode record and the in-memory inode
// table ("inode group") that backs it.
package inode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/bitmap"
)

// Inode is the fixed 256-byte on-disk inode record.
type Inode struct {
	Mode       uint16
	Uid        uint16
	Gid        uint16
	LinksCount uint16
	Size       uint32
	CreateTime uint32
	UpdateTime uint32
	AccessTime uint32
	Padding    [sfs.InodePaddingWords]uint32
	Blocks     [sfs.DirectPointers]uint32
}

// IsDirectory reports whether the inode's mode bits mark it as a directory.
func (n Inode) IsDirectory() bool {
	return n.Mode&sfs.RootDirectoryMode != 0
}

// IsAllocated reports whether block pointer i refers to a real data block:
// a pointer is allocated when it addresses a block at or past the start of
// the data region, i.e. past the last reserved metadata block.
func (n Inode) IsAllocated(i int) bool {
	return n.Blocks[i] >= sfs.DataRegionStart
}

// Encode serializes the inode into its 256-byte on-disk form.
func (n Inode) Encode() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(sfs.InodeSize)
	// binary.Write against a bytes.Buffer with a fixed-size struct never
	// fails; errors are ignored throughout.
	binary.Write(buf, binary.LittleEndian, n)
	return buf.Bytes()
}

// Decode parses a 256-byte on-disk inode record.
func Decode(raw []byte) (Inode, error) {
	if len(raw) != sfs.InodeSize {
		return Inode{}, sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode record must be %d bytes, got %d", sfs.InodeSize, len(raw)))
	}
	var n Inode
	reader := bytes.NewReader(raw)
	if err := binary.Read(reader, binary.LittleEndian, &n); err != nil {
		return Inode{}, sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	return n, nil
}

// newRoot builds the root directory's inode, its single direct block
// pointer set to the first data block.
func newRoot() Inode {
	return Inode{
		Mode:       sfs.RootDirectoryMode,
		LinksCount: 1,
		Blocks:     [sfs.DirectPointers]uint32{sfs.DataRegionStart},
	}
}

// Group is the in-memory inode table: the 80 fixed-slot inode records and
// the allocation bitmap tracking which slots are in use.
type Group struct {
	nodes [sfs.InodesCount]Inode
	alloc *bitmap.Bitmap
}

// New builds a fresh inode group for a newly formatted volume: the
// allocation bitmap has only inode 0 (root) reserved, and slot 0 holds the
// root directory inode.
func New() (*Group, error) {
	alloc := bitmap.New()
	if err := alloc.SetReserved(sfs.RootInodeNumber); err != nil {
		return nil, err
	}
	g := &Group{alloc: alloc}
	g.nodes[sfs.RootInodeNumber] = newRoot()
	return g, nil
}

// Open adopts an existing allocation bitmap for a mounted volume. Inode
// records must subsequently be populated with LoadBlock.
func Open(alloc *bitmap.Bitmap) *Group {
	return &Group{alloc: alloc}
}

// Bitmap returns the group's allocation bitmap.
func (g *Group) Bitmap() *bitmap.Bitmap {
	return g.alloc
}

// LoadBlock populates the inodes held in on-disk inode-table block
// relativeBlockIndex (0-based, within [0, InodeBlocksCount)) from its raw
// BlockSize-byte contents.
func (g *Group) LoadBlock(relativeBlockIndex int, raw []byte) error {
	if relativeBlockIndex < 0 || relativeBlockIndex >= sfs.InodeBlocksCount {
		return sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode block index %d out of range [0, %d)", relativeBlockIndex, sfs.InodeBlocksCount))
	}
	if len(raw) != sfs.BlockSize {
		return sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode block must be %d bytes, got %d", sfs.BlockSize, len(raw)))
	}

	base := relativeBlockIndex * sfs.InodesPerBlock
	for slot := 0; slot < sfs.InodesPerBlock; slot++ {
		offset := slot * sfs.InodeSize
		n, err := Decode(raw[offset : offset+sfs.InodeSize])
		if err != nil {
			return err
		}
		g.nodes[base+slot] = n
	}
	return nil
}

// SerializeBlock returns the BlockSize-byte on-disk image of inode-table
// block relativeBlockIndex.
func (g *Group) SerializeBlock(relativeBlockIndex int) ([]byte, error) {
	if relativeBlockIndex < 0 || relativeBlockIndex >= sfs.InodeBlocksCount {
		return nil, sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode block index %d out of range [0, %d)", relativeBlockIndex, sfs.InodeBlocksCount))
	}

	out := make([]byte, sfs.BlockSize)
	writer := bytewriter.New(out)

	base := relativeBlockIndex * sfs.InodesPerBlock
	for slot := 0; slot < sfs.InodesPerBlock; slot++ {
		if _, err := writer.Write(g.nodes[base+slot].Encode()); err != nil {
			return nil, sfs.WrapError(sfs.ErrInvalidBlock, err)
		}
	}
	return out, nil
}

func (g *Group) checkInum(inum int) error {
	if inum < 0 || inum >= sfs.InodesCount {
		return sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode number %d out of range [0, %d)", inum, sfs.InodesCount))
	}
	return nil
}

// Get returns a copy of inode record inum.
func (g *Group) Get(inum int) (Inode, error) {
	if err := g.checkInum(inum); err != nil {
		return Inode{}, err
	}
	state, err := g.alloc.Get(inum)
	if err != nil {
		return Inode{}, err
	}
	if state == bitmap.Free {
		return Inode{}, sfs.ErrDoesNotExist.WithMessage(
			fmt.Sprintf("inode %d is not allocated", inum))
	}
	return g.nodes[inum], nil
}

// Set overwrites the record stored at the already-allocated slot inum.
func (g *Group) Set(inum int, n Inode) error {
	if err := g.checkInum(inum); err != nil {
		return err
	}
	g.nodes[inum] = n
	return nil
}

// Allocate finds a free inode slot, reserves it in the allocation bitmap,
// stores the given record there, and returns its inode number.
func (g *Group) Allocate(n Inode) (int, error) {
	inum, err := g.alloc.NextFree(0, sfs.InodesCount)
	if err != nil {
		return 0, err
	}
	if err := g.alloc.SetReserved(inum); err != nil {
		return 0, err
	}
	g.nodes[inum] = n
	return inum, nil
}

// TotalAllocated returns the number of inode slots currently reserved.
func (g *Group) TotalAllocated() int {
	total := 0
	for i := 0; i < sfs.InodesCount; i++ {
		state, _ := g.alloc.Get(i)
		if state == bitmap.Used {
			total++
		}
	}
	return total
}
