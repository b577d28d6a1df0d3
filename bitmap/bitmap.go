// Package bitmap implements the fixed-capacity allocation bitmap used by
// both the data-region allocator and the inode allocator.
package bitmap

import (
	"fmt"

	bb "github.com/boljen/go-bitmap"
	"github.com/sfslab/sfs"
)

// Size is the fixed size, in bytes, of one bitmap image.
const Size = sfs.BlockSize

// TotalBits is the number of bits addressable in one bitmap image.
const TotalBits = Size * 8

// State is the allocation state of a single bit.
type State int

const (
	Free State = iota
	Used
)

func (s State) String() string {
	if s == Used {
		return "Used"
	}
	return "Free"
}

// Bitmap is a 4096-byte fixed bit vector. Only the first N bits are
// semantically meaningful for any given instance (N is the caller's
// business — the data bitmap uses absolute block indices, the inode bitmap
// uses inode numbers).
type Bitmap struct {
	data bb.Bitmap
}

// New returns an all-free bitmap.
func New() *Bitmap {
	return &Bitmap{data: bb.New(TotalBits)}
}

// Parse adopts an existing 4096-byte image as a bitmap.
func Parse(raw []byte) (*Bitmap, error) {
	if len(raw) != Size {
		return nil, sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("bitmap image must be %d bytes, got %d", Size, len(raw)))
	}
	data := make([]byte, Size)
	copy(data, raw)
	return &Bitmap{data: bb.Bitmap(data)}, nil
}

// Serialize returns the 4096-byte on-disk image of the bitmap.
func (b *Bitmap) Serialize() []byte {
	out := make([]byte, Size)
	copy(out, b.data.Data(false))
	return out
}

func (b *Bitmap) checkRange(i int) error {
	if i < 0 || i >= TotalBits {
		return sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("bit index %d out of range [0, %d)", i, TotalBits))
	}
	return nil
}

// Get returns the allocation state of bit i.
func (b *Bitmap) Get(i int) (State, error) {
	if err := b.checkRange(i); err != nil {
		return Free, err
	}
	if b.data.Get(i) {
		return Used, nil
	}
	return Free, nil
}

// SetReserved marks bit i as Used.
func (b *Bitmap) SetReserved(i int) error {
	if err := b.checkRange(i); err != nil {
		return err
	}
	b.data.Set(i, true)
	return nil
}

// Clear marks bit i as Free.
func (b *Bitmap) Clear(i int) error {
	if err := b.checkRange(i); err != nil {
		return err
	}
	b.data.Set(i, false)
	return nil
}

// NextFree returns the smallest index in [start, limit) whose state is
// Free, or ErrOutOfSpace if none exist. The scan is a pure, deterministic
// linear walk; no cursor is cached.
func (b *Bitmap) NextFree(start, limit int) (int, error) {
	if start < 0 || limit > TotalBits || start > limit {
		return 0, sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("invalid scan range [%d, %d)", start, limit))
	}
	for i := start; i < limit; i++ {
		if !b.data.Get(i) {
			return i, nil
		}
	}
	return 0, sfs.ErrOutOfSpace.WithMessage(
		fmt.Sprintf("no free bit in range [%d, %d)", start, limit))
}
