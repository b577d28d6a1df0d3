// Package fsck implements a read-only pass over a mounted filesystem that
// checks its cross-structure invariants and reports every violation found,
// not just the first.
package fsck

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/bitmap"
)

// CheckConsistency walks all 80 inode slots and both bitmaps, accumulating
// one error per violation of the five invariants tying bitmaps, inode
// records, and directory content together. It returns nil if the volume is
// clean.
func CheckConsistency(fs *sfs.Filesystem) error {
	var result *multierror.Error

	seenBlocks := make(map[int]int) // data block index -> owning inum

	for inum := 0; inum < sfs.InodesCount; inum++ {
		bitState, err := fs.InodeBitmapState(inum)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", inum, err))
			continue
		}

		n, getErr := fs.Inode(inum)
		if bitState == bitmap.Used && getErr != nil {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d: bitmap bit set but inode record unreadable: %w", inum, getErr))
			continue
		}
		if bitState == bitmap.Free {
			// Invariant 2 only constrains allocated slots; free slots have
			// nothing further to check.
			continue
		}
		// Invariant 2: every record the filesystem writes carries non-zero
		// mode bits, so an all-zero mode marks a slot whose record was never
		// written.
		if n.Mode == 0 {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d: bitmap bit set but inode record was never written", inum))
			continue
		}

		for i := 0; i < sfs.DirectPointers; i++ {
			if !n.IsAllocated(i) {
				continue
			}
			block := int(n.Blocks[i])

			// Invariant 1: every referenced data block is marked Used.
			state, err := fs.DataBitmapState(block)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d: block pointer %d out of range: %w", inum, block, err))
				continue
			}
			if state == bitmap.Free {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d references data block %d, but the data bitmap marks it free",
					inum, block))
			}

			// Invariant 4: no two inodes reference the same data block.
			if owner, seen := seenBlocks[block]; seen && owner != inum {
				result = multierror.Append(result, fmt.Errorf(
					"data block %d is referenced by both inode %d and inode %d",
					block, owner, inum))
			} else {
				seenBlocks[block] = inum
			}
		}

		// Invariant 5: a directory's serialized form parses back to the
		// same set of (name, inum) pairs it was last written with. This
		// checker can only confirm the block decodes without error; it has
		// no independent copy of "the last written mapping" to diff
		// against, so a parse failure is reported as the violation.
		if n.IsDirectory() {
			if _, err := fs.ReadDirEntries(inum); err != nil {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d: directory content failed to parse: %w", inum, err))
			}
		}
	}

	// Invariant 3 (superblock magic) is enforced at mount time by
	// FromBlockStorage; a *sfs.Filesystem value cannot exist without it
	// already having been checked, so it isn't re-checked here.

	return result.ErrorOrNil()
}
