package sfs

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noxer/bytewriter"
	"github.com/sfslab/sfs/inode"
)

// readDir decodes the directory at inum into a name-to-inode-number mapping.
func (fs *Filesystem) readDir(inum int) (map[string]int, error) {
	raw, err := fs.collectBlocks(inum)
	if err != nil {
		return nil, err
	}

	if end := bytes.IndexByte(raw, 0); end >= 0 {
		raw = raw[:end]
	}

	entries := make(map[string]int)
	text := string(raw)
	if text == "" {
		return entries, nil
	}

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, ErrInvalidBlock.WithMessage(
				fmt.Sprintf("malformed directory record %q", line))
		}
		entryInum, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, ErrInvalidBlock.WithMessage(
				fmt.Sprintf("malformed directory record %q", line))
		}
		entries[parts[1]] = entryInum
	}
	return entries, nil
}

// encodeDir formats entries into the directory on-disk text: newline-
// terminated "<inum>:<name>" records followed by a trailing NUL, always
// re-emitted even when entries is empty so readers can reliably find the
// end of content. Names are emitted in sorted order for determinism; the
// format itself defines no order across blocks.
func encodeDir(entries map[string]int) []byte {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		fmt.Fprintf(&buf, "%d:%s\n", entries[name], name)
	}
	buf.WriteByte(0)
	return buf.Bytes()
}

// writeDir serializes entries and persists them to inum's allocated data
// blocks, allocating additional data blocks if the content has grown.
func (fs *Filesystem) writeDir(inum int, entries map[string]int) error {
	content := encodeDir(entries)

	blocksNeeded := (len(content) + BlockSize - 1) / BlockSize
	if blocksNeeded == 0 {
		blocksNeeded = 1
	}

	n, err := fs.inodes.Get(inum)
	if err != nil {
		return err
	}

	allocated := 0
	for i := 0; i < DirectPointers; i++ {
		if n.IsAllocated(i) {
			allocated++
		}
	}

	for allocated < blocksNeeded {
		if allocated >= DirectPointers {
			return ErrOutOfSpace.WithMessage("directory has exhausted its direct block pointers")
		}
		blockIndex, err := fs.allocateDataBlock()
		if err != nil {
			return err
		}
		n.Blocks[allocated] = uint32(blockIndex)
		allocated++
	}
	n.Size = uint32(len(content))

	padded := make([]byte, blocksNeeded*BlockSize)
	writer := bytewriter.New(padded)
	if _, err := writer.Write(content); err != nil {
		return WrapError(ErrInvalidBlock, err)
	}

	for i := 0; i < blocksNeeded; i++ {
		chunk := padded[i*BlockSize : (i+1)*BlockSize]
		if err := fs.device.WriteBlock(int(n.Blocks[i]), chunk); err != nil {
			return err
		}
	}

	return fs.persistInode(inum, n)
}

// newDefaultFile builds the inode record for a freshly created, non-root
// file entity.
func newDefaultFile() inode.Inode {
	return inode.Inode{Mode: RegularFileMode, LinksCount: 1}
}
