// Package storage implements the block-addressable storage abstraction that
// the filesystem core reads and writes its 64 fixed-size blocks through.
package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/sfslab/sfs"
	"github.com/xaionaro-go/bytesextra"
)

// BlockStorage is a fixed-geometry, block-addressable storage device: an
// exact TotalBlocks-block, BlockSize-byte-per-block volume.
type BlockStorage interface {
	// ReadBlock returns a copy of block index's contents.
	ReadBlock(index int) ([]byte, error)
	// WriteBlock overwrites block index's contents. data must be exactly
	// BlockSize bytes.
	WriteBlock(index int, data []byte) error
	// SyncDisk flushes any buffered writes to the underlying medium.
	SyncDisk() error
	// BlockSize returns the fixed block size of the device.
	BlockSize() int
	// TotalBlocks returns the fixed number of blocks on the device.
	TotalBlocks() int
}

func checkBounds(index int, data []byte, requireExactBlock bool) error {
	if index < 0 || index >= sfs.TotalBlocks {
		return sfs.ErrInvalidBlock.WithMessage(
			fmt.Sprintf("block index %d out of range [0, %d)", index, sfs.TotalBlocks))
	}
	if requireExactBlock && len(data) != sfs.BlockSize {
		return sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("block data must be exactly %d bytes, got %d", sfs.BlockSize, len(data)))
	}
	return nil
}

func blockOffset(index int) int64 {
	return int64(index) * int64(sfs.BlockSize)
}

// seekableStorage implements BlockStorage against any io.ReadWriteSeeker by
// seeking to the block's byte offset before each read or write; it backs
// both FileBlockEmulator and MemoryBlockStorage.
type seekableStorage struct {
	stream io.ReadWriteSeeker
}

func (s *seekableStorage) ReadBlock(index int) ([]byte, error) {
	if err := checkBounds(index, nil, false); err != nil {
		return nil, err
	}
	if _, err := s.stream.Seek(blockOffset(index), io.SeekStart); err != nil {
		return nil, sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	buf := make([]byte, sfs.BlockSize)
	if _, err := io.ReadFull(s.stream, buf); err != nil {
		return nil, sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	return buf, nil
}

func (s *seekableStorage) WriteBlock(index int, data []byte) error {
	if err := checkBounds(index, data, true); err != nil {
		return err
	}
	if _, err := s.stream.Seek(blockOffset(index), io.SeekStart); err != nil {
		return sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	if _, err := s.stream.Write(data); err != nil {
		return sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	return nil
}

func (s *seekableStorage) BlockSize() int   { return sfs.BlockSize }
func (s *seekableStorage) TotalBlocks() int { return sfs.TotalBlocks }

// FileBlockEmulator is a BlockStorage backed by a regular file on the host
// filesystem.
type FileBlockEmulator struct {
	seekableStorage
	file *os.File
}

// OpenFileBlockEmulator opens path as the volume's backing file. When clear
// is true, the file is created fresh and zero-filled to exactly
// TotalBlocks*BlockSize bytes; otherwise it must already exist and be
// exactly that size.
func OpenFileBlockEmulator(path string, clear bool) (*FileBlockEmulator, error) {
	size := int64(sfs.TotalBlocks) * int64(sfs.BlockSize)

	if clear {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, sfs.WrapError(sfs.ErrInvalidArgument, err)
		}
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, sfs.WrapError(sfs.ErrInvalidArgument, err)
		}
		return &FileBlockEmulator{seekableStorage: seekableStorage{stream: f}, file: f}, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, sfs.WrapError(sfs.ErrInvalidArgument, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, sfs.WrapError(sfs.ErrInvalidArgument, err)
	}
	if info.Size() != size {
		f.Close()
		return nil, sfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("volume file must be exactly %d bytes, got %d", size, info.Size()))
	}
	return &FileBlockEmulator{seekableStorage: seekableStorage{stream: f}, file: f}, nil
}

// SyncDisk flushes the file to the host filesystem.
func (e *FileBlockEmulator) SyncDisk() error {
	if err := e.file.Sync(); err != nil {
		return sfs.WrapError(sfs.ErrInvalidBlock, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (e *FileBlockEmulator) Close() error {
	return e.file.Close()
}

// MemoryBlockStorage is a BlockStorage backed entirely by an in-memory byte
// slice, useful for tests that don't need a real file on disk.
type MemoryBlockStorage struct {
	seekableStorage
}

// NewMemoryBlockStorage returns a fresh, zero-filled in-memory volume of
// exactly TotalBlocks*BlockSize bytes.
func NewMemoryBlockStorage() *MemoryBlockStorage {
	buf := make([]byte, sfs.TotalBlocks*sfs.BlockSize)
	return &MemoryBlockStorage{seekableStorage{stream: bytesextra.NewReadWriteSeeker(buf)}}
}

// SyncDisk is a no-op for in-memory storage.
func (m *MemoryBlockStorage) SyncDisk() error {
	return nil
}
