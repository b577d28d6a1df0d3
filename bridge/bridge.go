// Package bridge exposes a Filesystem through a userspace-bridge handler
// contract. It is modeled on the low-level, inode-number-addressed FUSE
// raw-operations style — Init/GetAttr(ino)/ReadDir(ino, offset) — leaving
// the actual binding library out of this core's scope.
package bridge

import (
	"syscall"
	"time"

	"github.com/sfslab/sfs"
)

// EntryType mirrors the minimal set of directory-entry types this core's
// fixed readdir response needs to express.
type EntryType int

const (
	// TypeDirectory marks a directory entry.
	TypeDirectory EntryType = iota
)

// DirEntry is one entry yielded by ReadDir.
type DirEntry struct {
	Inode  uint64
	Offset uint64
	Type   EntryType
	Name   string
}

// Attr is the minimal attribute set GetAttr returns.
type Attr struct {
	Inode uint64
	Mode  uint32
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
	IsDir bool
}

// Handlers is the consumed surface of the userspace-filesystem binding
// layer. It holds only Init, GetAttr and ReadDir; no other handler method
// is defined here. Errno maps ErrUnimplemented to a host ENOSYS.
type Handlers interface {
	Init() error
	GetAttr(ino uint64) (Attr, error)
	ReadDir(ino uint64, offset uint64) ([]DirEntry, error)
}

// Adapter implements Handlers by wrapping a mounted *sfs.Filesystem. The
// bridge's 1-based-to-0-based inode translation (coreInode) lives at this
// boundary only; the core itself is entirely 0-based. GetAttr and ReadDir
// return fixed results and do not consult the core's inode table.
type Adapter struct {
	fs *sfs.Filesystem
}

// New wraps fs in a bridge Adapter.
func New(fs *sfs.Filesystem) *Adapter {
	return &Adapter{fs: fs}
}

// Init always succeeds; the core has no per-mount setup beyond what
// sfs.Create/sfs.FromBlockStorage already performed.
func (a *Adapter) Init() error {
	return nil
}

// coreInode translates a bridge-visible, 1-based inode number to the
// core's 0-based inode number.
func coreInode(ino uint64) int {
	return int(ino) - 1
}

// GetAttr returns directory-type attributes with zeroed timestamps, the
// current minimal behavior; a full implementation would derive these from
// the inode record at coreInode(ino).
func (a *Adapter) GetAttr(ino uint64) (Attr, error) {
	return Attr{
		Inode: ino,
		Mode:  sfs.RootDirectoryMode,
		IsDir: true,
	}, nil
}

// ReadDir implements a fixed minimal behavior: offset 0 yields "." and
// ".." (both pointing at inode 1, the bridge's 1-based root), and any
// offset >= 2 yields nothing further.
func (a *Adapter) ReadDir(ino uint64, offset uint64) ([]DirEntry, error) {
	if offset != 0 {
		return nil, nil
	}
	return []DirEntry{
		{Inode: 1, Offset: 1, Type: TypeDirectory, Name: "."},
		{Inode: 1, Offset: 2, Type: TypeDirectory, Name: ".."},
	}, nil
}

// Errno maps a core error to the host error code the bridge must surface
// at its boundary, e.g. DoesNotExist -> ENOENT.
func Errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	if driverErr, ok := err.(sfs.DriverError); ok {
		return driverErr.Errno()
	}
	return syscall.EIO
}
