package sfs

import (
	"strings"
)

// Open resolves path against the filesystem's directory tree and returns
// the inode number of the final component.
func (fs *Filesystem) Open(path string, mode OpenMode) (int, error) {
	if path == "" || path[0] != '/' {
		return 0, ErrInvalidArgument.WithMessage("path must begin with '/'")
	}

	switch mode {
	case ModeWriteOnly, ModeReadWrite, ModeDirectory:
		return 0, ErrUnimplemented
	case ModeReadOnly, ModeCreate:
		// handled below
	default:
		return 0, ErrUnimplemented
	}

	components := splitPath(path)
	inum := RootInodeNumber
	if len(components) == 0 {
		return inum, nil
	}

	for i, name := range components {
		isLast := i == len(components)-1

		entries, err := fs.readDir(inum)
		if err != nil {
			return 0, err
		}

		found, ok := entries[name]
		if ok {
			inum = found
			continue
		}

		if !isLast {
			return 0, ErrInvalidArgument.WithMessage(
				"missing subdirectory component: " + name)
		}

		switch mode {
		case ModeReadOnly:
			return 0, ErrDoesNotExist
		case ModeCreate:
			if invalidName(name) {
				return 0, invalidNameError(name)
			}
			newInum, err := fs.allocateInode(newDefaultFile())
			if err != nil {
				return 0, err
			}
			entries[name] = newInum
			if err := fs.writeDir(inum, entries); err != nil {
				return 0, err
			}
			return newInum, nil
		}
	}

	return inum, nil
}

// splitPath tokenizes an absolute path into its non-empty components.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
