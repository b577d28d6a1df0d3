package sfs

import (
	"fmt"
	"syscall"
)

// DriverError is the error type returned by every fallible operation in this
// package. It wraps a POSIX errno so the bridge boundary can translate it to
// a host error code, alongside an optional message giving context.
type DriverError interface {
	error
	// WithMessage returns a copy of the error with additional context appended
	// to its message.
	WithMessage(message string) DriverError
	// Errno returns the underlying POSIX error code for this error.
	Errno() syscall.Errno
	Unwrap() error
}

type sentinelError struct {
	errno   syscall.Errno
	message string
	wrapped error
}

func newSentinel(errno syscall.Errno, message string) sentinelError {
	return sentinelError{errno: errno, message: message}
}

func (e sentinelError) Error() string {
	if e.message == "" {
		return e.errno.Error()
	}
	return fmt.Sprintf("%s: %s", e.errno.Error(), e.message)
}

func (e sentinelError) Errno() syscall.Errno {
	return e.errno
}

func (e sentinelError) Unwrap() error {
	return e.wrapped
}

func (e sentinelError) WithMessage(message string) DriverError {
	if e.message != "" {
		message = fmt.Sprintf("%s: %s", e.message, message)
	}
	return sentinelError{errno: e.errno, message: message, wrapped: e.wrapped}
}

// WrapError attaches an underlying error (e.g. a storage I/O failure) to a
// sentinel, preserving errors.Is/errors.As compatibility via Unwrap.
func WrapError(kind DriverError, err error) DriverError {
	base := kind.(sentinelError)
	return sentinelError{
		errno:   base.errno,
		message: err.Error(),
		wrapped: err,
	}
}

// Error taxonomy.
var (
	// ErrInvalidArgument is returned for malformed input: a path not starting
	// with "/", a missing intermediate path component, or a name containing
	// reserved characters.
	ErrInvalidArgument DriverError = newSentinel(syscall.EINVAL, "")
	// ErrDoesNotExist is returned when a path refers to an absent entity and
	// the open mode disallows creation.
	ErrDoesNotExist DriverError = newSentinel(syscall.ENOENT, "")
	// ErrInvalidBlock is returned for an underlying I/O failure, or a parse
	// failure such as a bad superblock magic or a short read.
	ErrInvalidBlock DriverError = newSentinel(syscall.EIO, "")
	// ErrOutOfSpace is returned when the inode or data-block bitmap is
	// exhausted.
	ErrOutOfSpace DriverError = newSentinel(syscall.ENOSPC, "")
	// ErrUnimplemented is returned by handlers this core does not service.
	ErrUnimplemented DriverError = newSentinel(syscall.ENOSYS, "")
)
