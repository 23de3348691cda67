// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is wrapped by NotFoundError.
	ErrNotFound = errors.New("root not found")
	// ErrNotADirectory is wrapped by NotADirectoryError.
	ErrNotADirectory = errors.New("root is not a directory")
	// ErrRead is wrapped by ReadError.
	ErrRead = errors.New("read failed")
	// ErrWrite is wrapped by WriteError and PassError.
	ErrWrite = errors.New("write failed")

	errSymlinkDir = errors.New("symbolic link to a directory is not supported")
)

type (
	// NotFoundError is returned when the root does not exist.
	NotFoundError struct {
		Path string
	}

	// NotADirectoryError is returned when the root exists but is not a directory.
	NotADirectoryError struct {
		Path string
	}

	// ReadError is returned when listing or stat-ing any path of the tree
	// fails, including permission-denied directories and symlinks that cannot
	// be traversed. It aborts the pass before any artifact is written.
	ReadError struct {
		Path string
		Err  error
	}

	// WriteError is returned when an artifact cannot be written.
	WriteError struct {
		Path string
		Err  error
	}

	// PassError collects every WriteError of a pass. The pass attempted all
	// directories before returning it.
	PassError struct {
		Failures []*WriteError
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("root %q not found", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("root %q is not a directory", e.Path)
}

// Unwrap returns ErrNotADirectory for errors.Is.
func (e *NotADirectoryError) Unwrap() error { return ErrNotADirectory }

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrRead and the underlying cause, so errors.Is matches
// either (e.g. fs.ErrPermission).
func (e *ReadError) Unwrap() []error { return []error{ErrRead, e.Err} }

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrWrite and the underlying cause.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

func (e *PassError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d artifacts could not be written:", len(e.Failures))
	for _, f := range e.Failures {
		sb.WriteString("\n  ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap returns the individual failures.
func (e *PassError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
