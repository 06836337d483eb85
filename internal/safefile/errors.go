// Package safefile reads and replaces files without following symbolic
// links and without ever leaving a partially written file behind.
package safefile

import "errors"

var (
	// ErrInvalidFilePath indicates that the path cannot be used, for example
	// because it does not name a regular file.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrIsSymlink indicates that the path is a symbolic link.
	ErrIsSymlink = errors.New("path is a symbolic link")

	// ErrFileTooLarge indicates that the file exceeds the read limit.
	ErrFileTooLarge = errors.New("file too large")
)
