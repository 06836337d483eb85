package safefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMaxFileSize is the read limit used when none is configured (128 MB).
const DefaultMaxFileSize = 128 * 1024 * 1024

const dirPerm = 0o755

// ReadFile reads a regular file in full and returns its content and
// permission bits. Symbolic links are refused, as are files larger than
// maxSize bytes; maxSize <= 0 selects DefaultMaxFileSize.
func ReadFile(path string, maxSize int64) (data []byte, perm os.FileMode, err error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}
	if noFollow == 0 {
		if err := refuseSymlink(absPath); err != nil {
			return nil, 0, err
		}
	}

	// #nosec G304 - absPath is cleaned above and opened with O_NOFOLLOW
	file, err := os.OpenFile(absPath, os.O_RDONLY|noFollow, 0)
	if err != nil {
		if isNoFollowError(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
		}
		return nil, 0, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", absPath, closeErr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get file info: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, absPath)
	}
	if info.Size() > maxSize {
		return nil, 0, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, absPath, info.Size(), maxSize)
	}

	data, err = io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	if int64(len(data)) > maxSize {
		return nil, 0, fmt.Errorf("%w: %s grew past limit %d", ErrFileTooLarge, absPath, maxSize)
	}
	return data, info.Mode().Perm(), nil
}

// WriteFileAtomic replaces path with data. The content goes to a temporary
// file in the same directory, is flushed to disk, given perm and renamed
// over path, so readers see either the old or the new file. Missing parent
// directories are created. An existing symbolic link at path is refused.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}
	if err := refuseSymlink(absPath); err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, absPath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", absPath, err)
	}
	return nil
}

func refuseSymlink(absPath string) error {
	fi, err := os.Lstat(absPath)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", absPath, err)
	case fi.Mode()&os.ModeSymlink != 0:
		return fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
	}
	return nil
}
