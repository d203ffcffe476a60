package common

import (
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// DefaultMaxReadSize caps ReadFile when no explicit limit is given.
const DefaultMaxReadSize int64 = 10 * 1024 * 1024

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a regular file exists at path
func (fm *FileManager) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadFile reads at most maxSize bytes from path. A maxSize <= 0 uses DefaultMaxReadSize.
// Files larger than the limit are rejected rather than truncated.
func (fm *FileManager) ReadFile(path string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxReadSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, "failed to open file: "+path)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, WrapError(err, "failed to read file: "+path)
	}
	if int64(len(data)) > maxSize {
		return nil, NewValidationError("file_size", len(data), "file exceeds maximum size")
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read file")
	return data, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}
