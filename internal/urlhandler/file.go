package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrFileNotFound = errors.New("input file not found")
	ErrFileEmpty    = errors.New("input file contains no URLs")
	ErrReadingFile  = errors.New("error reading input file")
)

// ReadURLsFromFile returns the non-empty lines of filePath, trimmed. Lines
// starting with '#' are comments. The URLs are returned as written; validation
// is left to the resolver so each bad line is reported individually.
func ReadURLsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrReadingFile, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	var urls []string
	lineNumber := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, filePath, err)
	}

	fileLogger.Debug().Int("lines", lineNumber).Int("urls", len(urls)).Msg("Read URL list")

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}
	return urls, nil
}
