package logger

import (
	"strings"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/rs/zerolog"
)

// ParseLevel parses a config log level. Empty maps to info.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if strings.TrimSpace(levelStr) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat parses a config log format, defaulting to console
func ParseFormat(formatStr string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(formatStr)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}
