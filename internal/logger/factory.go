package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterStrategy wraps a raw output with a log encoding
type WriterStrategy interface {
	CreateWriter(output io.Writer) io.Writer
}

// JSONWriterStrategy writes zerolog's native JSON lines
type JSONWriterStrategy struct{}

func (JSONWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return output
}

// ConsoleWriterStrategy writes human-readable lines
type ConsoleWriterStrategy struct {
	NoColor bool
}

func (s ConsoleWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
		NoColor:    s.NoColor,
	}
}

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies map[LogFormat]WriterStrategy
}

// NewWriterFactory creates a new writer factory
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    JSONWriterStrategy{},
			FormatConsole: ConsoleWriterStrategy{},
			FormatText:    ConsoleWriterStrategy{NoColor: true},
		},
	}
}

func (wf *WriterFactory) strategy(format LogFormat) WriterStrategy {
	if s, ok := wf.strategies[format]; ok {
		return s
	}
	return ConsoleWriterStrategy{}
}

// CreateConsoleWriter wraps out (stderr when nil) with the format's encoding
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat, out io.Writer) io.Writer {
	if out == nil {
		out = os.Stderr
	}
	return wf.strategy(format).CreateWriter(out)
}

// CreateFileWriter creates a rotating file writer. Console output is never colored in files.
func (wf *WriterFactory) CreateFileWriter(cfg LoggerConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	if cfg.Format == FormatConsole {
		return ConsoleWriterStrategy{NoColor: true}.CreateWriter(rotator), nil
	}
	return wf.strategy(cfg.Format).CreateWriter(rotator), nil
}
