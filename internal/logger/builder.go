package logger

import (
	"errors"
	"io"
	stdlog "log"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/aleister1102/urlist/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config        LoggerConfig
	factory       *WriterFactory
	consoleOutput io.Writer
	redirectStd   bool
	err           error
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:      DefaultLoggerConfig(),
		factory:     NewWriterFactory(),
		redirectStd: true,
	}
}

// WithConfig applies the application log configuration
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		lb.err = err
	}

	lb.config.Level = level
	lb.config.Format = ParseFormat(cfg.LogFormat)
	lb.config.EnableFile = cfg.LogFile != ""
	lb.config.FilePath = cfg.LogFile
	if cfg.MaxLogSizeMB > 0 {
		lb.config.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		lb.config.MaxBackups = cfg.MaxLogBackups
	}
	return lb
}

// WithConsoleOutput replaces stderr as the console destination
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.consoleOutput = w
	return lb
}

// WithoutStdLogRedirect leaves the standard log package untouched
func (lb *LoggerBuilder) WithoutStdLogRedirect() *LoggerBuilder {
	lb.redirectStd = false
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.err != nil {
		return zerolog.Nop(), lb.err
	}
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return zerolog.Nop(), common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}

	var writers []io.Writer
	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format, lb.consoleOutput))
	}
	if lb.config.EnableFile {
		fileWriter, err := lb.factory.CreateFileWriter(lb.config)
		if err != nil {
			return zerolog.Nop(), common.WrapError(err, "failed to create log file writer")
		}
		writers = append(writers, fileWriter)
	}
	if len(writers) == 0 {
		return zerolog.Nop(), errors.New("no output writers configured")
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	if lb.redirectStd {
		stdlog.SetOutput(logger)
		stdlog.SetFlags(0)
	}

	return logger, nil
}
