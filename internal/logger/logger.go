package logger

import (
	"github.com/aleister1102/urlist/internal/config"
	"github.com/rs/zerolog"
)

// New builds the root application logger from cfg
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
