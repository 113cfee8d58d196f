package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// WithLevel returns base filtered at the named level, falling back to info
// on an unknown name.
func WithLevel(base zerolog.Logger, name string) zerolog.Logger {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		base.Warn().Str("log_level", name).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	return base.Level(level)
}
