// Package logtrace provides logging utilities for the commitproof tools.
// It integrates with zerolog for structured logging.
package logtrace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tansive/commitproof/internal/common/apperrors"
)

// InitLogger initializes the global logger with Unix millisecond timestamps on stderr.
func InitLogger() {
	InitLoggerTo(os.Stderr, zerolog.InfoLevel)
}

// InitLoggerTo points the global logger at w with the given minimum level.
func InitLoggerTo(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ErrUnknownLevel is returned by ParseLevel for names outside Levels.
var ErrUnknownLevel = apperrors.ErrInvalidInput.New("unknown log level")

// Levels are the accepted level names, the same set config validation allows.
var Levels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// ParseLevel maps a level name to a zerolog level. An empty name means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	l, ok := Levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return zerolog.InfoLevel, ErrUnknownLevel.Msg(fmt.Sprintf("unknown log level %q, expected one of trace, debug, info, warn, error", s))
	}
	return l, nil
}
