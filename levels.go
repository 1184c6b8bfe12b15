package asynclog

import (
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// Level is the severity of a log line. Values line up with zerolog's so the
// two convert without a table.
type Level int8

const (
	DebugLevel = Level(zerolog.DebugLevel)
	InfoLevel  = Level(zerolog.InfoLevel)
	WarnLevel  = Level(zerolog.WarnLevel)
	ErrorLevel = Level(zerolog.ErrorLevel)
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// tag is the bracketed form written into every line.
func (l Level) tag() string {
	switch l {
	case DebugLevel:
		return "[debug]"
	case InfoLevel:
		return "[info]"
	case WarnLevel:
		return "[warn]"
	default:
		return "[error]"
	}
}

// ParseLevel parses one of "debug", "info", "warn" or "error"
// (case-insensitive).
func ParseLevel(level string) (Level, error) {
	const op errors.Op = "asynclog.ParseLevel"
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return InfoLevel, errors.New(op).Err(err).Msg(errMsgInvalidLevel)
	}
	switch l {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return Level(l), nil
	default:
		return InfoLevel, errors.New(op).Msg(errMsgInvalidLevel)
	}
}

// levelFromZerolog folds zerolog's wider level range onto the four levels.
func levelFromZerolog(l zerolog.Level) Level {
	switch {
	case l == zerolog.NoLevel || l == zerolog.Disabled:
		return InfoLevel
	case l <= zerolog.DebugLevel:
		return DebugLevel
	case l >= zerolog.ErrorLevel:
		return ErrorLevel
	default:
		return Level(l)
	}
}
