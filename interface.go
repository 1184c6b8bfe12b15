package asynclog

import "github.com/rs/zerolog"

// Logger is the logging surface of Service. Callers that only emit lines
// should depend on Logger rather than *Service.
type Logger interface {
	Logf(level Level, format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	// Flush wakes the writer so queued lines are persisted promptly.
	Flush()
	Level() Level
	SetLevel(level Level)
	IsOpen() bool
}

var (
	_ Logger              = (*Service)(nil)
	_ zerolog.LevelWriter = (*Service)(nil)
)
