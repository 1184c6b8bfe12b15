package asynclog

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// initializeRollingFileLogger builds the writer shared by every dated file.
// The sink sets Filename on each rotation.
func (s *Service) initializeRollingFileLogger(cfg *Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:    cfg.LogFileMaxSizeMB,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAgeDays,
		Compress:   cfg.LogFileCompress,
		LocalTime:  true,
	}
}

// consoleWriter mirrors persisted lines to a terminal, colouring them by
// level when the terminal supports it.
type consoleWriter struct {
	out   io.Writer
	color bool
}

const colorReset = "\x1b[0m"

var levelColors = map[Level]string{
	DebugLevel: "\x1b[90m",
	InfoLevel:  "\x1b[32m",
	WarnLevel:  "\x1b[33m",
	ErrorLevel: "\x1b[31m",
}

// newConsoleWriter writes to out, or to stderr when out is nil. Colour is
// only used on a stderr terminal.
func newConsoleWriter(out io.Writer, noColor bool) *consoleWriter {
	if out != nil {
		return &consoleWriter{out: out}
	}
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &consoleWriter{
		out:   colorable.NewColorable(os.Stderr),
		color: tty && !noColor,
	}
}

func (c *consoleWriter) write(level Level, line []byte) {
	if !c.color {
		_, _ = c.out.Write(line)
		return
	}
	_, _ = io.WriteString(c.out, levelColors[level])
	_, _ = c.out.Write(line[:len(line)-1])
	_, _ = io.WriteString(c.out, colorReset+"\n")
}

// initializeDiagnostics builds the logger the service uses to report its own
// failures. It never writes into the managed log files.
func (s *Service) initializeDiagnostics() zerolog.Logger {
	out := s.diagOut
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		With().
		Timestamp().
		Str("component", ServiceName).
		Logger()
}
