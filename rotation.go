package asynclog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Station-Manager/errors"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

// fileSink owns the current log file and decides when to rotate it. It is
// not safe for concurrent use: in asynchronous mode only the writer
// goroutine touches it, in synchronous mode callers hold Service.mu.
//
// One lumberjack.Logger serves every file of the sink. Rotation closes it
// and points it at the next path, so its mill goroutine is started once.
type fileSink struct {
	dir      string
	suffix   string
	maxLines int

	file   *lumberjack.Logger
	reopen *rate.Limiter

	day    string
	seq    int
	lines  int
	path   string
	opened bool
	failed bool
}

func newFileSink(cfg *Config, file *lumberjack.Logger) *fileSink {
	return &fileSink{
		dir:      cfg.Dir,
		suffix:   cfg.Suffix,
		maxLines: cfg.MaxLinesPerFile,
		file:     file,
		reopen:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// filename is {dir}/{day}{suffix} for the first file of a day and
// {dir}/{day}-{seq}{suffix} for overflow files.
func (f *fileSink) filename(day string, seq int) string {
	if seq == 0 {
		return filepath.Join(f.dir, day+f.suffix)
	}
	return filepath.Join(f.dir, fmt.Sprintf("%s-%d%s", day, seq, f.suffix))
}

// open opens the first file for the day of at.
func (f *fileSink) open(at time.Time) error {
	return f.rotate(at.Format(dayLayout))
}

// write appends one newline-terminated line, rotating first when no file is
// open, the line belongs to a later day, or the current file is full. It
// reports whether a rotation took place.
//
// Days only move forward: a line stamped before the current day, which
// producers racing across midnight can hand over late, goes to the current
// file.
func (f *fileSink) write(at time.Time, line []byte) (bool, error) {
	const op errors.Op = "asynclog.fileSink.write"

	rotated := false
	day := at.Format(dayLayout)
	if day < f.day {
		day = f.day
	}
	if !f.opened || day != f.day || f.lines >= f.maxLines {
		if err := f.rotate(day); err != nil {
			return false, err
		}
		rotated = true
	}

	if _, err := f.file.Write(line); err != nil {
		// Drop the handle so the next line reopens the file.
		_ = f.file.Close()
		f.opened = false
		f.failed = true
		return rotated, errors.New(op).Err(err).Msg(errMsgWriteFile)
	}
	f.lines++
	return rotated, nil
}

func (f *fileSink) rotate(day string) error {
	const op errors.Op = "asynclog.fileSink.rotate"

	if f.failed && !f.reopen.Allow() {
		return errors.New(op).Msg(errMsgReopenThrottled)
	}

	switch {
	case day != f.day:
		f.seq = 0
	case f.lines >= f.maxLines:
		f.seq++
	}

	if f.opened {
		_ = f.file.Close()
		f.opened = false
	}
	f.day = day
	f.lines = 0

	path := f.filename(day, f.seq)
	if err := touch(path); err != nil {
		f.failed = true
		return errors.New(op).Err(err).Msg(errMsgOpenFile)
	}
	f.failed = false
	f.file.Filename = path
	f.path = path
	f.opened = true
	return nil
}

// touch creates path (and its directory) so open failures surface at
// rotation time rather than on the first write.
func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	return fh.Close()
}

func (f *fileSink) close() error {
	const op errors.Op = "asynclog.fileSink.close"
	if f == nil || !f.opened {
		return nil
	}
	err := f.file.Close()
	f.opened = false
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgCloseFile)
	}
	return nil
}
