package asynclog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Station-Manager/asynclog/blockqueue"
	"github.com/Station-Manager/asynclog/buffer"
	"github.com/Station-Manager/errors"
	"github.com/go-stack/stack"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// Service formats log lines and persists them to dated, rotating files.
//
// With a positive QueueCapacity lines are handed to a bounded queue drained
// by one writer goroutine; a full queue blocks the caller. With a zero
// capacity the caller writes the file directly.
type Service struct {
	Config *Config

	// lifecycle is held for reading by every log call and for writing by
	// Initialize and Close.
	lifecycle sync.RWMutex

	// mu serialises formatting and guards level, buf and scratch. In
	// synchronous mode it also guards sink and console.
	mu         sync.Mutex
	level      Level
	buf        *buffer.Buffer
	scratch    []byte
	maxMessage int
	withCaller bool

	queue      *blockqueue.Queue[record]
	writerDone chan struct{}
	sink       *fileSink
	console    *consoleWriter

	shutdownTimeout time.Duration
	shutdownWarning bool

	diag       zerolog.Logger
	diagOut    io.Writer
	consoleOut io.Writer
	diagLimit  *rate.Limiter
	now        func() time.Time

	initialized atomic.Bool
	degraded    atomic.Bool

	accepted  atomic.Int64
	written   atomic.Int64
	dropped   atomic.Int64
	rotations atomic.Int64
}

// record is one formatted line travelling from a producer to the writer.
// at is the format time and selects the file the line lands in.
type record struct {
	at    time.Time
	level Level
	line  string
}

// Stats is a snapshot of the service counters.
type Stats struct {
	Accepted  int64 // lines that passed the level gate
	Written   int64 // lines persisted to a file
	Dropped   int64 // lines lost to I/O failure or a shutdown timeout
	Rotations int64 // files opened
	Queued    int   // lines waiting for the writer
}

func NewLogger() *Service {
	return &Service{}
}

// Initialize validates Config, opens today's log file and, in asynchronous
// mode, starts the writer goroutine. Calling it on an initialized service
// closes the previous file and writer first.
func (s *Service) Initialize() error {
	const op errors.Op = "asynclog.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.Config == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}
	if s.initialized.Load() {
		if err := s.Close(); err != nil {
			return errors.New(op).Err(err).Msg(errMsgReinitialize)
		}
	}

	cfg := s.Config.withDefaults()
	if err := validateConfig(&cfg); err != nil {
		return err
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return errors.New(op).Err(err).Msg(errMsgCreateDir)
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.now == nil {
		s.now = time.Now
	}
	s.diag = s.initializeDiagnostics()
	s.diagLimit = rate.NewLimiter(rate.Every(time.Second), 5)

	sink := newFileSink(&cfg, s.initializeRollingFileLogger(&cfg))
	if err = sink.open(s.now()); err != nil {
		return errors.New(op).Err(err).Msg(errMsgOpenFile)
	}
	s.rotations.Inc()

	s.mu.Lock()
	s.level = level
	s.buf = buffer.New(cfg.InitialBufferSize)
	s.scratch = make([]byte, 0, 256)
	s.maxMessage = cfg.MaxMessageBytes
	s.withCaller = cfg.WithCaller
	s.sink = sink
	s.console = nil
	if cfg.ConsoleLogging {
		s.console = newConsoleWriter(s.consoleOut, cfg.ConsoleNoColor)
	}
	s.mu.Unlock()

	s.shutdownTimeout = time.Duration(cfg.ShutdownTimeoutMS) * time.Millisecond
	s.shutdownWarning = cfg.ShutdownTimeoutWarning
	s.degraded.Store(false)

	s.queue = nil
	if cfg.QueueCapacity > 0 {
		q, qErr := blockqueue.New[record](cfg.QueueCapacity)
		if qErr != nil {
			_ = sink.close()
			return errors.New(op).Err(qErr).Msg(errMsgQueue)
		}
		s.queue = q
		s.writerDone = make(chan struct{})
		go s.writeLoop(q, s.writerDone)
	}

	s.initialized.Store(true)
	return nil
}

// Init is the positional form of Initialize: it sets the level, directory,
// suffix and queue capacity on Config (creating a default Config if none is
// set) and initializes the service.
func (s *Service) Init(level Level, dir, suffix string, queueCapacity int) error {
	const op errors.Op = "asynclog.Service.Init"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.Config == nil {
		cfg := DefaultConfig()
		s.Config = &cfg
	}
	s.Config.Level = level.String()
	s.Config.Dir = dir
	s.Config.Suffix = suffix
	s.Config.QueueCapacity = queueCapacity
	return s.Initialize()
}

// Close stops accepting lines, lets the writer drain the queue and closes
// the current file. If the writer does not finish within the shutdown
// timeout the remaining lines are discarded. It is safe to call Close
// multiple times.
func (s *Service) Close() error {
	const op errors.Op = "asynclog.Service.Close"
	if s == nil || !s.initialized.CompareAndSwap(true, false) {
		return nil
	}

	// Waits for in-flight log calls, which hold the read lock.
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if q := s.queue; q != nil {
		q.Drain()
		select {
		case <-s.writerDone:
		case <-time.After(s.shutdownTimeout):
			pending := q.Len()
			if s.shutdownWarning {
				s.diag.Warn().
					Int("pending_lines", pending).
					Dur("timeout", s.shutdownTimeout).
					Msg("Logger shutdown timeout exceeded")
			}
			q.Close()
			<-s.writerDone
			// Every accepted line that was not written is now lost.
			s.dropped.Store(s.accepted.Load() - s.written.Load())
		}
		s.queue = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded.Store(false)
	if err := s.sink.close(); err != nil {
		return errors.New(op).Err(err).Msg(errMsgCloseFile)
	}
	return nil
}

// writeLoop is the single consumer of q. It exits once q is closed and
// empty, and never on I/O errors.
func (s *Service) writeLoop(q *blockqueue.Queue[record], done chan struct{}) {
	defer close(done)
	for {
		rec, ok := q.Pop()
		if !ok {
			return
		}
		s.persist(rec.at, rec.level, []byte(rec.line))
	}
}

// persist writes one line through the sink. Only the sink owner calls it:
// the writer goroutine, or a caller holding s.mu in synchronous mode.
func (s *Service) persist(at time.Time, level Level, line []byte) {
	if s.console != nil {
		s.console.write(level, line)
	}

	rotated, err := s.sink.write(at, line)
	if rotated {
		s.rotations.Inc()
	}
	if err != nil {
		s.dropped.Inc()
		s.degraded.Store(true)
		s.reportError("Log line dropped", err)
		return
	}
	s.degraded.Store(false)
	s.written.Inc()
}

// log is the single entry point of every logging method. The level gate runs
// before any formatting work.
func (s *Service) log(level Level, emit func([]byte) []byte) {
	if s == nil || !s.initialized.Load() {
		return
	}
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if !s.initialized.Load() {
		return
	}

	s.mu.Lock()
	if level < s.level {
		s.mu.Unlock()
		return
	}

	var caller string
	if s.withCaller {
		caller = fmt.Sprintf("%v", stack.Caller(callerSkip))
	}
	at := s.now()
	s.formatLine(at, level, caller, emit)
	s.accepted.Inc()

	if s.queue == nil {
		s.persist(at, level, s.buf.Peek())
		s.buf.RetrieveAll()
		s.mu.Unlock()
		return
	}

	rec := record{at: at, level: level, line: s.buf.RetrieveAllString()}
	s.mu.Unlock()

	// Blocks while the queue is full.
	if err := s.queue.PushBack(rec); err != nil {
		s.dropped.Inc()
	}
}

// callerSkip is the stack depth from log to the user's call site:
// log <- exported method <- caller.
const callerSkip = 2

// Logf writes a printf-formatted line at level.
func (s *Service) Logf(level Level, format string, args ...interface{}) {
	s.log(level, func(dst []byte) []byte { return fmt.Appendf(dst, format, args...) })
}

func (s *Service) Debugf(format string, args ...interface{}) {
	s.log(DebugLevel, func(dst []byte) []byte { return fmt.Appendf(dst, format, args...) })
}

func (s *Service) Infof(format string, args ...interface{}) {
	s.log(InfoLevel, func(dst []byte) []byte { return fmt.Appendf(dst, format, args...) })
}

func (s *Service) Warnf(format string, args ...interface{}) {
	s.log(WarnLevel, func(dst []byte) []byte { return fmt.Appendf(dst, format, args...) })
}

func (s *Service) Errorf(format string, args ...interface{}) {
	s.log(ErrorLevel, func(dst []byte) []byte { return fmt.Appendf(dst, format, args...) })
}

func (s *Service) Debug(args ...interface{}) {
	s.log(DebugLevel, func(dst []byte) []byte { return fmt.Append(dst, args...) })
}

func (s *Service) Info(args ...interface{}) {
	s.log(InfoLevel, func(dst []byte) []byte { return fmt.Append(dst, args...) })
}

func (s *Service) Warn(args ...interface{}) {
	s.log(WarnLevel, func(dst []byte) []byte { return fmt.Append(dst, args...) })
}

func (s *Service) Error(args ...interface{}) {
	s.log(ErrorLevel, func(dst []byte) []byte { return fmt.Append(dst, args...) })
}

// Write implements io.Writer. Each call becomes one info line.
func (s *Service) Write(p []byte) (int, error) {
	s.log(InfoLevel, func(dst []byte) []byte { return append(dst, bytes.TrimRight(p, "\n")...) })
	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter, so a zerolog.Logger can use the
// service as its output: zerolog.New(svc).
func (s *Service) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	s.log(levelFromZerolog(level), func(dst []byte) []byte { return append(dst, bytes.TrimRight(p, "\n")...) })
	return len(p), nil
}

// Flush wakes the writer goroutine. Synchronous writes are unbuffered, so
// there is nothing to do in that mode.
func (s *Service) Flush() {
	if s == nil || !s.initialized.Load() {
		return
	}
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if s.queue != nil {
		s.queue.Flush()
	}
}

func (s *Service) Level() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Service) SetLevel(level Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// IsOpen reports whether the service is initialized and its log file is
// writable. Lines logged while it is false are dropped.
func (s *Service) IsOpen() bool {
	return s != nil && s.initialized.Load() && !s.degraded.Load()
}

func (s *Service) Stats() Stats {
	st := Stats{
		Accepted:  s.accepted.Load(),
		Written:   s.written.Load(),
		Dropped:   s.dropped.Load(),
		Rotations: s.rotations.Load(),
	}
	s.lifecycle.RLock()
	if s.queue != nil {
		st.Queued = s.queue.Len()
	}
	s.lifecycle.RUnlock()
	return st
}
