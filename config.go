package asynclog

// Config controls a Service. Zero-valued fields are replaced by the values of
// DefaultConfig when the service is initialized, except QueueCapacity: zero
// there selects synchronous mode.
type Config struct {
	// Level is the minimum severity written: debug, info, warn or error.
	Level string `json:"level" validate:"required,loglevel"`
	// Dir holds the dated log files. It is created if absent.
	Dir string `json:"dir" validate:"required"`
	// Suffix is appended to every file name, e.g. ".log" or "-api.log". It
	// must not contain a path separator.
	Suffix string `json:"suffix" validate:"required,excludes=/,excludes=\\"`
	// QueueCapacity bounds the number of formatted lines waiting for the
	// writer goroutine. Zero writes synchronously from the caller.
	QueueCapacity int `json:"queue_capacity" validate:"gte=0"`
	// MaxLinesPerFile triggers a same-day rotation to a "-N" file.
	MaxLinesPerFile int `json:"max_lines_per_file" validate:"gte=1"`
	// InitialBufferSize is the starting size of the format buffer.
	InitialBufferSize int `json:"initial_buffer_size" validate:"gte=64"`
	// MaxMessageBytes bounds the formatted message body; longer bodies are
	// truncated.
	MaxMessageBytes int `json:"max_message_bytes" validate:"gte=64"`

	// Size cap and retention for each dated file, enforced by lumberjack.
	LogFileMaxSizeMB  int  `json:"log_file_max_size_mb" validate:"gte=0"`
	LogFileMaxBackups int  `json:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int  `json:"log_file_max_age_days" validate:"gte=0"`
	LogFileCompress   bool `json:"log_file_compress"`

	// ConsoleLogging mirrors every persisted line to stderr.
	ConsoleLogging bool `json:"console_logging"`
	ConsoleNoColor bool `json:"console_no_color"`

	// WithCaller prefixes each message with the calling file and line.
	WithCaller bool `json:"with_caller"`

	// ShutdownTimeoutMS bounds how long Close waits for queued lines.
	ShutdownTimeoutMS      int  `json:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `json:"shutdown_timeout_warning"`
}

// DefaultConfig returns an asynchronous configuration writing info and above
// to ./log.
func DefaultConfig() Config {
	return Config{
		Level:                  InfoLevel.String(),
		Dir:                    defaultDir,
		Suffix:                 defaultSuffix,
		QueueCapacity:          defaultQueueCapacity,
		MaxLinesPerFile:        defaultMaxLinesPerFile,
		InitialBufferSize:      defaultBufferSize,
		MaxMessageBytes:        defaultMaxMessageBytes,
		LogFileMaxSizeMB:       defaultMaxSizeMB,
		ShutdownTimeoutMS:      defaultShutdownTimeoutMS,
		ShutdownTimeoutWarning: true,
	}
}

// withDefaults returns a copy of c with zero fields defaulted.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Level == emptyString {
		c.Level = d.Level
	}
	if c.Dir == emptyString {
		c.Dir = d.Dir
	}
	if c.Suffix == emptyString {
		c.Suffix = d.Suffix
	}
	if c.MaxLinesPerFile == 0 {
		c.MaxLinesPerFile = d.MaxLinesPerFile
	}
	if c.InitialBufferSize == 0 {
		c.InitialBufferSize = d.InitialBufferSize
	}
	if c.MaxMessageBytes == 0 {
		c.MaxMessageBytes = d.MaxMessageBytes
	}
	if c.LogFileMaxSizeMB == 0 {
		c.LogFileMaxSizeMB = d.LogFileMaxSizeMB
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = d.ShutdownTimeoutMS
	}
	return c
}
