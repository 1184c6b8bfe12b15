package asynclog

const (
	// ServiceName is the DI/service locator name for the logging service.
	ServiceName = "asynclog"
	emptyString = ""
)

const (
	defaultDir               = "./log"
	defaultSuffix            = ".log"
	defaultQueueCapacity     = 1024
	defaultMaxLinesPerFile   = 50000
	defaultBufferSize        = 1024
	defaultMaxMessageBytes   = 8192
	defaultMaxSizeMB         = 100
	defaultShutdownTimeoutMS = 5000

	timestampLayout = "2006-01-02 15:04:05.000000"
	dayLayout       = "2006_01_02"
	truncatedMarker = "..."
)

const (
	errMsgNilConfig       = "Logging config is nil."
	errMsgNilService      = "Logger service is nil."
	errMsgConfigInvalid   = "Logging configuration is invalid."
	errMsgInvalidLevel    = "Log level must be one of debug, info, warn or error."
	errMsgCreateDir       = "Failed to create log directory."
	errMsgOpenFile        = "Failed to open log file."
	errMsgReopenThrottled = "Log file is unavailable; reopen attempt deferred."
	errMsgWriteFile       = "Failed to write log file."
	errMsgCloseFile       = "Failed to close log file."
	errMsgQueue           = "Failed to create log queue."
	errMsgReinitialize    = "Failed to close logger before re-initializing."
)
