package aspectlog

const (
	// EnvPrefix is the prefix for environment overrides read by LoadConfig.
	EnvPrefix = "ASPECTLOG"

	emptyString = ""
)

const (
	defaultLevel             = "info"
	defaultLogDir            = "logs"
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAgeDays = 7
	defaultLogFileMaxSizeMB  = 10
	defaultShutdownTimeoutMS = 100
)

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgNilService    = "Logger service is nil."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgConfigRead    = "Logging configuration file could not be read."
	errMsgConfigDecode  = "Logging configuration file could not be decoded."
	errMsgConfigEnv     = "Logging environment overrides are invalid."
	errMsgNoChannels    = "No logging channels enabled."
	errMsgWriters       = "Logging writers could not be created."
	errMsgLogDirUnsafe  = "LogDir must be a relative path inside the working directory."
	errMsgNilLogger     = "Interceptor logger is nil."
)

// Message layouts used by the interceptor's observation points.
const (
	msgBeforeCall  = "Calling method: %s with args: %s"
	msgAfterReturn = "Method: %s executed successfully with result: %s"
	msgAfterError  = "Exception in method: %s - %s"
	msgTiming      = "Method: %s executed in %d ms"
)
