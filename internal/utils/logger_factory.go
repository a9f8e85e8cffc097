package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelErrorTemplateConstant  = "unsupported log level %q"
	unsupportedLogFormatErrorTemplateConstant = "unsupported log format %q"
	logTimestampFieldNameConstant             = "timestamp"
	logLevelFieldNameConstant                 = "level"
	logMessageFieldNameConstant               = "message"
)

// LogLevel enumerates supported logging verbosity levels.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

// LoggerOutputs bundles the diagnostic logger with the console logger used
// for human-facing event messages.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactory constructs zap loggers for the requested level and format.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory instance.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLoggerOutputs builds logger outputs for the requested level and
// format. The structured format emits JSON diagnostics and keeps the console
// logger silent; the console format emits human-readable diagnostics and a
// bare-message console logger. Both write to standard error so command output
// on standard output stays clean.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	zapLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return LoggerOutputs{}, levelError
	}

	syncer := zapcore.Lock(os.Stderr)

	switch requestedLogFormat {
	case LogFormatStructured:
		diagnosticCore := zapcore.NewCore(zapcore.NewJSONEncoder(structuredEncoderConfiguration()), syncer, zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.NewNop(),
		}, nil
	case LogFormatConsole:
		diagnosticCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfiguration()), syncer, zapLevel)
		consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(messageOnlyEncoderConfiguration()), syncer, zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.New(consoleCore),
		}, nil
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatErrorTemplateConstant, string(requestedLogFormat))
	}
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelErrorTemplateConstant, string(requestedLogLevel))
	}
}

func structuredEncoderConfiguration() zapcore.EncoderConfig {
	configuration := zap.NewProductionEncoderConfig()
	configuration.TimeKey = logTimestampFieldNameConstant
	configuration.LevelKey = logLevelFieldNameConstant
	configuration.MessageKey = logMessageFieldNameConstant
	configuration.EncodeTime = zapcore.ISO8601TimeEncoder
	return configuration
}

func consoleEncoderConfiguration() zapcore.EncoderConfig {
	configuration := zap.NewDevelopmentEncoderConfig()
	configuration.EncodeLevel = zapcore.CapitalLevelEncoder
	return configuration
}

func messageOnlyEncoderConfiguration() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:  logMessageFieldNameConstant,
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.CapitalLevelEncoder,
	}
}
