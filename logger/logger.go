package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"farmeradmin/config"
	"farmeradmin/utils"
)

type LogLevel int32

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetLevel(level LogLevel)
	GetLevel() LogLevel
	Sync() error
}

type logger struct {
	level atomic.Int32
	sugar *zap.SugaredLogger
}

// New builds a zap-backed logger. Console output goes to stderr so command
// output on stdout stays machine readable. Development environments always
// log to the console; the optional file sink is appended to.
func New(cfg *config.LoggingConfig, environment string) (Logger, error) {
	outputs, err := outputPaths(cfg, environment)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoding := "json"
	if strings.ToLower(cfg.Format) != "json" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoding = "console"
	}
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}

	base, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return newWithCore(base.Core(), ParseLogLevel(cfg.Level)), nil
}

func outputPaths(cfg *config.LoggingConfig, environment string) ([]string, error) {
	var outputs []string
	if environment == "development" || cfg.File == "" {
		outputs = append(outputs, "stderr")
	}

	if cfg.File != "" {
		logFile, err := utils.ExpandHome(cfg.File)
		if err != nil {
			return nil, err
		}
		if err := utils.MkdirIfNotExists(logFile); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		outputs = append(outputs, logFile)
	}
	return outputs, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return newWithCore(zapcore.NewNopCore(), ERROR)
}

func newWithCore(core zapcore.Core, level LogLevel) *logger {
	l := &logger{sugar: zap.New(core).Sugar()}
	l.level.Store(int32(level))
	return l
}

func (l *logger) log(level LogLevel, format string, args ...any) {
	if level < l.GetLevel() {
		return
	}
	switch level {
	case DEBUG:
		l.sugar.Debugf(format, args...)
	case INFO:
		l.sugar.Infof(format, args...)
	case WARN:
		l.sugar.Warnf(format, args...)
	default:
		l.sugar.Errorf(format, args...)
	}
}

func (l *logger) Debug(format string, args ...any) {
	l.log(DEBUG, format, args...)
}

func (l *logger) Info(format string, args ...any) {
	l.log(INFO, format, args...)
}

func (l *logger) Warn(format string, args ...any) {
	l.log(WARN, format, args...)
}

func (l *logger) Error(format string, args ...any) {
	l.log(ERROR, format, args...)
}

func (l *logger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

func (l *logger) GetLevel() LogLevel {
	return LogLevel(l.level.Load())
}

func (l *logger) Sync() error {
	return l.sugar.Sync()
}
