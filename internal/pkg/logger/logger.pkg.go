package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Debug   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	HTTP    *log.Logger

	base *zap.Logger
)

func init() {
	// packages log before main calls Setup, e.g. in tests
	Setup()
}

// Setup builds the zap core and rebinds the package loggers to it.
// Production builds log JSON, anything else logs console lines.
func Setup() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}
	base = l

	HTTP = mustStdLog(l.Named("http"), zapcore.InfoLevel)
	Info = mustStdLog(l, zapcore.InfoLevel)
	Warning = mustStdLog(l, zapcore.WarnLevel)
	Debug = mustStdLog(l, zapcore.DebugLevel)
	Error = mustStdLog(l, zapcore.ErrorLevel)
}

// Zap exposes the structured logger for callers that want fields.
func Zap() *zap.Logger {
	return base
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func mustStdLog(l *zap.Logger, level zapcore.Level) *log.Logger {
	std, err := zap.NewStdLogAt(l, level)
	if err != nil {
		return zap.NewStdLog(l)
	}
	return std
}
