// Package log wraps a process-wide zap logger.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger.
	Logger *zap.Logger
	// SugaredLogger skips one caller frame so the helpers below report their call site.
	SugaredLogger *zap.SugaredLogger

	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.Level = level
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zcfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	l, err := zcfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		panic(err)
	}
	zap.RedirectStdLog(l)

	Logger = l
	SugaredLogger = Logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// SetDebug toggles debug output at runtime.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Named returns a sugared child logger, used for per-run log lines.
func Named(name string, kv ...any) *zap.SugaredLogger {
	return Logger.Named(name).Sugar().With(kv...)
}

func Sync() {
	_ = Logger.Sync()
}

func Debug(v ...any) {
	SugaredLogger.Debug(v...)
}

func Info(v ...any) {
	SugaredLogger.Info(v...)
}

func Warn(v ...any) {
	SugaredLogger.Warn(v...)
}

func Error(v ...any) {
	SugaredLogger.Error(v...)
}

func Fatal(v ...any) {
	SugaredLogger.Fatal(v...)
}

func Debugf(tmpl string, v ...any) {
	SugaredLogger.Debugf(tmpl, v...)
}

func Infof(tmpl string, v ...any) {
	SugaredLogger.Infof(tmpl, v...)
}

func Warnf(tmpl string, v ...any) {
	SugaredLogger.Warnf(tmpl, v...)
}

func Errorf(tmpl string, v ...any) {
	SugaredLogger.Errorf(tmpl, v...)
}

func Fatalf(tmpl string, v ...any) {
	SugaredLogger.Fatalf(tmpl, v...)
}
