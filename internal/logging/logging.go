package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
	Fatal(msg string, kv ...any)
}

type zapLogger struct {
	base *zap.Logger
	s    *zap.SugaredLogger
}

// global level, shared by every logger built with New
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// New builds a logger writing to stderr. json selects the production JSON
// encoder; otherwise a console encoder is used. env is attached to every entry.
func New(env, lvl string, json bool) Logger {
	SetLevel(lvl)
	var enc zapcore.Encoder
	if json {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return Wrap(zap.New(core, zap.AddCaller()).With(zap.String("env", env)))
}

// Wrap adapts an existing zap logger, e.g. zaptest or zap.NewNop in tests.
func Wrap(l *zap.Logger) Logger {
	return &zapLogger{base: l, s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Zap returns the underlying zap logger for libraries that need one.
func Zap(l Logger) *zap.Logger {
	if z, ok := l.(*zapLogger); ok {
		return z.base
	}
	return zap.NewNop()
}

// SetLevel accepts debug|info|error|fatal; anything else means info.
func SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

func GetLevel() string { return level.Level().String() }

func (l *zapLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l *zapLogger) Fatal(msg string, kv ...any) { l.s.Fatalw(msg, kv...) }
