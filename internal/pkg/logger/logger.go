// Package logger wraps zap with a process-global logger, file rotation and
// context propagation helpers.
package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

var loggerContextKey contextKey

var (
	mu          sync.RWMutex
	global      *zap.Logger
	sugar       *zap.SugaredLogger
	atomicLevel zap.AtomicLevel
	stdLogUndo  func()
)

func Init(options InitOptions) error {
	mu.Lock()
	defer mu.Unlock()

	normalized := options.normalized()
	zl, al, err := buildLogger(normalized)
	if err != nil {
		return err
	}

	prev := global
	global = zl
	sugar = zl.Sugar()
	atomicLevel = al

	bridgeStdLogLocked()

	if prev != nil {
		_ = prev.Sync()
	}
	return nil
}

func SetLevel(level string) error {
	mu.Lock()
	defer mu.Unlock()
	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}
	atomicLevel.SetLevel(parsed)
	return nil
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return zap.NewNop()
}

func S() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		return sugar
	}
	return zap.NewNop().Sugar()
}

func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

func Sync() {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}

// IntoContext returns a context carrying l, so request-scoped fields follow
// the request through the service and repository layers.
func IntoContext(ctx context.Context, l *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil {
		l = L()
	}
	return context.WithValue(ctx, loggerContextKey, l)
}

func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}

func bridgeStdLogLocked() {
	if stdLogUndo != nil {
		stdLogUndo()
		stdLogUndo = nil
	}

	log.SetFlags(0)
	log.SetPrefix("")
	undo, err := zap.RedirectStdLogAt(global.Named("stdlog"), zap.InfoLevel)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger redirect stdlog failed: %v\n", err)
		return
	}
	stdLogUndo = undo
}

func buildLogger(options InitOptions) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := parseLevel(options.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atomic := zap.NewAtomicLevelAt(level)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var enc zapcore.Encoder
	if options.Format == "console" {
		enc = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encoderCfg)
	}

	var syncers []zapcore.WriteSyncer
	if options.Output.ToStdout {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	if options.Output.ToFile {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.Output.FilePath,
			MaxSize:    options.Rotation.MaxSizeMB,
			MaxBackups: options.Rotation.MaxBackups,
			MaxAge:     options.Rotation.MaxAgeDays,
			Compress:   options.Rotation.Compress,
			LocalTime:  options.Rotation.LocalTime,
		}))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncers...), atomic)

	zapOpts := []zap.Option{
		zap.Fields(
			zap.String("service", options.ServiceName),
			zap.String("env", options.Environment),
		),
	}
	if options.Caller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	if stLevel, stErr := parseLevel(options.StacktraceLevel); stErr == nil {
		zapOpts = append(zapOpts, zap.AddStacktrace(stLevel))
	}

	return zap.New(core, zapOpts...), atomic, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var parsed zapcore.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsed, nil
}
