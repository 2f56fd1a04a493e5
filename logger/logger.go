package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the structured logging surface the library depends on.
// Any zap-backed logger satisfies it via the Logger wrapper.
type Interface interface {
	Debugw(msg string, kv ...any)
	Infow(msg string, kv ...any)
	Warnw(msg string, kv ...any)
	Errorw(msg string, kv ...any)
	With(kv ...any) Interface
}

type Logger struct {
	*zap.SugaredLogger
}

func Init(name, env string) *Logger {
	cfg := buildConfig(env)

	z, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot init zap logger: %v\n", err)
		os.Exit(1)
	}

	return &Logger{SugaredLogger: z.Named(name).Sugar()}
}

// FromZap wraps an existing zap logger so the caller can share one
// process-wide instance with the library.
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{SugaredLogger: z.Sugar()}
}

// Nop returns a logger that discards everything. Default for tests and
// for client resources built without an explicit logger.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func buildConfig(env string) zap.Config {
	var cfg zap.Config

	switch env {
	case "development", "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = env != "debug"

	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableStacktrace = true

	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}

	return cfg
}

func (l *Logger) With(kv ...any) Interface {
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}

func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil {
		if !strings.Contains(err.Error(), "invalid argument") {
			l.Errorf("log sync error: %v", err)
		}
	}
}
