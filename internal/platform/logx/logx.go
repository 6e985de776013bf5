// internal/platform/logx/logx.go
package logx

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable that sets the default level.
const EnvLevel = "OPENSIGHT_LOG_LEVEL"

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
	Sync() error
}

// Options configures a logger built by NewWithOptions.
type Options struct {
	// Level is the minimum level written.
	Level Level

	// Writer receives console output. Defaults to os.Stderr.
	Writer io.Writer

	// Dir enables a daily rotated log file (opensight.YYYYMMDD.log) in this directory.
	Dir string

	// MaxAge is how long rotated files are kept. Defaults to 7 days.
	MaxAge time.Duration
}

type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New returns a console logger on stderr whose level comes from OPENSIGHT_LOG_LEVEL.
func New() Logger {
	return NewWithLevel(ParseLevel(os.Getenv(EnvLevel)))
}

// NewWithLevel creates a console logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	l, _ := NewWithOptions(Options{Level: lvl})
	return l
}

// NewSilent creates a logger that only outputs errors
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar(), level: zap.NewAtomicLevel()}
}

// NewWithOptions builds a logger writing to the console and, when Dir is
// set, to a rotated file in JSON format.
func NewWithOptions(opts Options) (Logger, error) {
	level := zap.NewAtomicLevelAt(opts.Level.zap())

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleCfg.CallerKey = ""
	consoleCfg.StacktraceKey = ""

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(w), level),
	}

	if opts.Dir != "" {
		maxAge := opts.MaxAge
		if maxAge <= 0 {
			maxAge = 7 * 24 * time.Hour
		}
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, err
		}
		rotator, err := rotatelogs.New(
			filepath.Join(opts.Dir, "opensight.%Y%m%d.log"),
			rotatelogs.WithLinkName(filepath.Join(opts.Dir, "opensight.log")),
			rotatelogs.WithMaxAge(maxAge),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, err
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), level))
	}

	return newFromCore(zapcore.NewTee(cores...), level), nil
}

func newFromCore(core zapcore.Core, level zap.AtomicLevel) *zapLogger {
	return &zapLogger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func (z *zapLogger) With(kv ...any) Logger {
	return &zapLogger{
		sugar: z.sugar.With(kv...),
		level: z.level,
	}
}

func (z *zapLogger) SetLevel(lvl Level) { z.level.SetLevel(lvl.zap()) }

func (z *zapLogger) Debug(msg string, kv ...any) { z.sugar.Debugw(msg, kv...) }
func (z *zapLogger) Info(msg string, kv ...any)  { z.sugar.Infow(msg, kv...) }
func (z *zapLogger) Warn(msg string, kv ...any)  { z.sugar.Warnw(msg, kv...) }
func (z *zapLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	z.sugar.Errorw("", kv...)
}

func (z *zapLogger) Sync() error {
	err := z.sugar.Sync()
	// stderr is not syncable on most terminals
	if err != nil && strings.Contains(err.Error(), "invalid argument") {
		return nil
	}
	return err
}

// ParseLevel converts a level name; unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
