// Package logger wraps a process-wide zap logger. Output goes to the console
// and, when a path is configured, to a file rotated by lumberjack.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log discards everything until Init or Setup is called.
var Log = zap.NewNop()

// Sugar mirrors Log for printf-style calls.
var Sugar = Log.Sugar()

var warned sync.Map

// FileConfig controls the rotated log file. An empty Path disables it.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns the rotation settings used by Init.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Options selects the sinks and minimum level of the global logger.
type Options struct {
	Level   string
	Console bool
	File    FileConfig
}

// Init logs to the console and, if logFile is set, to a rotated file.
func Init(level, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// Setup replaces the global logger. Unknown levels fall back to info.
func Setup(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := encoder(zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl))
	}
	if f := opts.File; f.Path != "" {
		w := &lumberjack.Logger{
			Filename:   f.Path,
			MaxSize:    f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAge:     f.MaxAgeDays,
			Compress:   f.Compress,
			LocalTime:  true,
		}
		enc := encoder(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	replace(zap.New(zapcore.NewTee(cores...), zap.AddCaller()))
	return nil
}

func encoder(t zapcore.TimeEncoder, l zapcore.LevelEncoder) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       t,
		EncodeLevel:      l,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

func replace(l *zap.Logger) {
	Log = l
	Sugar = l.Sugar()
}

// With stamps every later entry with fields, e.g. the session id of a run.
func With(fields ...zap.Field) {
	replace(Log.With(fields...))
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Log.Fatal(msg, fields...) }

// WarnOnce logs at warn level the first time key is seen. Later calls with
// the same key are dropped until ResetOnce.
func WarnOnce(key, msg string, fields ...zap.Field) {
	if _, seen := warned.LoadOrStore(key, struct{}{}); seen {
		return
	}
	Log.Warn(msg, append(fields, zap.String("key", key))...)
}

// ResetOnce forgets every key recorded by WarnOnce.
func ResetOnce() {
	warned.Clear()
}
