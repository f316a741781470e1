// Package shared provides configuration and logging used across the
// bridge, runtime, and lifecycle packages.
package shared

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogSink receives every record the bridge logs, in addition to the
// file and console cores. The host engine installs one so script-side
// logs land in its own console.
type LogSink func(level, message string)

var (
	sinkMu  sync.RWMutex
	logSink LogSink
)

// SetLogSink installs the host log callback. Pass nil to detach.
func SetLogSink(fn LogSink) {
	sinkMu.Lock()
	logSink = fn
	sinkMu.Unlock()
}

// NewLog builds the bridge logger: JSON file core with rotation, a
// console core, and the optional host sink.
func NewLog(name string) *zap.Logger {
	dir := "log"
	_ = os.MkdirAll(dir, 0o755)

	cfg := zap.NewProductionEncoderConfig()

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(os.Stdout), zap.InfoLevel),
		sinkCore{LevelEnabler: zap.InfoLevel},
	)
	return zap.New(core)
}

// sinkCore forwards log entries to the installed host sink.
type sinkCore struct {
	zapcore.LevelEnabler
}

func (c sinkCore) With([]zapcore.Field) zapcore.Core { return c }

func (c sinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c sinkCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	sinkMu.RLock()
	sink := logSink
	sinkMu.RUnlock()
	if sink != nil {
		sink(ent.Level.String(), ent.Message)
	}
	return nil
}

func (c sinkCore) Sync() error { return nil }
