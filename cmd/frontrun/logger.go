package main

import (
	"context"
	"io"
	"sort"

	"github.com/goliatone/go-frontrun/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts a zap.SugaredLogger to the glog interfaces used by the
// registry and the chain.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// newZapLogger builds a production JSON logger writing to out. Verbose
// lowers the level to debug.
func newZapLogger(out io.Writer, verbose bool) *zapLogger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zcore := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(out),
		config.Level,
	)
	return &zapLogger{sugar: zap.New(zcore).Sugar()}
}

func (l *zapLogger) Trace(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

// Fatal logs at error level; the CLI owns process exit.
func (l *zapLogger) Fatal(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *zapLogger) WithContext(context.Context) core.Logger {
	return l
}

func (l *zapLogger) WithFields(fields map[string]any) core.Logger {
	if len(fields) == 0 {
		return l
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return &zapLogger{sugar: l.sugar.With(args...)}
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}

var _ core.FieldsLogger = (*zapLogger)(nil)
