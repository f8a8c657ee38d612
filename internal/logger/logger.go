package logger

import (
	"io"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin structured logger over zap. Fields are passed as a map
// so call sites stay free of zap types.
type Logger struct {
	appName string
	l       *zap.Logger
}

// New creates a JSON logger writing to the given writers (stdout if none).
// level is one of debug, info, warn, error; unknown values fall back to info.
func New(appName, level string, writers ...io.Writer) *Logger {
	var syncers []zapcore.WriteSyncer

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = timeEncoder("2006-01-02T15:04:05.000Z07:00")
	cfg.TimeKey = "timestamp"

	if len(writers) == 0 {
		syncers = append(syncers, os.Stdout)
	} else {
		for _, w := range writers {
			syncers = append(syncers, zapcore.AddSync(w))
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.NewMultiWriteSyncer(syncers...),
		parseLevel(level),
	)

	return &Logger{
		appName: appName,
		l:       zap.New(core),
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func (l *Logger) Stop() error {
	return l.l.Sync()
}

// errorMsg is the message of every Error entry; the cause goes to the error field
const errorMsg = "operation failed"

// Error logs err under a fixed message with the cause in the "error" field.
// A nil err logs nothing.
func (l *Logger) Error(err error, fields ...map[string]any) {
	if err == nil {
		return
	}
	l.l.Error(errorMsg, l.with(fields, zap.String("error", err.Error()))...)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.l.Info(msg, l.with(fields)...)
}

func (l *Logger) Warning(msg string, fields ...map[string]any) {
	l.l.Warn(msg, l.with(fields)...)
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.l.Debug(msg, l.with(fields)...)
}

func (l *Logger) with(fields []map[string]any, extra ...zap.Field) []zap.Field {
	file, line, funcName := getRuntimeParams()
	zapFields := []zap.Field{
		zap.String("app_name", l.appName),
		zap.String("caller_file", file),
		zap.Int("caller_line", line),
		zap.String("caller_func", funcName),
	}
	zapFields = append(zapFields, extra...)
	if len(fields) > 0 {
		zapFields = append(zapFields, mapToZapFields(fields[0])...)
	}
	return zapFields
}

func mapToZapFields(data map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// getRuntimeParams reports the caller of the public logging method
func getRuntimeParams() (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "not_defined", 0, "not_defined"
	}
	return file, line, runtime.FuncForPC(pc).Name()
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func timeEncoder(layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(layout))
	}
}
