package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared SugaredLogger. It defaults to stderr so tests and
// early startup can log before InitLogger runs.
var Log *zap.SugaredLogger

func init() {
	Log = newCore(zapcore.AddSync(os.Stderr)).Sugar()
}

// InitLogger routes logging to a rotating file. An empty path keeps the
// stderr logger.
func InitLogger(filePath string) {
	if filePath == "" {
		return
	}
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	Log = newCore(zapcore.AddSync(lj)).Sugar()
}

func newCore(ws zapcore.WriteSyncer) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.InfoLevel)
	return zap.New(core, zap.AddCaller())
}

// SyncLogger flushes buffered log entries on shutdown
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
