package log

import (
	"os"

	"github.com/gamedb/gridview/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func InitZap(logName string) {

	cores := []zapcore.Core{getStandardCore()}

	if config.C.LogFile != "" {
		core, err := newFileCore(config.C.LogFile)
		if err != nil {
			zap.S().Error(err)
		} else {
			cores = append(cores, core)
		}
	}

	var logger *zap.Logger

	if config.IsLocal() || config.C.GoogleProject == "" {
		logger = zap.New(
			zapcore.NewTee(cores...),
			zap.AddStacktrace(zap.WarnLevel),
			zap.AddCaller(),
			zap.Development(),
		)
	} else {
		logger = zap.New(
			zapcore.NewTee(append(cores, newGoogleCore())...),
			zap.AddStacktrace(zap.WarnLevel),
			zap.AddCaller(),
		)
	}

	logger = logger.Named(logName)

	zap.ReplaceGlobals(logger)
}

func getStandardCore() zapcore.Core {

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	output := zapcore.Lock(os.Stdout)
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)

	if config.IsProd() {
		level.SetLevel(zapcore.InfoLevel)
	}

	return zapcore.NewCore(encoder, output, level)
}
