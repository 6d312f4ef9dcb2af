package lookbook

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a zap logger from cfg. With file output enabled, records
// go to stdout and to a rotated JSON log file.
func NewLogger(cfg LoggerConfig, debug bool) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else if cfg.Mode != "production" {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if !cfg.FileEnable {
		logger, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, errors.Wrap(err, "build logger")
		}
		return logger, nil
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    16,
		MaxBackups: 3,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}
