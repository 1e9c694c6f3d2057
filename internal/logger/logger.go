package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/questboard/questboard-api/internal/config"
)

// Init replaces the global zap logger. Development gets a console encoder,
// everything else JSON. A rotating file sink is added when conf.Log.Path is set.
func Init(conf *config.AppConfig) error {
	level := zapcore.InfoLevel
	if conf.Log != nil && conf.Log.Level != "" {
		if err := level.Set(conf.Log.Level); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	opts := []zap.Option{zap.AddCaller()}
	if conf.API.Environment == "development" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(devCfg)
		opts = append(opts, zap.Development())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if conf.Log != nil && conf.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(conf.Log.Path), 0o755); err != nil {
			return err
		}
		file := &lumberjack.Logger{
			Filename:   conf.Log.Path,
			MaxSize:    conf.Log.MaxSizeMB,
			MaxBackups: conf.Log.MaxBackups,
			MaxAge:     conf.Log.MaxAgeDays,
			Compress:   conf.Log.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level))
	}

	zap.ReplaceGlobals(zap.New(zapcore.NewTee(cores...), opts...))

	return nil
}
