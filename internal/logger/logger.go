package logger

import (
	"infco/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger and installs it as the zap global so that
// packages without an injected logger can use zap.L().
func New(cfg config.Config) *zap.Logger {
	log := zap.Must(zap.NewDevelopment())
	if cfg.IsProduction() {
		zcfg := zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zcfg.EncoderConfig.StacktraceKey = "stacktrace"
		zcfg.EncoderConfig.LevelKey = "severity"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zcfg.EncoderConfig.CallerKey = "caller"
		zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		zcfg.Encoding = "json"
		zcfg.OutputPaths = []string{"stdout"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
		if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(level)
		}

		built, err := zcfg.Build()
		if err != nil {
			panic(err)
		}
		log = built
	}

	log = log.With(
		zap.String("env", cfg.AppEnv),
		zap.String("service_name", cfg.AppName),
	)
	zap.ReplaceGlobals(log)
	return log
}
