package logger

import (
	"os"
	"strings"

	"github.com/octabyte/prediction-portal/enums"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Env         string
	ServiceName string
	// OutputPaths defaults to stdout.
	OutputPaths []string
}

var levels = map[string]zapcore.Level{
	enums.LogLevelDebug: zapcore.DebugLevel,
	"dbg":               zapcore.DebugLevel,
	enums.LogLevelInfo:  zapcore.InfoLevel,
	"information":       zapcore.InfoLevel,
	enums.LogLevelWarn:  zapcore.WarnLevel,
	"warning":           zapcore.WarnLevel,
	enums.LogLevelError: zapcore.ErrorLevel,
	"err":               zapcore.ErrorLevel,
	enums.LogLevelFatal: zapcore.FatalLevel,
	enums.LogLevelPanic: zapcore.PanicLevel,
}

// Init builds the process-wide JSON logger and installs it as the zap global.
func Init(cfg *Config) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(getLogLevelFromString(cfg.Level)),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"env":     cfg.Env,
			"service": cfg.ServiceName,
		},
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	zap.ReplaceGlobals(logger.WithOptions(zap.AddCallerSkip(1)))
}

func LogDebug(msg string, fields ...zap.Field) {
	zap.L().Debug(msg, fields...)
}

func LogInfo(msg string, fields ...zap.Field) {
	zap.L().Info(msg, fields...)
}

func LogWarn(msg string, fields ...zap.Field) {
	zap.L().Warn(msg, fields...)
}

func LogError(msg string, fields ...zap.Field) {
	zap.L().Error(msg, fields...)
}

func LogFatal(msg string, fields ...zap.Field) {
	zap.L().Fatal(msg, fields...)
}

func getLogLevelFromString(level string) zapcore.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

func Sync() {
	_ = zap.L().Sync()
}
