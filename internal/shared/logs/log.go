// Package logs 持有进程级 zap logger：控制台彩色输出 + lumberjack 切割的 JSON 文件。
package logs

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

var (
	logger atomic.Pointer[zap.Logger]
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	logger.Store(zap.NewNop())
}

func Init(appName string, cfg Config) error {
	// 解析失败回退 info
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	level.SetLevel(lvl)

	//    2026-01-28T10:00:00 INFO  battle-server  turn resolved  battle_actor.go:88
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level)
	core := consoleCore
	if cfg.FileDir != "" {
		// 文件走 JSON，不把 ANSI 颜色写进日志文件
		core = zapcore.NewTee(consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter(cfg)), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	ReplaceLogger(zap.New(core, opts...).Named(appName))
	return nil
}

func fileWriter(cfg Config) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.FileDir,
		MaxSize:    max(1, cfg.MaxSize),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAge),
		Compress:   cfg.Compress,
	}
}

// ReplaceLogger 替换全局 logger，旧 logger 先刷盘。测试里用来接 observer。
func ReplaceLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	if old := logger.Swap(l); old != nil {
		_ = old.Sync()
	}
}

func Logger() *zap.Logger {
	return logger.Load()
}

// SetLevel 热更新日志级别，配置变更时调用。
func SetLevel(s string) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err == nil {
		level.SetLevel(lvl)
	}
}

func Sync() error {
	return Logger().Sync()
}

func Debug(msg string, fields ...zap.Field) { Logger().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { Logger().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { Logger().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { Logger().Error(msg, fields...) }

// Fatal 输出后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) { Logger().Fatal(msg, fields...) }
