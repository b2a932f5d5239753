package logx

import (
	"context"

	"go.uber.org/zap"

	"AncientWarfare/modules/kit/tracex"
)

// Logger 是各层共用的日志接口，zap 之外的实现只在测试里出现。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	// WithContext 带上 ctx 里的 trace_id/span_id/battle_id。
	WithContext(ctx context.Context) Logger
	// With 追加固定字段，例如平衡模拟的 scenario。
	With(fields ...zap.Field) Logger
}

// ZapLogger 把 *zap.Logger 适配成 Logger；nil 时退化为 Nop。
type ZapLogger struct {
	l *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{l: l}
}

// Nop 丢弃全部日志。
func Nop() Logger { return NewZapLogger(nil) }

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}
	var fields []zap.Field
	if v, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", v))
	}
	if v, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", v))
	}
	if v, ok := tracex.BattleIDFrom(ctx); ok {
		fields = append(fields, zap.String("battle_id", v))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{l: z.l.With(fields...)}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{l: z.l.With(fields...)}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.l.Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
