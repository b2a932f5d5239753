package logx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BizLog 是业务拒绝日志的输入。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 是技术错误日志的输入。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 记录访问日志，级别由 biz_code 决定：0 为 INFO，
// 500 以上为 ERROR，其余为 WARN。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	level := zapcore.WarnLevel
	switch {
	case bizCode == 0:
		level = zapcore.InfoLevel
	case bizCode >= 500:
		level = zapcore.ErrorLevel
	}
	emit(ctx, l, level, "access", fields,
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	)
}

// ReportBizWithLoggerContext 记录业务拒绝：INFO，不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	action := orDefault(biz.Action, "biz_reject")
	base := []zap.Field{zap.String("err_type", "biz"), zap.String("action", action)}
	parts := []string{action}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
		parts = append(parts, "reason:"+biz.Reason)
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
		parts = append(parts, "msg:"+biz.Message)
	}
	emit(ctx, l, zapcore.InfoLevel, strings.Join(parts, ", "), fields, base...)
}

// ReportSysErrorWithLoggerContext 记录技术错误：ERROR，带错误码、cause 链和发生处栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)
	base := append([]zap.Field{zap.String("err_type", "sys"), zap.String("action", action)}, meta.Fields()...)
	emit(ctx, l, zapcore.ErrorLevel, meta.Summary(action), fields, base...)
}

// TurnLog 是回合结算日志的输入。
type TurnLog struct {
	Turn         int
	DamageToA    float64
	DamageToB    float64
	CasualtiesA  int
	CasualtiesB  int
	ChaosLevel   int
	Breakthrough bool
	Finished     bool
	Winner       string
	Narrative    []string
}

// ReportTurnWithLoggerContext 记录一回合的结算：INFO、log_type=turn。
// 只有突破或终局回合才带叙事文本。
func ReportTurnWithLoggerContext(ctx context.Context, l Logger, turn TurnLog, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("log_type", "turn"),
		zap.Int("turn", turn.Turn),
		zap.Float64("damage_to_a", turn.DamageToA),
		zap.Float64("damage_to_b", turn.DamageToB),
		zap.Int("casualties_a", turn.CasualtiesA),
		zap.Int("casualties_b", turn.CasualtiesB),
		zap.Int("chaos_level", turn.ChaosLevel),
		zap.Bool("breakthrough", turn.Breakthrough),
	}
	if turn.Finished {
		base = append(base, zap.Bool("finished", true), zap.String("winner", turn.Winner))
	}
	if (turn.Breakthrough || turn.Finished) && len(turn.Narrative) != 0 {
		base = append(base, zap.Strings("narrative", turn.Narrative))
	}
	emit(ctx, l, zapcore.InfoLevel, fmt.Sprintf("turn %d resolved", turn.Turn), fields, base...)
}

func emit(ctx context.Context, l Logger, level zapcore.Level, msg string, extra []zap.Field, base ...zap.Field) {
	if l == nil {
		return
	}
	all := append(base, extra...)
	withCtx := l.WithContext(ctx)
	switch level {
	case zapcore.ErrorLevel:
		withCtx.Error(msg, all...)
	case zapcore.WarnLevel:
		withCtx.Warn(msg, all...)
	case zapcore.DebugLevel:
		withCtx.Debug(msg, all...)
	default:
		withCtx.Info(msg, all...)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
