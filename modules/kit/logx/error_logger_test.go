package logx

import (
	"context"
	"errors"
	"testing"

	"AncientWarfare/modules/kit/errx"
	"AncientWarfare/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestReportTurn_带battle_id与叙事(t *testing.T) {
	l, logs := newObserved()
	ctx := tracex.WithBattleID(context.Background(), "b-7")

	ReportTurnWithLoggerContext(ctx, l, TurnLog{
		Turn:         4,
		DamageToA:    1.5,
		DamageToB:    2.5,
		Breakthrough: true,
		Narrative:    []string{"骑兵冲开了方阵的侧翼"},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["battle_id"] != "b-7" {
		t.Fatalf("期望 battle_id=b-7, got=%v", fields["battle_id"])
	}
	if fields["turn"] != int64(4) {
		t.Fatalf("期望 turn=4, got=%v", fields["turn"])
	}
	if _, ok := fields["narrative"]; !ok {
		t.Fatalf("期望突破回合带 narrative 字段, fields=%v", fields)
	}
}

func TestReportTurn_普通回合不带叙事(t *testing.T) {
	l, logs := newObserved()
	ReportTurnWithLoggerContext(context.Background(), l, TurnLog{Turn: 1, Narrative: []string{"x"}})
	if _, ok := logs.All()[0].ContextMap()["narrative"]; ok {
		t.Fatalf("期望普通回合不输出 narrative")
	}
}

func TestReportSysError_系统错误走ERROR级别(t *testing.T) {
	l, logs := newObserved()
	err := errx.ErrInvariant.WithData("chaos_level", 12).WithCause(errors.New("cap skipped"))
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("resolve_turn", err))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zap.ErrorLevel {
		t.Fatalf("期望 1 条 ERROR 日志, got=%v", entries)
	}
	if entries[0].ContextMap()["error_code"] != string(errx.CodeInvariant) {
		t.Fatalf("期望 error_code=%s, got=%v", errx.CodeInvariant, entries[0].ContextMap()["error_code"])
	}
}

func TestReport_nil_logger不panic(t *testing.T) {
	ReportTurnWithLoggerContext(context.Background(), nil, TurnLog{})
	ReportBizWithLoggerContext(context.Background(), nil, NewBizLog("a", "b", "c"))
	ReportSysErrorWithLoggerContext(context.Background(), nil, NewSysLog("a", errors.New("x")))
}

func TestReportAccess_按biz_code分级(t *testing.T) {
	l, logs := newObserved()
	ReportAccessWithLoggerContext(context.Background(), l, "POST /battles", 0)
	ReportAccessWithLoggerContext(context.Background(), l, "POST /battles/:id/turns", 409)
	ReportAccessWithLoggerContext(context.Background(), l, "GET /battles/:id", 503)

	want := []zapcore.Level{zap.InfoLevel, zap.WarnLevel, zap.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("期望 %d 条日志, got=%d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条期望级别 %v, got=%v", i, want[i], e.Level)
		}
	}
}

func TestZapLogger_With追加固定字段(t *testing.T) {
	l, logs := newObserved()
	l.With(zap.String("scenario", "legion-vs-phalanx")).Info("done")
	if got := logs.All()[0].ContextMap()["scenario"]; got != "legion-vs-phalanx" {
		t.Fatalf("期望 scenario 字段, got=%v", got)
	}
}
