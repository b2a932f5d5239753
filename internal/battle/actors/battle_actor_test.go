package actors

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/modules/kit/logx"
)

func TestBattleActor_flush失败记错误日志(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	// 没有仓储时 dc.Flush 对脏实体返回错误
	p := NewBattleActor("bt_flush", Options{Log: logx.NewZapLogger(zap.New(core))})
	r := unit.Roster{{ID: "u", Weapons: []string{"spear"}, Strength: 10, MaxStrength: 10}}
	p.dc.Adopt(entity.NewBattle("bt_flush", "", 1, battlefield.Context{}, r, r, time.Now()))

	p.flush("create")

	entries := logs.FilterMessage("battle flush failed").All()
	if len(entries) != 1 {
		t.Fatalf("期望一条 flush 失败日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trigger"] != "create" || fields["battle_id"] != "bt_flush" {
		t.Fatalf("日志字段不符: %v", fields)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.dc.Close(ctx)
}
