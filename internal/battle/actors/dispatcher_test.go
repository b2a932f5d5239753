package actors

import (
	"testing"

	"github.com/asynkron/protoactor-go/actor"
)

func TestDispatcher_注册全部战斗消息(t *testing.T) {
	d := NewDispatcher()
	for _, msg := range []any{&CreateBattle{}, &ResolveTurn{}, &GetBattle{}, &RunToEnd{}} {
		if !d.Handles(msg) {
			t.Fatalf("期望 %T 有处理器", msg)
		}
	}
	if d.Handles(&ActiveBattles{}) {
		t.Fatalf("ActiveBattles 由 manager 处理，不应注册到战斗 actor")
	}
}

func TestDispatcher_只有创建可以在战斗未加载时执行(t *testing.T) {
	d := NewDispatcher()
	for typ, r := range d.routes {
		create := typ.String() == "*actors.CreateBattle"
		if r.needsBattle == create {
			t.Fatalf("%s: needsBattle=%v 不符合预期", typ, r.needsBattle)
		}
	}
}

func TestDispatcher_重复注册panic(t *testing.T) {
	d := NewDispatcher()
	defer func() {
		if recover() == nil {
			t.Fatalf("期望重复注册 panic")
		}
	}()
	register(d, true, func(actor.Context, *BattleActor, *GetBattle) {})
}
