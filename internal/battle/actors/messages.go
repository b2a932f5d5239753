package actors

import (
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
)

// BattleMessage 是发给某一场战斗的请求，manager 按 BattleID 路由。
type BattleMessage interface {
	BattleID() entity.BattleID
}

type BattleBase struct {
	ID entity.BattleID
}

func (b BattleBase) BattleID() entity.BattleID {
	return b.ID
}

type CreateBattle struct {
	BattleBase
	Name     string
	Seed     uint64
	Context  battlefield.Context
	Attacker unit.Roster
	Defender unit.Roster
}

type ResolveTurn struct {
	BattleBase
}

type GetBattle struct {
	BattleBase
	// WithReports 为 true 时附带全部战报
	WithReports bool
}

// RunToEnd 连续结算，MaxTurns<=0 表示直到分出胜负（引擎自带回合上限）。
type RunToEnd struct {
	BattleBase
	MaxTurns int
}

// BattleReply 是所有请求的统一应答，Err 非空时其余字段无意义。
type BattleReply struct {
	View    entity.View
	Turns   []resolve.TurnResult
	Reports []resolve.TurnResult
	Err     error
}

func reply(b *entity.Battle, turns []resolve.TurnResult) *BattleReply {
	return &BattleReply{View: b.View(), Turns: turns}
}

func failReply(err error) *BattleReply {
	return &BattleReply{Err: err}
}
