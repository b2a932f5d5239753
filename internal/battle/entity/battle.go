package entity

import (
	"time"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
)

type BattleID string

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Battle 是一场战斗的聚合：引擎状态、逐回合战报与持久化脏标记。
// 只由所属的 battle actor 读写，不加锁。
type Battle struct {
	id        BattleID
	name      string
	seed      uint64
	state     resolve.State
	reports   []resolve.TurnResult
	createdAt time.Time
	updatedAt time.Time
	// version 是最近一次生成或加载的快照版本
	version   uint64
	dirty     bool
}

// NewBattle 新建的战斗默认是脏的，第一次 flush 就会落库。
func NewBattle(id BattleID, name string, seed uint64, ctx battlefield.Context, attacker, defender unit.Roster, now time.Time) *Battle {
	return &Battle{
		id:        id,
		name:      name,
		seed:      seed,
		state:     resolve.NewState(ctx, attacker, defender),
		createdAt: now,
		updatedAt: now,
		dirty:     true,
	}
}

func (b *Battle) ID() BattleID {
	return b.id
}

func (b *Battle) Name() string {
	return b.name
}

func (b *Battle) Seed() uint64 {
	return b.seed
}

// State 返回引擎状态的指针，供 Engine.Step 原地推进；推进后必须调用 Record。
func (b *Battle) State() *resolve.State {
	return &b.state
}

func (b *Battle) Turn() int {
	return b.state.Turn
}

func (b *Battle) Finished() bool {
	return b.state.Finished
}

func (b *Battle) Status() Status {
	if b.state.Finished {
		return StatusFinished
	}
	return StatusActive
}

func (b *Battle) Reports() []resolve.TurnResult {
	return b.reports
}

// Apply 把一回合结果写回状态并记战报。
func (b *Battle) Apply(res resolve.TurnResult, now time.Time) {
	b.state.Apply(res)
	b.Record(res, now)
}

// Record 只追加战报，用于状态已经被 Engine.Step 推进过的情形。
func (b *Battle) Record(res resolve.TurnResult, now time.Time) {
	b.reports = append(b.reports, res)
	b.updatedAt = now
	b.dirty = true
}

// Version 返回最近一次快照的版本，新建的战斗为 0。
func (b *Battle) Version() uint64 {
	return b.version
}

func (b *Battle) Dirty() bool {
	return b.dirty
}

func (b *Battle) ClearDirty() {
	b.dirty = false
}

func (b *Battle) BuildSnapshot(version uint64) (*BattleSnapshot, bool) {
	if b == nil || !b.dirty {
		return nil, false
	}
	b.version = version
	return &BattleSnapshot{
		Version:   version,
		ID:        b.id,
		Name:      b.name,
		Seed:      b.seed,
		Status:    b.Status(),
		State:     cloneState(b.state),
		Reports:   append([]resolve.TurnResult(nil), b.reports...),
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, true
}

// View 是对外只读视图，与实体不共享切片。
func (b *Battle) View() View {
	s := cloneState(b.state)
	return View{
		ID:            b.id,
		Name:          b.name,
		Seed:          b.seed,
		Status:        b.Status(),
		Turn:          s.Turn,
		Winner:        s.Winner,
		Context:       s.Context,
		Attacker:      s.Attacker,
		Defender:      s.Defender,
		History:       s.History,
		Breakthroughs: s.Breakthroughs,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.updatedAt,
	}
}

func cloneState(s resolve.State) resolve.State {
	out := s
	out.Context = s.Context.Clone()
	out.Attacker = s.Attacker.Clone()
	out.Defender = s.Defender.Clone()
	out.History = append(out.History[:0:0], s.History...)
	out.Buckets = s.Buckets.Clone()
	return out
}
