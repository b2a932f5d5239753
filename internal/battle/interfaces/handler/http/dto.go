package http

import (
	"hash/fnv"

	"AncientWarfare/internal/balance"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/internal/shared/gameconfig/roster"
)

type CreateBattleReq struct {
	Name string `json:"name"`
	// Seed 缺省时由战斗 id 派生
	Seed     *uint64             `json:"seed"`
	Context  battlefield.Context `json:"context"`
	Attacker balance.Side        `json:"attacker"`
	Defender balance.Side        `json:"defender"`
}

func (r CreateBattleReq) rosters(lib *roster.Library) (unit.Roster, unit.Roster, error) {
	sc := balance.Scenario{Attacker: r.Attacker, Defender: r.Defender}
	return sc.Rosters(lib)
}

type RunReq struct {
	MaxTurns int `json:"max_turns"`
}

type BattleResp struct {
	Battle  entity.View          `json:"battle"`
	Turns   []resolve.TurnResult `json:"turns,omitempty"`
	Reports []resolve.TurnResult `json:"reports,omitempty"`
}

type SweepReq struct {
	Scenarios []balance.Scenario `json:"scenarios"`
}

type SweepResp struct {
	Reports []balance.Report `json:"reports"`
}

// WatchReq 是 ws battle.snapshot 的请求体；缺省时取连接正在观看的战斗。
type WatchReq struct {
	BattleID string `json:"battle_id"`
}

func seedFromID(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}
