// Package chaos 计算战场混乱度（0-10）与混乱骰。
package chaos

import (
	"math"
	"math/rand/v2"

	"AncientWarfare/internal/combat/battlefield"
)

const (
	// Minimum 是混乱度下限：再理想的条件也有不可消除的不确定性。
	Minimum = 2
	// Maximum 是混乱度上限。
	Maximum = 10
)

var terrainChaos = map[battlefield.Terrain]int{
	battlefield.Plains: 0, battlefield.Desert: 1, battlefield.Hills: 1, battlefield.River: 2,
	battlefield.Forest: 2, battlefield.Mountains: 3, battlefield.Marsh: 3, battlefield.Urban: 3,
}

var weatherChaos = map[battlefield.Weather]int{
	battlefield.Clear: 0, battlefield.Overcast: 1, battlefield.Wind: 1, battlefield.Rain: 2,
	battlefield.Fog: 3, battlefield.Snow: 3, battlefield.Storm: 4,
}

var timeChaos = map[battlefield.TimeOfDay]int{
	battlefield.Day: 0, battlefield.Dawn: 1, battlefield.Dusk: 2, battlefield.Night: 4,
}

var densityChaos = map[battlefield.Density]int{
	battlefield.Sparse: 0, battlefield.Light: 1, battlefield.Moderate: 2,
	battlefield.Dense: 3, battlefield.Crowded: 4, battlefield.Packed: 5,
}

var situationChaos = map[battlefield.Situation]int{
	battlefield.Skirmish: 0, battlefield.Pitched: 1, battlefield.Siege: 2, battlefield.Assault: 2,
	battlefield.Ambush: 3, battlefield.RiverCrossing: 3, battlefield.Rout: 4,
}

var formationStateChaos = map[battlefield.FormationState]int{
	battlefield.Intact: 0, battlefield.Shaken: 1, battlefield.Disordered: 2,
	battlefield.Broken: 3, battlefield.Routed: 4,
}

var commandStateChaos = map[battlefield.CommandState]int{
	battlefield.Unified: 0, battlefield.Delayed: 1, battlefield.Confused: 2,
	battlefield.Divided: 3, battlefield.Leaderless: 4,
}

// Conditions 是计算混乱度的输入。
type Conditions struct {
	Context battlefield.Context
	// Extra 是额外的战术混乱，例如突破规则带来的阵线紊乱。
	Extra int
}

type Entry struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Delta    int    `json:"delta"`
}

type Result struct {
	Level          int     `json:"level"`
	RawTotal       int     `json:"raw_total"`
	MinimumApplied bool    `json:"minimum_applied"`
	Capped         bool    `json:"capped"`
	Breakdown      []Entry `json:"breakdown"`
}

// Calculate 汇总环境、战术与特殊修正，先套下限 2 再封顶 10。未知取值记 0。
func Calculate(c Conditions) Result {
	var r Result
	add := func(category, key string, delta int) {
		if delta == 0 {
			return
		}
		r.RawTotal += delta
		r.Breakdown = append(r.Breakdown, Entry{Category: category, Key: key, Delta: delta})
	}

	ctx := c.Context
	add("terrain", string(ctx.Terrain), terrainChaos[ctx.Terrain])
	add("weather", string(ctx.Weather), weatherChaos[ctx.Weather])
	add("time_of_day", string(ctx.TimeOfDay), timeChaos[ctx.TimeOfDay])
	add("density", string(ctx.Density), densityChaos[ctx.Density])
	add("situation", string(ctx.Situation), situationChaos[ctx.Situation])
	add("formation_state", string(ctx.FormationState), formationStateChaos[ctx.FormationState])
	add("command_state", string(ctx.CommandState), commandStateChaos[ctx.CommandState])
	add("tactical", "extra", c.Extra)
	for _, s := range ctx.Specials {
		add("special", s.Name, s.ResolvedDelta())
	}

	r.Level = r.RawTotal
	if r.Level < Minimum {
		r.Level = Minimum
		r.MinimumApplied = true
	}
	if r.Level > Maximum {
		r.Level = Maximum
		r.Capped = true
	}
	return r
}

// Roll 掷一次混乱骰：从 1..level 均匀取值后以 level/2 为中心取整（.5 向上）。
// level ≤ 0 时恒为 0。
func Roll(r *rand.Rand, level int) int {
	if level <= 0 {
		return 0
	}
	x := float64(r.IntN(level) + 1)
	return int(math.Floor(x - float64(level)/2 + 0.5))
}
