// Package preparation 计算准备度（0.5-4.0）。准备度只用来抵消混乱带来的损耗，
// 不直接抬高单位的名义评分。
package preparation

import (
	"math"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/flag"
)

const (
	Base    = 1.0
	Minimum = 0.5
	Maximum = 4.0

	// DefaultAttritionRate 是每点混乱修正造成的评分损耗比例。
	DefaultAttritionRate = 0.05

	// forestMeleeAmbush 是进攻方在森林中以近战打伏击时的额外加成。
	forestMeleeAmbush = 2.0
)

// Category 是准备度加成的分类。
type Category string

const (
	TimePosition    Category = "time_position"
	Intelligence    Category = "intelligence"
	Coordination    Category = "coordination"
	Environmental   Category = "environmental"
	TacticalAdvance Category = "tactical"
	MoraleReadiness Category = "morale"
	Penalty         Category = "penalty"
	AttackerOnly    Category = "attacker"
	DefenderOnly    Category = "defender"
	Culture         Category = "culture"
)

type bonus struct {
	flag  flag.Flag
	delta float64
}

var categories = []struct {
	name    Category
	bonuses []bonus
}{
	{TimePosition, []bonus{{flag.TimeToPrepare, 0.3}, {flag.FortifiedPosition, 0.4}, {flag.FavorableGround, 0.3}, {flag.RestedTroops, 0.3}}},
	{Intelligence, []bonus{{flag.EnemyScouted, 0.3}, {flag.KnownEnemyComposition, 0.3}, {flag.LocalGuides, 0.3}, {flag.InterceptedOrders, 0.3}}},
	{Coordination, []bonus{{flag.ClearChainOfCommand, 0.3}, {flag.DrilledManeuvers, 0.3}, {flag.SignalsEstablished, 0.3}, {flag.CombinedArms, 0.3}}},
	{Environmental, []bonus{{flag.TerrainAdapted, 0.3}, {flag.WeatherAdapted, 0.3}, {flag.NightTrained, 0.3}, {flag.Acclimated, 0.3}}},
	{TacticalAdvance, []bonus{{flag.ReservesAvailable, 0.3}, {flag.SecureFlanks, 0.3}, {flag.SuperiorNumbers, 0.3}, {flag.StrongPosition, 0.3}}},
	{MoraleReadiness, []bonus{{flag.HighMorale, 0.3}, {flag.RecentVictory, 0.3}, {flag.WellSupplied, 0.3}, {flag.ReligiousFervor, 0.3}}},
}

var penalties = []bonus{
	{flag.Surprised, -1.0},
	{flag.Ambushed, -0.5},
	{flag.Flanked, -0.5},
	{flag.Surrounded, -1.0},
	{flag.FormationBroken, -0.5},
	{flag.UnknownEnemy, -0.5},
	{flag.Exhausted, -0.5},
	{flag.LowMorale, -0.5},
	{flag.PoorSupply, -0.3},
	{flag.CommanderDown, -0.5},
	{flag.CrossingObstacle, -0.3},
}

var attackerBonuses = []bonus{
	{flag.InitiativeAdvantage, 0.3},
	{flag.MomentumCharge, 0.3},
	{flag.ChosenBattlefield, 0.3},
	{flag.ConcentratedAssault, 0.3},
	{flag.TacticalSurprise, 0.3},
	{flag.AmbushAdvantage, 1.2},
	{flag.FirstStrike, 0.8},
}

var defenderBonuses = []bonus{
	{flag.PreparedPosition, 0.3},
	{flag.TerrainKnowledge, 0.3},
	{flag.SecureSupplies, 0.3},
	{flag.DefensiveOptimization, 0.3},
	{flag.InteriorLines, 0.3},
}

// Conditions 是一个单位在一个身份下的准备条件。
type Conditions struct {
	Flags     flag.Set
	Terrain   battlefield.Terrain
	Situation battlefield.Situation
	// Melee 表示该单位以近战接敌（主武器非远程）。
	Melee bool
}

type Entry struct {
	Category Category `json:"category"`
	Key      string   `json:"key"`
	Delta    float64  `json:"delta"`
}

type Result struct {
	Level     float64 `json:"level"`
	RawTotal  float64 `json:"raw_total"`
	Capped    bool    `json:"capped"`
	Breakdown []Entry `json:"breakdown"`
}

// Calculate 从 1.0 起累加分类加成、扣除惩罚、叠加身份专属加成，最后夹到 [0.5, 4.0]。
func Calculate(c Conditions, role battlefield.Role) Result {
	r := Result{RawTotal: Base}
	apply := func(cat Category, list []bonus) {
		for _, b := range list {
			if c.Flags.Has(b.flag) {
				r.add(cat, b.flag.String(), b.delta)
			}
		}
	}

	for _, cat := range categories {
		apply(cat.name, cat.bonuses)
	}
	apply(Penalty, penalties)

	switch role {
	case battlefield.Attacker:
		apply(AttackerOnly, attackerBonuses)
		if c.Terrain == battlefield.Forest && c.Situation == battlefield.Ambush && c.Melee {
			r.add(AttackerOnly, "forestMeleeAmbush", forestMeleeAmbush)
		}
	case battlefield.Defender:
		apply(DefenderOnly, defenderBonuses)
	}

	r.clamp()
	return r
}

// WithBonus 在结果上叠加一项额外加成并重新夹取，例如文化准备度。
func (r Result) WithBonus(cat Category, key string, delta float64) Result {
	if delta == 0 {
		return r
	}
	out := r
	out.Breakdown = append([]Entry(nil), r.Breakdown...)
	out.add(cat, key, delta)
	out.clamp()
	return out
}

func (r *Result) add(cat Category, key string, delta float64) {
	r.RawTotal = round2(r.RawTotal + delta)
	r.Breakdown = append(r.Breakdown, Entry{Category: cat, Key: key, Delta: delta})
}

func (r *Result) clamp() {
	r.Level = r.RawTotal
	r.Capped = false
	if r.Level < Minimum {
		r.Level = Minimum
		r.Capped = true
	}
	if r.Level > Maximum {
		r.Level = Maximum
		r.Capped = true
	}
}

// ChaosModifier = max(1, chaos − preparation)。
func ChaosModifier(chaosLevel int, prepLevel float64) float64 {
	return math.Max(1, float64(chaosLevel)-prepLevel)
}

// AttritionFactor 是评分在混乱中保留的比例：max(0, 1 − ChaosModifier × rate)。
// rate ≤ 0 时使用 DefaultAttritionRate。
func AttritionFactor(chaosLevel int, prepLevel, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultAttritionRate
	}
	return math.Max(0, 1-ChaosModifier(chaosLevel, prepLevel)*rate)
}

// 0.1 + 0.2 这类累加保留两位小数，避免 4.0000000001 触发封顶。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
