// Package breakthrough 检测多回合僵持并给出攻击倍率，保证势均力敌的两军不会无限互换零伤害。
package breakthrough

import (
	"math"

	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/internal/combat/unit"
)

const (
	// Window 是判定僵持时回看的回合数。
	Window = 3
	// Threshold 是窗口内双方合计伤害均值的僵持阈值。
	Threshold = 5.0
	// StartTurn 之前不会判定僵持。
	StartTurn = 3

	MinMultiplier  = 0.5
	MaxProgression = 0.5
)

// DamageRecord 是一回合双方各自承受的伤害。
type DamageRecord struct {
	Turn        int     `json:"turn" bson:"turn"`
	ArmyADamage float64 `json:"army_a_damage" bson:"army_a_damage"`
	ArmyBDamage float64 `json:"army_b_damage" bson:"army_b_damage"`
}

// DetectStalemate 在 turn ≥ 3 且（历史不足 3 条或最近 3 回合合计伤害均值 < 5）时返回 true。
func DetectStalemate(history []DamageRecord, turn int) bool {
	if turn < StartTurn {
		return false
	}
	if len(history) < Window {
		return true
	}
	sum := 0.0
	for _, h := range history[len(history)-Window:] {
		sum += h.ArmyADamage + h.ArmyBDamage
	}
	return sum/Window < Threshold
}

// TypeMultiplier 按兵种取基础倍率，优先级 骑兵 > 重步兵 > 远程 > 精锐。
func TypeMultiplier(u unit.Unit) float64 {
	switch {
	case u.Mounted:
		return 2.0
	case u.IsHeavyInfantry():
		return 1.5
	case u.PrimaryRanged():
		return 0.8
	case u.IsElite():
		return 1.3
	default:
		return 1.0
	}
}

// Progression 从第 3 回合起每回合 +0.1，封顶 0.5。
func Progression(turn int) float64 {
	if turn < StartTurn {
		return 0
	}
	return math.Min(MaxProgression, float64(turn-2)*0.1)
}

// Desperation 是残兵的拼死倍率。
func Desperation(strengthRatio float64) float64 {
	switch {
	case strengthRatio < 0.3:
		return 4.0
	case strengthRatio < 0.5:
		return 1.5
	default:
		return 1.0
	}
}

// UnitMultiplier = (兵种 + 阵型进攻加成×0.1 + 回合递进) × 拼死倍率，下限 0.5。
func UnitMultiplier(u unit.Unit, turn int) float64 {
	m := TypeMultiplier(u) + float64(tables.FormationAttack(u.Formation))*0.1 + Progression(turn)
	m *= Desperation(u.StrengthRatio())
	return math.Max(MinMultiplier, m)
}

// ArmyMultiplier 取存活单位中的最大倍率：一支突破部队就能为整条战线撕开缺口。
// 没有存活单位时为 1.0。
func ArmyMultiplier(r unit.Roster, turn int) float64 {
	best, found := 0.0, false
	for _, i := range r.Living() {
		if m := UnitMultiplier(r[i], turn); !found || m > best {
			best, found = m, true
		}
	}
	if !found {
		return 1.0
	}
	return best
}
