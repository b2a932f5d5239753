// Package rating 计算单位的攻击评分与防御评分。
package rating

import (
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/internal/combat/unit"
)

const (
	// MinAttack 是攻击评分下限。
	MinAttack = 1
	// MaxClosingDistance 是接敌距离加成上限。
	MaxClosingDistance = 4
)

// Entry 是评分明细中的一项，用于日志和复盘。
type Entry struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Delta  int    `json:"delta"`
}

type AttackInput struct {
	// Flags 是该单位本回合的有效条件（见 battlefield.Context.EffectiveFlags）。
	Flags flag.Set
	// Opponent 为 nil 时不计算反骑兵与接敌距离。
	Opponent *unit.Unit
	Context  battlefield.Context
	// IsDefender 表示被评分的单位在本次交战中是防守方。
	IsDefender bool
}

type AttackBreakdown struct {
	Weapon          int     `json:"weapon"`
	Training        int     `json:"training"`
	Formation       int     `json:"formation"`
	AntiCavalry     int     `json:"anti_cavalry"`
	Situational     int     `json:"situational"`
	ClosingDistance int     `json:"closing_distance"`
	Raw             int     `json:"raw"`
	Total           int     `json:"total"`
	Entries         []Entry `json:"entries"`
}

// AttackRating 计算攻击评分：武器 + 训练 + 阵型 + 反骑兵 + 情境 + 接敌距离，下限为 1。
func AttackRating(u unit.Unit, in AttackInput) AttackBreakdown {
	var b AttackBreakdown
	add := func(source, key string, delta int) {
		b.Entries = append(b.Entries, Entry{Source: source, Key: key, Delta: delta})
	}

	b.Weapon, _ = tables.WeaponAttack(u.PrimaryWeapon())
	add("weapon", u.PrimaryWeapon(), b.Weapon)
	b.Training = tables.TrainingAttack(u.Quality)
	add("training", u.Quality, b.Training)
	b.Formation = tables.FormationAttack(u.Formation)
	add("formation", u.Formation, b.Formation)

	if in.Opponent != nil {
		b.AntiCavalry = AntiCavalryPenalty(u, *in.Opponent)
		if b.AntiCavalry != 0 {
			add("anti_cavalry", in.Opponent.Formation, b.AntiCavalry)
		}
	}

	b.Situational = tables.SituationalAttack(in.Flags, func(f flag.Flag, d int) {
		add("situational", f.String(), d)
	})

	if in.Opponent != nil {
		b.ClosingDistance = ClosingDistanceBonus(u, *in.Opponent, in.Context, in.IsDefender)
		if b.ClosingDistance != 0 {
			add("closing_distance", string(in.Context.Terrain), b.ClosingDistance)
		}
	}

	b.Raw = b.Weapon + b.Training + b.Formation + b.AntiCavalry + b.Situational + b.ClosingDistance
	b.Total = max(MinAttack, b.Raw)
	return b
}

// AntiCavalryPenalty 是骑兵冲击步兵时的结阵惩罚：对方结阵 -2，否则 -1；
// 双方都是骑兵或进攻方不是骑兵时为 0。
func AntiCavalryPenalty(attacker, opponent unit.Unit) int {
	if !attacker.Mounted || opponent.Mounted {
		return 0
	}
	if tables.BracesAgainstCavalry(opponent.Formation) {
		return -2
	}
	return -1
}

// ClosingDistanceBonus 是远程单位在敌军接近过程中多打出的几轮射击。
//
// 被评分单位没有远程武器时为 0。对方没有远程武器：基础 3，森林/沼泽降为 2、城镇降为 1，
// 伏击中的进攻方 +1；若被评分单位是遭伏击的防守方，近战已贴身，加成归零。
// 对方也有远程武器：基础 1，伏击中的进攻方 +1。结果不超过 4。
func ClosingDistanceBonus(attacker, defender unit.Unit, ctx battlefield.Context, isDefender bool) int {
	if !attacker.HasRanged() {
		return 0
	}
	ambush := ctx.IsAmbush()

	bonus := 1
	if !defender.HasRanged() {
		if ambush && isDefender {
			return 0
		}
		switch ctx.Terrain {
		case battlefield.Forest, battlefield.Marsh:
			bonus = 2
		case battlefield.Urban:
			bonus = 1
		default:
			bonus = 3
		}
	}
	if ambush && !isDefender {
		bonus++
	}
	return min(bonus, MaxClosingDistance)
}
