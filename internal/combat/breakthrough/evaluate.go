package breakthrough

import (
	"fmt"
	"math"

	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/internal/combat/unit"
)

// 特殊对局规则名。
const (
	RuleCavalryVsPhalanx  = "cavalry_vs_phalanx"
	RuleAntiCavalrySpears = "anti_cavalry_spears"
	RuleClosingDistance   = "closing_distance"
	RuleBerserkerFury     = "berserker_fury"
)

type Input struct {
	Turn    int
	History []DamageRecord
	ArmyA   unit.Roster
	ArmyB   unit.Roster
}

// SideState 是一方本回合的突破倍率与触发的规则。
type SideState struct {
	Multiplier   float64  `json:"multiplier"`
	SpecialRules []string `json:"special_rules,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
}

type State struct {
	Active bool      `json:"active"`
	A      SideState `json:"a"`
	B      SideState `json:"b"`
	// ChaosIncrease 是规则带来的额外战场混乱，计入下一次混乱度计算。
	ChaosIncrease int `json:"chaos_increase"`
}

// Inactive 是未进入僵持时的状态，双方倍率为 1。
func Inactive() State {
	return State{A: SideState{Multiplier: 1}, B: SideState{Multiplier: 1}}
}

// Evaluate 判定僵持；进入僵持后计算双方倍率并套用对局规则，每方各作为进攻方评估一次。
func Evaluate(in Input) State {
	if !DetectStalemate(in.History, in.Turn) {
		return Inactive()
	}
	st := State{Active: true}
	ca, cb := Compose(in.ArmyA), Compose(in.ArmyB)

	var chaosA, chaosB int
	st.A, chaosA = side(ArmyMultiplier(in.ArmyA, in.Turn), ca, cb, in.Turn)
	st.B, chaosB = side(ArmyMultiplier(in.ArmyB, in.Turn), cb, ca, in.Turn)
	st.ChaosIncrease = chaosA + chaosB
	return st
}

func side(base float64, atk, def Composition, turn int) (SideState, int) {
	s := SideState{Multiplier: base}
	chaos := 0
	rule := func(name string, delta float64, desc string) {
		s.Multiplier += delta
		s.SpecialRules = append(s.SpecialRules, name)
		s.Descriptions = append(s.Descriptions, desc)
	}

	if atk.Living > 0 && def.Living > 0 {
		if atk.MountedMajority && def.DominantFormation == tables.Phalanx {
			rule(RuleCavalryVsPhalanx, 0.5, "骑兵绕开方阵正面，从侧翼冲入")
			chaos++
		}
		if atk.MountedMajority && def.SpearMajority {
			rule(RuleAntiCavalrySpears, -0.3, "长矛林立，骑兵冲击受阻")
		}
		if !atk.MountedMajority && def.RangedMajority {
			bonus := math.Min(0.5, 0.1*float64(turn))
			rule(RuleClosingDistance, bonus, fmt.Sprintf("步兵顶着箭雨逼近射手（+%.1f）", bonus))
		}
		if atk.DominantFormation == tables.Berserker {
			bonus := 0.05 * math.Max(0, float64(tables.FormationDefense(def.DominantFormation)))
			if bonus > 0 {
				rule(RuleBerserkerFury, bonus, "狂战士无视对方阵型")
			}
		}
	}
	s.Multiplier = math.Max(MinMultiplier, s.Multiplier)
	return s, chaos
}
