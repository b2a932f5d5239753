package rating

import (
	"testing"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/unit"
)

func romanLine() unit.Unit {
	return unit.Unit{ID: "r1", Weapons: []string{"roman_gladius", "pilum"}, Armor: "medium", Shield: "medium",
		Quality: "professional", Formation: "line", Strength: 100, MaxStrength: 100, Culture: "roman"}
}

func celticWarband() unit.Unit {
	return unit.Unit{ID: "c1", Weapons: []string{"celtic_longsword"}, Armor: "light", Shield: "medium",
		Quality: "tribal", Formation: "loose", Strength: 100, MaxStrength: 100, Culture: "celtic"}
}

func archers() unit.Unit {
	return unit.Unit{ID: "a1", Weapons: []string{"bow"}, Armor: "none", Shield: "none",
		Quality: "regular", Formation: "skirmish", Strength: 80, MaxStrength: 80}
}

func TestAttackRating_罗马职业步兵对凯尔特平原(t *testing.T) {
	ctx := battlefield.Context{Terrain: battlefield.Plains, Weather: battlefield.Clear}
	roman, celt := romanLine(), celticWarband()
	// 去掉 pilum，否则会拿到接敌距离加成
	roman.Weapons = []string{"roman_gladius"}

	b := AttackRating(roman, AttackInput{Flags: ctx.EffectiveFlags(battlefield.Attacker, roman.Flags), Opponent: &celt, Context: ctx})
	if b.Weapon != 5 || b.Training != 4 || b.Formation != 1 {
		t.Fatalf("期望 5/4/1, got=%+v", b)
	}
	if b.Total != 10 {
		t.Fatalf("期望 10, got=%d", b.Total)
	}

	d := DefenseRating(celt, DefenseInput{Flags: ctx.EffectiveFlags(battlefield.Defender, celt.Flags)})
	if d.Total != 5 {
		t.Fatalf("凯尔特防御期望 2+2+1+0=5, got=%+v", d)
	}
	if rd := DefenseRating(roman, DefenseInput{}); rd.Total != 11 {
		t.Fatalf("罗马防御期望 4+2+3+2=11, got=%d", rd.Total)
	}
}

func TestAttackRating_骑兵冲击方阵(t *testing.T) {
	cav := unit.Unit{ID: "k1", Weapons: []string{"lance"}, Armor: "heavy", Quality: "veteran", Formation: "wedge",
		Mounted: true, Strength: 50, MaxStrength: 50}
	pikes := unit.Unit{ID: "p1", Weapons: []string{"sarissa"}, Armor: "light", Shield: "small", Quality: "regular",
		Formation: "phalanx", Strength: 100, MaxStrength: 100}

	b := AttackRating(cav, AttackInput{Opponent: &pikes, Context: battlefield.Context{Terrain: battlefield.Plains}})
	if b.AntiCavalry != -2 {
		t.Fatalf("期望 -2, got=%d", b.AntiCavalry)
	}
	if b.Total != 6+5+3-2 {
		t.Fatalf("期望 12, got=%d", b.Total)
	}

	pikes.Formation = "column"
	if got := AntiCavalryPenalty(cav, pikes); got != -1 {
		t.Fatalf("未结阵期望 -1, got=%d", got)
	}
	pikes.Mounted = true
	if got := AntiCavalryPenalty(cav, pikes); got != 0 {
		t.Fatalf("骑兵对骑兵期望 0, got=%d", got)
	}
}

func TestClosingDistanceBonus_地形与伏击(t *testing.T) {
	bows, celt := archers(), celticWarband()
	cases := []struct {
		name       string
		ctx        battlefield.Context
		isDefender bool
		want       int
	}{
		{"平原", battlefield.Context{Terrain: battlefield.Plains}, false, 3},
		{"森林", battlefield.Context{Terrain: battlefield.Forest}, false, 2},
		{"沼泽", battlefield.Context{Terrain: battlefield.Marsh}, false, 2},
		{"城镇", battlefield.Context{Terrain: battlefield.Urban}, false, 1},
		{"伏击方", battlefield.Context{Terrain: battlefield.Plains, Situation: battlefield.Ambush}, false, 4},
		{"遭伏击", battlefield.Context{Terrain: battlefield.Plains, Situation: battlefield.Ambush}, true, 0},
	}
	for _, c := range cases {
		if got := ClosingDistanceBonus(bows, celt, c.ctx, c.isDefender); got != c.want {
			t.Fatalf("%s: 期望 %d, got=%d", c.name, c.want, got)
		}
	}

	other := archers()
	if got := ClosingDistanceBonus(bows, other, battlefield.Context{Situation: battlefield.Ambush}, false); got != 2 {
		t.Fatalf("双方都有远程时伏击方期望 1+1, got=%d", got)
	}
	if got := ClosingDistanceBonus(celt, bows, battlefield.Context{Terrain: battlefield.Plains}, false); got != 0 {
		t.Fatalf("无远程武器期望 0, got=%d", got)
	}
}

func TestAttackRating_森林弓手(t *testing.T) {
	bows, celt := archers(), celticWarband()
	ctx := battlefield.Context{Terrain: battlefield.Forest, Situation: battlefield.Pitched}
	b := AttackRating(bows, AttackInput{Flags: ctx.EffectiveFlags(battlefield.Attacker, bows.Flags), Opponent: &celt, Context: ctx})
	if b.ClosingDistance != 2 {
		t.Fatalf("期望 2, got=%d", b.ClosingDistance)
	}
	if b.Total != 3+3-1+2 {
		t.Fatalf("期望 7, got=%d", b.Total)
	}
}

func TestRating_下限(t *testing.T) {
	rabble := unit.Unit{ID: "x", Weapons: []string{"club"}, Armor: "none", Shield: "none", Quality: "levy",
		Formation: "wedge", Strength: 10, MaxStrength: 10}
	bad := flag.Of(flag.Surrounded, flag.FormationBroken, flag.Exhausted)

	if b := AttackRating(rabble, AttackInput{Flags: bad}); b.Total != MinAttack || b.Raw >= MinAttack {
		t.Fatalf("攻击应被抬到 1, got=%+v", b)
	}
	if b := DefenseRating(rabble, DefenseInput{Flags: bad}); b.Total != MinDefense || b.Raw >= 0 {
		t.Fatalf("防御应被抬到 0, got=%+v", b)
	}
}

func TestAttackRating_明细包含情境条件(t *testing.T) {
	u := romanLine()
	b := AttackRating(u, AttackInput{Flags: flag.Of(flag.HighGround, flag.Charging)})
	if b.Situational != 4 {
		t.Fatalf("期望 +4, got=%d", b.Situational)
	}
	seen := 0
	for _, e := range b.Entries {
		if e.Source == "situational" {
			seen++
		}
	}
	if seen != 2 {
		t.Fatalf("期望 2 条情境明细, got=%d", seen)
	}
}
