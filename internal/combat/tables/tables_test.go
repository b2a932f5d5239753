package tables

import (
	"testing"

	"AncientWarfare/internal/combat/flag"
)

func TestWeaponAttack_未知武器保底(t *testing.T) {
	if v, ok := WeaponAttack("roman_gladius"); !ok || v != 5 {
		t.Fatalf("roman_gladius 应为 5, got=%d ok=%v", v, ok)
	}
	if v, ok := WeaponAttack("laser_sword"); ok || v != UnknownWeaponAttack {
		t.Fatalf("未知武器应返回保底 %d, got=%d ok=%v", UnknownWeaponAttack, v, ok)
	}
}

func TestFormation_攻防表独立(t *testing.T) {
	if FormationDefense(Testudo) != 6 || FormationAttack(Testudo) != -2 {
		t.Fatalf("testudo 应为 防御+6/进攻-2, got def=%d atk=%d", FormationDefense(Testudo), FormationAttack(Testudo))
	}
	if FormationAttack("unknown") != 0 || FormationDefense("unknown") != 0 {
		t.Fatalf("未知阵型应为 0")
	}
}

func TestTraining_档位(t *testing.T) {
	cases := []struct {
		quality  string
		atk, def int
	}{
		{Levy, 0, 0},
		{Tribal, 2, 1},
		{Professional, 4, 3},
		{Elite, 6, 5},
		{"mythic", 0, 0},
	}
	for _, c := range cases {
		if got := TrainingAttack(c.quality); got != c.atk {
			t.Fatalf("TrainingAttack(%s)=%d, want %d", c.quality, got, c.atk)
		}
		if got := TrainingDefense(c.quality); got != c.def {
			t.Fatalf("TrainingDefense(%s)=%d, want %d", c.quality, got, c.def)
		}
	}
}

func TestSituational_只累加登记过的条件(t *testing.T) {
	flags := flag.Of(flag.HighGround, flag.Flanked, flag.EnemyScouted)
	var visited []flag.Flag
	got := SituationalAttack(flags, func(f flag.Flag, _ int) { visited = append(visited, f) })
	if got != 0 { // +2 高地，-2 被侧击
		t.Fatalf("期望 0, got=%d", got)
	}
	if len(visited) != 2 {
		t.Fatalf("敌情侦察不属于攻击表, visited=%v", visited)
	}
	if d := SituationalDefense(flags, nil); d != -1 {
		t.Fatalf("防御应为 +2-3=-1, got=%d", d)
	}
}

func TestWeaponClasses(t *testing.T) {
	if !IsRanged("composite_bow") || IsRanged("spear") {
		t.Fatalf("远程武器分类错误")
	}
	if !IsSpear("sarissa") || IsSpear("bow") {
		t.Fatalf("长矛类武器分类错误")
	}
	if !BracesAgainstCavalry(ShieldWall) || BracesAgainstCavalry(Loose) {
		t.Fatalf("结阵分类错误")
	}
}
