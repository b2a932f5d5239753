package preparation

import (
	"math"
	"testing"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/flag"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCalculate_基础值(t *testing.T) {
	r := Calculate(Conditions{}, battlefield.Attacker)
	if !near(r.Level, 1.0) || r.Capped || len(r.Breakdown) != 0 {
		t.Fatalf("期望 1.0, got=%+v", r)
	}
}

func TestCalculate_分类加成(t *testing.T) {
	flags := flag.Of(flag.FortifiedPosition, flag.EnemyScouted, flag.DrilledManeuvers, flag.HighMorale)
	r := Calculate(Conditions{Flags: flags}, battlefield.Defender)
	if !near(r.Level, 1.0+0.4+0.3+0.3+0.3) {
		t.Fatalf("期望 2.3, got=%v", r.Level)
	}
}

func TestCalculate_身份专属加成(t *testing.T) {
	flags := flag.Of(flag.AmbushAdvantage, flag.PreparedPosition)
	if r := Calculate(Conditions{Flags: flags}, battlefield.Attacker); !near(r.Level, 2.2) {
		t.Fatalf("进攻方只拿伏击优势 +1.2, got=%v", r.Level)
	}
	if r := Calculate(Conditions{Flags: flags}, battlefield.Defender); !near(r.Level, 1.3) {
		t.Fatalf("防守方只拿预设阵地 +0.3, got=%v", r.Level)
	}
}

func TestCalculate_森林近战伏击(t *testing.T) {
	c := Conditions{Terrain: battlefield.Forest, Situation: battlefield.Ambush, Melee: true}
	if r := Calculate(c, battlefield.Attacker); !near(r.Level, 3.0) {
		t.Fatalf("期望 3.0, got=%v", r.Level)
	}
	c.Melee = false
	if r := Calculate(c, battlefield.Attacker); !near(r.Level, 1.0) {
		t.Fatalf("远程单位不吃森林伏击加成, got=%v", r.Level)
	}
	c.Melee = true
	if r := Calculate(c, battlefield.Defender); !near(r.Level, 1.0) {
		t.Fatalf("防守方不吃森林伏击加成, got=%v", r.Level)
	}
}

func TestCalculate_夹取(t *testing.T) {
	bad := flag.Of(flag.Surprised, flag.Surrounded, flag.Ambushed)
	r := Calculate(Conditions{Flags: bad}, battlefield.Defender)
	if !near(r.Level, Minimum) || !r.Capped || !near(r.RawTotal, -1.5) {
		t.Fatalf("期望夹到 0.5, got=%+v", r)
	}

	all := flag.Of(flag.TimeToPrepare, flag.FortifiedPosition, flag.FavorableGround, flag.RestedTroops,
		flag.EnemyScouted, flag.KnownEnemyComposition, flag.LocalGuides, flag.InterceptedOrders,
		flag.ClearChainOfCommand, flag.DrilledManeuvers, flag.AmbushAdvantage, flag.FirstStrike)
	r = Calculate(Conditions{Flags: all}, battlefield.Attacker)
	if !near(r.Level, Maximum) || !r.Capped {
		t.Fatalf("期望封顶 4.0, got=%+v", r)
	}
}

func TestCalculate_任意组合都在范围内(t *testing.T) {
	all := flag.All()
	for i := range all {
		for j := i; j < len(all); j += 7 {
			fs := flag.Of(all[i], all[j], all[(i+j)%len(all)])
			for _, role := range []battlefield.Role{battlefield.Attacker, battlefield.Defender} {
				r := Calculate(Conditions{Flags: fs, Terrain: battlefield.Forest, Situation: battlefield.Ambush, Melee: true}, role)
				if r.Level < Minimum || r.Level > Maximum {
					t.Fatalf("越界 %v flags=%v", r.Level, fs.Names())
				}
			}
		}
	}
}

func TestWithBonus_重新夹取且不改原值(t *testing.T) {
	base := Calculate(Conditions{Flags: flag.Of(flag.EnemyScouted)}, battlefield.Attacker)
	up := base.WithBonus(Culture, "roman", 3.0)
	if !near(up.Level, Maximum) || !up.Capped {
		t.Fatalf("期望封顶, got=%+v", up)
	}
	if len(base.Breakdown) != 1 || !near(base.Level, 1.3) {
		t.Fatalf("原结果被修改: %+v", base)
	}
}

func TestAttrition(t *testing.T) {
	if got := ChaosModifier(2, 3.5); got != 1 {
		t.Fatalf("准备度高于混乱时修正下限为 1, got=%v", got)
	}
	if got := ChaosModifier(8, 1.5); !near(got, 6.5) {
		t.Fatalf("期望 6.5, got=%v", got)
	}
	if got := AttritionFactor(8, 1.5, 0); !near(got, 1-6.5*0.05) {
		t.Fatalf("期望 0.675, got=%v", got)
	}
	if got := AttritionFactor(10, 0.5, 0.2); got != 0 {
		t.Fatalf("损耗不应为负, got=%v", got)
	}
}
