package battlefield

import (
	"errors"
	"testing"

	"AncientWarfare/internal/combat/flag"
)

func TestEffectiveFlags_合并各层条件(t *testing.T) {
	ctx := Context{
		Terrain:       Forest,
		Flags:         flag.Of(flag.NightAttack),
		AttackerFlags: flag.Of(flag.AmbushAdvantage),
		DefenderFlags: flag.Of(flag.Surprised),
	}

	atk := ctx.EffectiveFlags(Attacker, flag.Of(flag.Charging))
	for _, f := range []flag.Flag{flag.NightAttack, flag.AmbushAdvantage, flag.Charging, flag.ForestTerrain} {
		if !atk.Has(f) {
			t.Fatalf("进攻方应有 %v, got=%v", f, atk.Names())
		}
	}
	if atk.Has(flag.Surprised) {
		t.Fatalf("防守方的条件不应泄露给进攻方")
	}

	def := ctx.EffectiveFlags(Defender, flag.Set{})
	if !def.Has(flag.Surprised) || def.Has(flag.AmbushAdvantage) {
		t.Fatalf("防守方条件不对: %v", def.Names())
	}
}

func TestEffectiveFlags_未知地形不派生(t *testing.T) {
	ctx := Context{Terrain: "swamp_of_sorrows"}
	if got := ctx.EffectiveFlags(Attacker, flag.Set{}); !got.Empty() {
		t.Fatalf("未知地形不应派生条件, got=%v", got.Names())
	}
}

func TestSpecial_预设与自定义(t *testing.T) {
	if got := (Special{Name: "three_way_battle"}).ResolvedDelta(); got != 2 {
		t.Fatalf("three_way_battle 预设应为 +2, got=%d", got)
	}
	if got := (Special{Name: "blood_feud"}).ResolvedDelta(); got != -1 {
		t.Fatalf("blood_feud 预设应为 -1, got=%d", got)
	}
	if got := (Special{Name: "omens", Delta: 3}).ResolvedDelta(); got != 3 {
		t.Fatalf("自定义修正应原样生效, got=%d", got)
	}
	if got := (Special{Name: "omens"}).ResolvedDelta(); got != 0 {
		t.Fatalf("未知且无值的修正应为 0, got=%d", got)
	}
}

func TestClone_不共享Specials(t *testing.T) {
	ctx := Context{Specials: []Special{{Name: "civil_war"}}}
	cp := ctx.Clone()
	cp.Specials[0].Name = "blood_feud"
	if ctx.Specials[0].Name != "civil_war" {
		t.Fatalf("Clone 后修改不应影响原值")
	}
}

func TestValidate_特殊修正须有预设或显式值(t *testing.T) {
	ok := Context{Specials: []Special{{Name: "blood_feud"}, {Name: "omens", Delta: 2}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("预设名与显式值都应通过, got=%v", err)
	}
	bad := Context{Specials: []Special{{Name: "civil_war"}, {Name: "omens"}}}
	err := bad.Validate()
	if !errors.Is(err, ErrUnknownSpecial) {
		t.Fatalf("期望 ErrUnknownSpecial, got=%v", err)
	}
	if p, found := Preset("mercenary_betrayal"); !found || p.Delta != 3 {
		t.Fatalf("期望预设 +3, got=%+v found=%v", p, found)
	}
}
