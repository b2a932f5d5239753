package roster

import (
	"errors"
	"testing"

	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/modules/kit/errx"
)

func TestDefault_内置模板可用(t *testing.T) {
	lib := Default()
	if len(lib.IDs()) < 20 {
		t.Fatalf("内置模板过少: %d", len(lib.IDs()))
	}
	for _, id := range lib.IDs() {
		tpl, _ := lib.Get(id)
		for _, w := range tpl.Weapons {
			if _, ok := tables.WeaponAttack(w); !ok {
				t.Fatalf("%s 使用了未登记的武器 %s", id, w)
			}
		}
	}
	tpl, ok := lib.Get("macedonian_phalangite")
	if !ok || !tpl.Flags.Has(flag.SarissaDrilled) {
		t.Fatalf("方阵兵应带 sarissaDrilled: %+v", tpl)
	}
}

func TestBuild_覆盖字段与缺省id(t *testing.T) {
	r, err := Default().Build("atk", []Ref{
		{Template: "roman_legionary", Strength: 300},
		{Template: "roman_equites", ID: "eq", Formation: "column", Flags: flag.Of(flag.Charging)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r[0].ID != "atk-1" || r[0].Strength != 300 || r[0].MaxStrength != 480 {
		t.Fatalf("第一个单位不符: %+v", r[0])
	}
	if r[1].ID != "eq" || r[1].Formation != "column" || !r[1].Flags.Has(flag.Charging) || !r[1].Mounted {
		t.Fatalf("第二个单位不符: %+v", r[1])
	}
}

func TestInstantiate_错误(t *testing.T) {
	_, err := Default().Instantiate(Ref{Template: "war_elephant"}, "x")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("期望 ErrUnknownTemplate, got=%v", err)
	}
	_, err = Default().Instantiate(Ref{Template: "norse_berserker", Strength: 1000}, "x")
	if !errors.Is(err, errx.ErrReqParamERR) || !errors.Is(err, unit.ErrStrengthOutOfRange) {
		t.Fatalf("兵力超上限应为参数错误并保留原因, got=%v", err)
	}
}

func TestParse_拒绝未知字段与未知条件(t *testing.T) {
	if _, err := Parse([]byte("x:\n  weapons: [spear]\n  max_strength: 10\n  colour: red\n")); err == nil {
		t.Fatalf("未知字段应报错")
	}
	if _, err := Parse([]byte("x:\n  weapons: [spear]\n  max_strength: 10\n  flags: [hihgGround]\n")); err == nil {
		t.Fatalf("拼错的条件应报错")
	}
	if _, err := Parse([]byte("x:\n  weapons: []\n  max_strength: 10\n")); err == nil {
		t.Fatalf("缺武器应报错")
	}
}
