// Package culture 是各文明的静态修正表：准备度、按条件触发的攻防加成、士气和特性。
package culture

import (
	"strings"

	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/preparation"
)

// 特性名。
const (
	WootzSteel             = "wootz_steel"
	RepeatingCrossbowDrill = "repeating_crossbow_drill"
	Castra                 = "castra"
	ParthianShot           = "parthian_shot"
	DruidicRites           = "druidic_rites"
	SarissaDrill           = "sarissa_drill"
)

// Modifiers 是单个文化的修正集合，包初始化后只读。
type Modifiers struct {
	Name             string            `json:"name"`
	PreparationBonus float64           `json:"preparation_bonus"`
	AttackBonuses    map[flag.Flag]int `json:"-"`
	DefenseBonuses   map[flag.Flag]int `json:"-"`
	MoraleBonus      int               `json:"morale_bonus"`
	SpecialTraits    []string          `json:"special_traits,omitempty"`
}

func (m Modifiers) HasTrait(trait string) bool {
	for _, t := range m.SpecialTraits {
		if t == trait {
			return true
		}
	}
	return false
}

// trait 只有在对应条件成立时才生效。
type trait struct {
	gate    flag.Flag
	attack  int
	defense int
}

var traits = map[string]trait{
	WootzSteel:             {gate: flag.HasWootzUpgrade, attack: 2},
	RepeatingCrossbowDrill: {gate: flag.HasRepeatingCrossbow, attack: 1},
	Castra:                 {gate: flag.FortifiedCamp, defense: 2},
	ParthianShot:           {gate: flag.FeignedRetreat, attack: 2},
	DruidicRites:           {gate: flag.SacredGrove, attack: 1, defense: 1},
	SarissaDrill:           {gate: flag.SarissaDrilled, defense: 1},
}

var cultures = map[string]Modifiers{
	"roman": {
		PreparationBonus: 0.3,
		AttackBonuses:    map[flag.Flag]int{flag.ShieldsLocked: 1, flag.Pursuit: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.Fortified: 1, flag.Entrenched: 1},
		MoraleBonus:      2,
		SpecialTraits:    []string{Castra},
	},
	"celtic": {
		AttackBonuses:  map[flag.Flag]int{flag.Charging: 2, flag.ForestTerrain: 1},
		DefenseBonuses: map[flag.Flag]int{flag.InWoods: 1},
		MoraleBonus:    1,
		SpecialTraits:  []string{DruidicRites},
	},
	"greek": {
		PreparationBonus: 0.2,
		AttackBonuses:    map[flag.Flag]int{flag.ShieldsLocked: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.ShieldsLocked: 1, flag.DefendingHomeland: 2},
		MoraleBonus:      2,
	},
	"macedonian": {
		PreparationBonus: 0.2,
		AttackBonuses:    map[flag.Flag]int{flag.Charging: 1, flag.PlainsTerrain: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.ShieldsLocked: 1},
		MoraleBonus:      1,
		SpecialTraits:    []string{SarissaDrill},
	},
	"carthaginian": {
		PreparationBonus: 0.3,
		AttackBonuses:    map[flag.Flag]int{flag.Flanking: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.BehindRiver: 1},
	},
	"persian": {
		PreparationBonus: 0.2,
		AttackBonuses:    map[flag.Flag]int{flag.DesertTerrain: 1, flag.PlainsTerrain: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.Fortified: 1},
	},
	"egyptian": {
		AttackBonuses:  map[flag.Flag]int{flag.DesertTerrain: 1},
		DefenseBonuses: map[flag.Flag]int{flag.DesertTerrain: 1, flag.DefendingHomeland: 1},
		MoraleBonus:    1,
	},
	"germanic": {
		AttackBonuses:  map[flag.Flag]int{flag.ForestTerrain: 2, flag.Charging: 1},
		DefenseBonuses: map[flag.Flag]int{flag.InWoods: 2},
		MoraleBonus:    1,
	},
	"scythian": {
		PreparationBonus: 0.2,
		AttackBonuses:    map[flag.Flag]int{flag.PlainsTerrain: 2, flag.Pursuit: 1},
		SpecialTraits:    []string{ParthianShot},
	},
	"parthian": {
		PreparationBonus: 0.1,
		AttackBonuses:    map[flag.Flag]int{flag.PlainsTerrain: 1, flag.DesertTerrain: 1},
		SpecialTraits:    []string{ParthianShot},
	},
	"han": {
		PreparationBonus: 0.4,
		AttackBonuses:    map[flag.Flag]int{flag.Fortified: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.Fortified: 2},
		MoraleBonus:      1,
		SpecialTraits:    []string{RepeatingCrossbowDrill},
	},
	"indian": {
		AttackBonuses:  map[flag.Flag]int{flag.Charging: 1},
		DefenseBonuses: map[flag.Flag]int{flag.DefendingHomeland: 1},
		SpecialTraits:  []string{WootzSteel},
	},
	"iberian": {
		PreparationBonus: 0.2,
		AttackBonuses:    map[flag.Flag]int{flag.HillsTerrain: 1, flag.MountainTerrain: 1, flag.Flanking: 1},
		DefenseBonuses:   map[flag.Flag]int{flag.HillsTerrain: 1},
	},
	"norse": {
		AttackBonuses:  map[flag.Flag]int{flag.Charging: 2, flag.RiverTerrain: 1},
		DefenseBonuses: map[flag.Flag]int{flag.ShieldsLocked: 1},
		MoraleBonus:    2,
	},
}

func init() {
	for name, m := range cultures {
		m.Name = name
		cultures[name] = m
	}
}

// Lookup 按名字（不区分大小写）取修正；未登记的文化返回空集合。
func Lookup(name string) Modifiers {
	m, ok := cultures[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Modifiers{Name: name}
	}
	return m
}

// Names 返回所有登记的文化名。
func Names() []string {
	out := make([]string, 0, len(cultures))
	for n := range cultures {
		out = append(out, n)
	}
	return out
}

// ApplyAttack 在 base 上加上文化攻击加成与满足条件的特性加成。
func ApplyAttack(base int, culture string, flags flag.Set) int {
	m := Lookup(culture)
	return base + sumBonuses(m.AttackBonuses, flags) + m.traitBonus(flags, func(t trait) int { return t.attack })
}

// ApplyDefense 同 ApplyAttack，使用防御加成。
func ApplyDefense(base int, culture string, flags flag.Set) int {
	m := Lookup(culture)
	return base + sumBonuses(m.DefenseBonuses, flags) + m.traitBonus(flags, func(t trait) int { return t.defense })
}

// ApplyPreparation 叠加文化准备度并重新夹取。
func ApplyPreparation(r preparation.Result, culture string) preparation.Result {
	m := Lookup(culture)
	return r.WithBonus(preparation.Culture, m.Name, m.PreparationBonus)
}

func sumBonuses(table map[flag.Flag]int, flags flag.Set) int {
	total := 0
	for f, d := range table {
		if flags.Has(f) {
			total += d
		}
	}
	return total
}

func (m Modifiers) traitBonus(flags flag.Set, pick func(trait) int) int {
	total := 0
	for _, name := range m.SpecialTraits {
		t, ok := traits[name]
		if ok && flags.Has(t.gate) {
			total += pick(t)
		}
	}
	return total
}
