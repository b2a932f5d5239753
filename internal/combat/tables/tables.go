// Package tables 是攻防评分用的静态查表数据。
//
// 所有表在包初始化后只读；查不到的键返回安全的保底值，从不报错，
// 这样一条未来才会配置的武器或阵型不会让整回合结算失败。
package tables

import "AncientWarfare/internal/combat/flag"

// UnknownWeaponAttack 是未登记武器的保底攻击值。
const UnknownWeaponAttack = 2

// 常用阵型 id。
const (
	Line             = "line"
	Phalanx          = "phalanx"
	ShieldWall       = "shield_wall"
	Testudo          = "testudo"
	Wedge            = "wedge"
	Loose            = "loose"
	Skirmish         = "skirmish"
	Square           = "square"
	Column           = "column"
	Berserker        = "berserker"
	CantabrianCircle = "cantabrian_circle"
	Horde            = "horde"
)

// 训练/素质档位。
const (
	Levy         = "levy"
	Militia      = "militia"
	Tribal       = "tribal"
	Regular      = "regular"
	Professional = "professional"
	Veteran      = "veteran"
	Elite        = "elite"
)

var weaponAttack = map[string]int{
	"roman_gladius":      5,
	"celtic_longsword":   5,
	"spatha":             5,
	"falcata":            5,
	"kopis":              5,
	"xiphos":             4,
	"dao":                4,
	"jian":               4,
	"ji":                 5,
	"axe":                5,
	"dane_axe":           6,
	"talwar":             5,
	"khopesh":            4,
	"mace":               4,
	"club":               2,
	"dagger":             2,
	"spear":              4,
	"hoplite_spear":      4,
	"pike":               4,
	"sarissa":            5,
	"lance":              6,
	"kontos":             6,
	"javelin":            3,
	"pilum":              4,
	"bow":                3,
	"composite_bow":      4,
	"longbow":            4,
	"crossbow":           5,
	"repeating_crossbow": 4,
	"sling":              2,
}

var rangedWeapons = map[string]struct{}{
	"javelin":            {},
	"pilum":              {},
	"bow":                {},
	"composite_bow":      {},
	"longbow":            {},
	"crossbow":           {},
	"repeating_crossbow": {},
	"sling":              {},
}

var spearWeapons = map[string]struct{}{
	"spear":         {},
	"hoplite_spear": {},
	"pike":          {},
	"sarissa":       {},
	"ji":            {},
	"lance":         {},
	"kontos":        {},
}

var trainingAttack = map[string]int{
	Levy:         0,
	Militia:      1,
	Tribal:       2,
	Regular:      3,
	Professional: 4,
	Veteran:      5,
	Elite:        6,
}

var trainingDefense = map[string]int{
	Levy:         0,
	Militia:      1,
	Tribal:       1,
	Regular:      2,
	Professional: 3,
	Veteran:      4,
	Elite:        5,
}

// 同一个阵型在攻防两张表里是独立取值，不是简单取反：龟甲阵防御 +6、进攻 -2。
var formationAttack = map[string]int{
	Line:             1,
	Phalanx:          2,
	ShieldWall:       0,
	Testudo:          -2,
	Wedge:            3,
	Loose:            0,
	Skirmish:         -1,
	Square:           -1,
	Column:           -1,
	Berserker:        3,
	CantabrianCircle: 1,
	Horde:            1,
}

var formationDefense = map[string]int{
	Line:             2,
	Phalanx:          4,
	ShieldWall:       5,
	Testudo:          6,
	Wedge:            -1,
	Loose:            0,
	Skirmish:         1,
	Square:           3,
	Column:           -1,
	Berserker:        -2,
	CantabrianCircle: 1,
	Horde:            -1,
}

var armorDefense = map[string]int{
	"none":       0,
	"light":      2,
	"medium":     4,
	"heavy":      6,
	"lamellar":   5,
	"cataphract": 7,
}

var shieldDefense = map[string]int{
	"none":   0,
	"small":  1,
	"medium": 2,
	"large":  3,
	"tower":  4,
}

// 面对骑兵时能结阵抵御冲击的阵型。
var braceFormations = map[string]struct{}{
	Line:       {},
	Phalanx:    {},
	Square:     {},
	ShieldWall: {},
}

var situationalAttack = map[flag.Flag]int{
	flag.HighGround:       2,
	flag.Flanking:         2,
	flag.RearAttack:       3,
	flag.Charging:         2,
	flag.Downhill:         1,
	flag.Uphill:           -1,
	flag.Flanked:          -2,
	flag.Surrounded:       -3,
	flag.Exhausted:        -2,
	flag.CrossingObstacle: -2,
	flag.FormationBroken:  -3,
	flag.Ambushed:         -2,
	flag.Surprised:        -2,
	flag.NightAttack:      -1,
	flag.LowMorale:        -1,
	flag.HighMorale:       1,
}

var situationalDefense = map[flag.Flag]int{
	flag.HighGround:       2,
	flag.Fortified:        4,
	flag.Entrenched:       2,
	flag.BehindRiver:      2,
	flag.InWoods:          1,
	flag.ShieldsLocked:    1,
	flag.Flanked:          -3,
	flag.Surrounded:       -4,
	flag.Exhausted:        -2,
	flag.CrossingObstacle: -3,
	flag.FormationBroken:  -4,
	flag.Ambushed:         -3,
	flag.Surprised:        -3,
	flag.Charging:         -1,
	flag.LowMorale:        -1,
}
