// Package flag 定义战斗中所有“具名布尔条件”（高地、被侧击、伏击……）。
//
// 条件是一个封闭集合：新增条件必须在这里登记，计算器里的表才能引用它，
// 拼写错误会在解析配置/请求时直接报错，而不是静默失效。
package flag

import "fmt"

// Flag 是单个情境条件。
type Flag uint8

const (
	None Flag = iota

	// 情境条件（攻防评分表）
	HighGround
	Flanking
	RearAttack
	Charging
	Downhill
	Uphill
	Flanked
	Surrounded
	Exhausted
	CrossingObstacle
	FormationBroken
	Ambushed
	Surprised
	NightAttack
	LowMorale
	HighMorale
	Fortified
	Entrenched
	BehindRiver
	InWoods
	ShieldsLocked

	// 由地形自动派生
	PlainsTerrain
	ForestTerrain
	HillsTerrain
	MarshTerrain
	DesertTerrain
	UrbanTerrain
	RiverTerrain
	MountainTerrain

	// 准备度：时间/位置
	TimeToPrepare
	FortifiedPosition
	FavorableGround
	RestedTroops
	// 准备度：情报
	EnemyScouted
	KnownEnemyComposition
	LocalGuides
	InterceptedOrders
	// 准备度：协同
	ClearChainOfCommand
	DrilledManeuvers
	SignalsEstablished
	CombinedArms
	// 准备度：环境适应
	TerrainAdapted
	WeatherAdapted
	NightTrained
	Acclimated
	// 准备度：战术优势
	ReservesAvailable
	SecureFlanks
	SuperiorNumbers
	StrongPosition
	// 准备度：士气/战备（HighMorale 复用上面的情境条件）
	RecentVictory
	WellSupplied
	ReligiousFervor

	// 准备度惩罚（与情境条件重叠的不再重复定义）
	UnknownEnemy
	PoorSupply
	CommanderDown

	// 进攻方专属
	InitiativeAdvantage
	MomentumCharge
	ChosenBattlefield
	ConcentratedAssault
	TacticalSurprise
	AmbushAdvantage
	FirstStrike

	// 防守方专属
	PreparedPosition
	TerrainKnowledge
	SecureSupplies
	DefensiveOptimization
	InteriorLines

	// 文化特性的开关
	HasWootzUpgrade
	HasRepeatingCrossbow
	FortifiedCamp
	FeignedRetreat
	SacredGrove
	SarissaDrilled
	DefendingHomeland
	Pursuit

	numFlags
)

var names = [numFlags]string{
	None:                  "none",
	HighGround:            "highGround",
	Flanking:              "flanking",
	RearAttack:            "rearAttack",
	Charging:              "charging",
	Downhill:              "downhill",
	Uphill:                "uphill",
	Flanked:               "flanked",
	Surrounded:            "surrounded",
	Exhausted:             "exhausted",
	CrossingObstacle:      "crossingObstacle",
	FormationBroken:       "formationBroken",
	Ambushed:              "ambushed",
	Surprised:             "surprised",
	NightAttack:           "nightAttack",
	LowMorale:             "lowMorale",
	HighMorale:            "highMorale",
	Fortified:             "fortified",
	Entrenched:            "entrenched",
	BehindRiver:           "behindRiver",
	InWoods:               "inWoods",
	ShieldsLocked:         "shieldsLocked",
	PlainsTerrain:         "plainsTerrain",
	ForestTerrain:         "forestTerrain",
	HillsTerrain:          "hillsTerrain",
	MarshTerrain:          "marshTerrain",
	DesertTerrain:         "desertTerrain",
	UrbanTerrain:          "urbanTerrain",
	RiverTerrain:          "riverTerrain",
	MountainTerrain:       "mountainTerrain",
	TimeToPrepare:         "timeToPrepare",
	FortifiedPosition:     "fortifiedPosition",
	FavorableGround:       "favorableGround",
	RestedTroops:          "restedTroops",
	EnemyScouted:          "enemyScouted",
	KnownEnemyComposition: "knownEnemyComposition",
	LocalGuides:           "localGuides",
	InterceptedOrders:     "interceptedOrders",
	ClearChainOfCommand:   "clearChainOfCommand",
	DrilledManeuvers:      "drilledManeuvers",
	SignalsEstablished:    "signalsEstablished",
	CombinedArms:          "combinedArms",
	TerrainAdapted:        "terrainAdapted",
	WeatherAdapted:        "weatherAdapted",
	NightTrained:          "nightTrained",
	Acclimated:            "acclimated",
	ReservesAvailable:     "reservesAvailable",
	SecureFlanks:          "secureFlanks",
	SuperiorNumbers:       "superiorNumbers",
	StrongPosition:        "strongPosition",
	RecentVictory:         "recentVictory",
	WellSupplied:          "wellSupplied",
	ReligiousFervor:       "religiousFervor",
	UnknownEnemy:          "unknownEnemy",
	PoorSupply:            "poorSupply",
	CommanderDown:         "commanderDown",
	InitiativeAdvantage:   "initiativeAdvantage",
	MomentumCharge:        "momentumCharge",
	ChosenBattlefield:     "chosenBattlefield",
	ConcentratedAssault:   "concentratedAssault",
	TacticalSurprise:      "tacticalSurprise",
	AmbushAdvantage:       "ambushAdvantage",
	FirstStrike:           "firstStrike",
	PreparedPosition:      "preparedPosition",
	TerrainKnowledge:      "terrainKnowledge",
	SecureSupplies:        "secureSupplies",
	DefensiveOptimization: "defensiveOptimization",
	InteriorLines:         "interiorLines",
	HasWootzUpgrade:       "hasWootzUpgrade",
	HasRepeatingCrossbow:  "hasRepeatingCrossbow",
	FortifiedCamp:         "fortifiedCamp",
	FeignedRetreat:        "feignedRetreat",
	SacredGrove:           "sacredGrove",
	SarissaDrilled:        "sarissaDrilled",
	DefendingHomeland:     "defendingHomeland",
	Pursuit:               "pursuit",
}

var byName = func() map[string]Flag {
	m := make(map[string]Flag, numFlags)
	for f := Flag(1); f < numFlags; f++ {
		m[names[f]] = f
	}
	return m
}()

func (f Flag) String() string {
	if f >= numFlags {
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
	return names[f]
}

// Valid 报告 f 是否是登记过的条件（None 不算）。
func (f Flag) Valid() bool {
	return f > None && f < numFlags
}

// Parse 按名字查找条件。名字区分大小写，与请求/配置里的写法一致。
func Parse(name string) (Flag, error) {
	f, ok := byName[name]
	if !ok {
		return None, fmt.Errorf("unknown situational flag %q", name)
	}
	return f, nil
}

// MustParse 用于静态表初始化，名字写错直接 panic。
func MustParse(name string) Flag {
	f, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return f
}

// All 返回全部登记的条件，按定义顺序。
func All() []Flag {
	out := make([]Flag, 0, numFlags-1)
	for f := Flag(1); f < numFlags; f++ {
		out = append(out, f)
	}
	return out
}
