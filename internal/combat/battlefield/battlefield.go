// Package battlefield 描述一次交战的环境：地形、天气、时间、密度、局面、阵型/指挥状态
// 以及双方已知的情境条件。它每回合由调用方重建，引擎不持久化它。
package battlefield

import "AncientWarfare/internal/combat/flag"

type Terrain string

const (
	Plains    Terrain = "plains"
	Forest    Terrain = "forest"
	Hills     Terrain = "hills"
	Marsh     Terrain = "marsh"
	Desert    Terrain = "desert"
	Urban     Terrain = "urban"
	River     Terrain = "river"
	Mountains Terrain = "mountains"
)

type Weather string

const (
	Clear    Weather = "clear"
	Overcast Weather = "overcast"
	Wind     Weather = "wind"
	Rain     Weather = "rain"
	Fog      Weather = "fog"
	Snow     Weather = "snow"
	Storm    Weather = "storm"
)

type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Dawn  TimeOfDay = "dawn"
	Dusk  TimeOfDay = "dusk"
	Night TimeOfDay = "night"
)

// Density 是单位密度档位。
type Density string

const (
	Sparse   Density = "sparse"
	Light    Density = "light"
	Moderate Density = "moderate"
	Dense    Density = "dense"
	Crowded  Density = "crowded"
	Packed   Density = "packed"
)

// Situation 是交战局面标签。
type Situation string

const (
	Skirmish      Situation = "skirmish"
	Pitched       Situation = "pitched"
	Siege         Situation = "siege"
	Assault       Situation = "assault"
	Ambush        Situation = "ambush"
	RiverCrossing Situation = "river_crossing"
	Rout          Situation = "rout"
)

type FormationState string

const (
	Intact     FormationState = "intact"
	Shaken     FormationState = "shaken"
	Disordered FormationState = "disordered"
	Broken     FormationState = "broken"
	Routed     FormationState = "routed"
)

type CommandState string

const (
	Unified    CommandState = "unified"
	Delayed    CommandState = "delayed"
	Confused   CommandState = "confused"
	Divided    CommandState = "divided"
	Leaderless CommandState = "leaderless"
)

// Role 是单位在本次交战中的身份：发起方或防守方。
type Role uint8

const (
	Attacker Role = iota
	Defender
)

func (r Role) String() string {
	if r == Defender {
		return "defender"
	}
	return "attacker"
}

// Opponent 返回对方身份。
func (r Role) Opponent() Role {
	if r == Defender {
		return Attacker
	}
	return Defender
}

var terrainFlags = map[Terrain]flag.Flag{
	Plains:    flag.PlainsTerrain,
	Forest:    flag.ForestTerrain,
	Hills:     flag.HillsTerrain,
	Marsh:     flag.MarshTerrain,
	Desert:    flag.DesertTerrain,
	Urban:     flag.UrbanTerrain,
	River:     flag.RiverTerrain,
	Mountains: flag.MountainTerrain,
}

// Context 是一次交战的全部条件。
//
// Flags 为双方共有的条件；AttackerFlags/DefenderFlags 只作用于对应一方，
// 由战争迷雾模块决定哪些条件对哪一方“可知”后填入。
type Context struct {
	Terrain        Terrain        `json:"terrain" yaml:"terrain"`
	Weather        Weather        `json:"weather" yaml:"weather"`
	TimeOfDay      TimeOfDay      `json:"time_of_day" yaml:"time_of_day"`
	Density        Density        `json:"density" yaml:"density"`
	Situation      Situation      `json:"situation" yaml:"situation"`
	FormationState FormationState `json:"formation_state" yaml:"formation_state"`
	CommandState   CommandState   `json:"command_state" yaml:"command_state"`
	Flags          flag.Set       `json:"flags" yaml:"flags"`
	AttackerFlags  flag.Set       `json:"attacker_flags" yaml:"attacker_flags"`
	DefenderFlags  flag.Set       `json:"defender_flags" yaml:"defender_flags"`
	Specials       []Special      `json:"specials,omitempty" yaml:"specials,omitempty"`
}

func (c Context) IsAmbush() bool {
	return c.Situation == Ambush
}

// SideFlags 返回只对 role 一方生效的条件。
func (c Context) SideFlags(role Role) flag.Set {
	if role == Defender {
		return c.DefenderFlags
	}
	return c.AttackerFlags
}

// TerrainFlag 返回地形派生的条件；未知地形返回 flag.None。
func (c Context) TerrainFlag() flag.Flag {
	return terrainFlags[c.Terrain]
}

// EffectiveFlags 合并共有条件、一方条件、单位自身条件与地形派生条件。
func (c Context) EffectiveFlags(role Role, unitFlags flag.Set) flag.Set {
	out := c.Flags.Union(c.SideFlags(role)).Union(unitFlags)
	out.Add(c.TerrainFlag())
	return out
}

// Clone 复制 Specials，避免调用方后续修改影响本回合。
func (c Context) Clone() Context {
	out := c
	if c.Specials != nil {
		out.Specials = append([]Special(nil), c.Specials...)
	}
	return out
}
