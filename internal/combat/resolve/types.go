package resolve

import (
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/breakthrough"
	"AncientWarfare/internal/combat/casualty"
	"AncientWarfare/internal/combat/chaos"
	"AncientWarfare/internal/combat/unit"
)

// 胜负结果。
const (
	WinnerNone     = ""
	WinnerAttacker = "attacker"
	WinnerDefender = "defender"
	WinnerDraw     = "draw"
)

// TurnInput 是一回合结算的全部输入。引擎不修改其中任何切片或 map。
type TurnInput struct {
	Turn     int
	Context  battlefield.Context
	Attacker unit.Roster
	Defender unit.Roster
	History  []breakthrough.DamageRecord
	Buckets  casualty.Buckets
}

// UnitTurn 是单个单位在本回合的贡献。
type UnitTurn struct {
	UnitID      string  `json:"unit_id"`
	OpponentID  string  `json:"opponent_id,omitempty"`
	Attack      int     `json:"attack"`
	Defense     int     `json:"defense"`
	Preparation float64 `json:"preparation"`
	Attrition   float64 `json:"attrition"`
	Loss        int     `json:"loss"`
}

// ArmyTurn 是一方在本回合的汇总。DamageTaken/Casualties 是这一方承受的。
type ArmyTurn struct {
	Attack      float64    `json:"attack"`
	Defense     float64    `json:"defense"`
	Roll        int        `json:"roll"`
	Multiplier  float64    `json:"multiplier"`
	DamageTaken float64    `json:"damage_taken"`
	Casualties  int        `json:"casualties"`
	Strength    int        `json:"strength"`
	MaxStrength int        `json:"max_strength"`
	Broken      bool       `json:"broken"`
	Units       []UnitTurn `json:"units"`
}

type TurnResult struct {
	Turn         int                         `json:"turn"`
	Chaos        chaos.Result                `json:"chaos"`
	Attacker     ArmyTurn                    `json:"attacker"`
	Defender     ArmyTurn                    `json:"defender"`
	Breakthrough breakthrough.State          `json:"breakthrough"`
	Narrative    []string                    `json:"narrative"`
	History      []breakthrough.DamageRecord `json:"-"`
	Buckets      casualty.Buckets            `json:"-"`
	AttackerArmy unit.Roster                 `json:"-"`
	DefenderArmy unit.Roster                 `json:"-"`
	Finished     bool                        `json:"finished"`
	Winner       string                      `json:"winner,omitempty"`
}
