// Package unit 是单位在战斗计算中的投影：只保留攻防、阵型、兵力等与结算相关的字段。
package unit

import (
	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/modules/kit/errx"
)

const CodeStrengthOutOfRange errx.Code = "COMBAT_STRENGTH_OUT_OF_RANGE"

// ErrStrengthOutOfRange 表示兵力不在 [0, MaxStrength]，属于调用方或计算器的逻辑缺陷。
var ErrStrengthOutOfRange = errx.NewSys(CodeStrengthOutOfRange, "兵力越界")

type Unit struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Weapons     []string `json:"weapons" yaml:"weapons"` // 第一个是主武器
	Armor       string   `json:"armor" yaml:"armor"`
	Shield      string   `json:"shield" yaml:"shield"`
	Quality     string   `json:"quality" yaml:"quality"`
	Formation   string   `json:"formation" yaml:"formation"`
	Mounted     bool     `json:"mounted,omitempty" yaml:"mounted,omitempty"`
	Strength    int      `json:"strength" yaml:"strength"`
	MaxStrength int      `json:"max_strength" yaml:"max_strength"`
	Culture     string   `json:"culture,omitempty" yaml:"culture,omitempty"`
	Flags       flag.Set `json:"flags" yaml:"flags,omitempty"`
}

// Validate 检查兵力不变量 0 ≤ Strength ≤ MaxStrength。
func (u Unit) Validate() error {
	if u.MaxStrength <= 0 || u.Strength < 0 || u.Strength > u.MaxStrength {
		return ErrStrengthOutOfRange.WithDataMap(map[string]any{
			"unit_id":      u.ID,
			"strength":     u.Strength,
			"max_strength": u.MaxStrength,
		}).WithStack()
	}
	return nil
}

func (u Unit) PrimaryWeapon() string {
	if len(u.Weapons) == 0 {
		return ""
	}
	return u.Weapons[0]
}

// HasRanged 报告单位是否携带任意远程武器。
func (u Unit) HasRanged() bool {
	for _, w := range u.Weapons {
		if tables.IsRanged(w) {
			return true
		}
	}
	return false
}

// PrimaryRanged 报告主武器是否为远程武器。
func (u Unit) PrimaryRanged() bool {
	return tables.IsRanged(u.PrimaryWeapon())
}

func (u Unit) HasSpear() bool {
	for _, w := range u.Weapons {
		if tables.IsSpear(w) {
			return true
		}
	}
	return false
}

func (u Unit) Alive() bool {
	return u.Strength > 0
}

func (u Unit) StrengthRatio() float64 {
	if u.MaxStrength <= 0 {
		return 0
	}
	return float64(u.Strength) / float64(u.MaxStrength)
}

func (u Unit) IsHeavyInfantry() bool {
	if u.Mounted {
		return false
	}
	return u.Armor == "heavy" || u.Armor == "cataphract"
}

func (u Unit) IsElite() bool {
	return u.Quality == tables.Elite
}

// Clone 深拷贝武器列表。
func (u Unit) Clone() Unit {
	out := u
	if u.Weapons != nil {
		out.Weapons = append([]string(nil), u.Weapons...)
	}
	return out
}
