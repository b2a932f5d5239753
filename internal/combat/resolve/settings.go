package resolve

import (
	"AncientWarfare/internal/combat/casualty"
	"AncientWarfare/internal/combat/preparation"
)

// Settings 是回合结算的可调参数，来自配置的 combat 段。
type Settings struct {
	// AttritionRate 是每点混乱修正的评分损耗比例。
	AttritionRate float64 `mapstructure:"attrition_rate" json:"attrition_rate" yaml:"attrition_rate"`
	// DamageScale 是净伤害折算进伤亡桶的比例。
	DamageScale float64 `mapstructure:"damage_scale" json:"damage_scale" yaml:"damage_scale"`
	// BreakRatio 是军队溃散的基础兵力比例，士气加成每点下调 0.02。
	BreakRatio float64 `mapstructure:"break_ratio" json:"break_ratio" yaml:"break_ratio"`
	// MaxTurns 是一场战斗的回合上限，到达后判平。
	MaxTurns int `mapstructure:"max_turns" json:"max_turns" yaml:"max_turns"`
}

const (
	DefaultBreakRatio = 0.25
	DefaultMaxTurns   = 30
	minBreakRatio     = 0.05
	moralePerPoint    = 0.02
)

func DefaultSettings() Settings {
	return Settings{
		AttritionRate: preparation.DefaultAttritionRate,
		DamageScale:   casualty.DefaultScale,
		BreakRatio:    DefaultBreakRatio,
		MaxTurns:      DefaultMaxTurns,
	}
}

// Normalize 用默认值填充未配置（≤0）的字段。
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.AttritionRate <= 0 {
		s.AttritionRate = d.AttritionRate
	}
	if s.DamageScale <= 0 {
		s.DamageScale = d.DamageScale
	}
	if s.BreakRatio <= 0 {
		s.BreakRatio = d.BreakRatio
	}
	if s.MaxTurns <= 0 {
		s.MaxTurns = d.MaxTurns
	}
	return s
}
