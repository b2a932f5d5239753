package battlefield

import "AncientWarfare/modules/kit/errx"

const CodeUnknownSpecial errx.Code = "COMBAT_UNKNOWN_SPECIAL"

// ErrUnknownSpecial 表示特殊修正既没有预设也没有给出 Delta。
var ErrUnknownSpecial = errx.NewBiz(CodeUnknownSpecial, "未知的特殊修正")

// Special 是附加在混乱度上的特殊修正，例如三方混战、世仇。
// Delta 为 0 时按名字取预设值。
type Special struct {
	Name  string `json:"name" yaml:"name"`
	Delta int    `json:"delta,omitempty" yaml:"delta,omitempty"`
}

var specialPresets = map[string]int{
	"three_way_battle":   2,
	"blood_feud":         -1,
	"civil_war":          1,
	"allied_contingent":  1,
	"mercenary_betrayal": 3,
	"sacred_ground":      -1,
	"veteran_commanders": -1,
}

// Preset 返回预设的特殊修正。
func Preset(name string) (Special, bool) {
	d, ok := specialPresets[name]
	if !ok {
		return Special{}, false
	}
	return Special{Name: name, Delta: d}, true
}

// ResolvedDelta 返回实际生效的修正值。
func (s Special) ResolvedDelta() int {
	if s.Delta != 0 {
		return s.Delta
	}
	p, _ := Preset(s.Name)
	return p.Delta
}

// Validate 要求每个特殊修正带显式 Delta 或使用预设名。
func (c Context) Validate() error {
	for i, s := range c.Specials {
		if s.Delta != 0 {
			continue
		}
		if _, ok := Preset(s.Name); !ok {
			return ErrUnknownSpecial.WithDataMap(map[string]any{"special": s.Name, "index": i})
		}
	}
	return nil
}
