// Package balance 用同一场景大量重复模拟，统计胜率、回合数分布与伤亡，用于调平数值。
package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/internal/shared/gameconfig/roster"
	"AncientWarfare/modules/kit/errx"
)

// Side 可以引用模板，也可以直接给出单位，两者按先模板后单位的顺序拼接。
type Side struct {
	Templates []roster.Ref `json:"templates" yaml:"templates"`
	Units     []unit.Unit  `json:"units" yaml:"units"`
}

type Scenario struct {
	Name string `json:"name" yaml:"name"`
	// Iterations<=0 时取 Runner 的默认值
	Iterations int `json:"iterations" yaml:"iterations"`
	// MaxTurns>0 时覆盖引擎配置的回合上限
	MaxTurns int                 `json:"max_turns" yaml:"max_turns"`
	Seed     uint64              `json:"seed" yaml:"seed"`
	Context  battlefield.Context `json:"context" yaml:"context"`
	Attacker Side                `json:"attacker" yaml:"attacker"`
	Defender Side                `json:"defender" yaml:"defender"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func LoadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenarios(raw)
}

func ParseScenarios(data []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file has no scenarios")
	}
	for i, s := range f.Scenarios {
		if s.Name == "" {
			f.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if err := s.Context.Validate(); err != nil {
			return nil, errx.ErrReqParamERR.WithData("scenario", f.Scenarios[i].Name).WithCause(err)
		}
	}
	return f.Scenarios, nil
}

// Rosters 组建双方花名册。
func (s Scenario) Rosters(lib *roster.Library) (attacker, defender unit.Roster, err error) {
	if err = s.Context.Validate(); err != nil {
		return nil, nil, errx.ErrReqParamERR.WithData("scenario", s.Name).WithCause(err)
	}
	if attacker, err = s.Attacker.build(lib, "atk"); err != nil {
		return nil, nil, err
	}
	if defender, err = s.Defender.build(lib, "def"); err != nil {
		return nil, nil, err
	}
	return attacker, defender, nil
}

func (sd Side) build(lib *roster.Library, prefix string) (unit.Roster, error) {
	out, err := lib.Build(prefix, sd.Templates)
	if err != nil {
		return nil, err
	}
	for i, u := range sd.Units {
		if u.ID == "" {
			u.ID = fmt.Sprintf("%s-u%d", prefix, i+1)
		}
		if u.MaxStrength == 0 {
			u.MaxStrength = u.Strength
		}
		if err := u.Validate(); err != nil {
			return nil, errx.ErrReqParamERR.WithData("unit_id", u.ID).WithCause(err)
		}
		out = append(out, u.Clone())
	}
	return out, nil
}
