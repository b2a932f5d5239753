// Package roster 是内置的单位模板库（units.yaml），用模板 id 组建花名册。
package roster

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/modules/kit/errx"
)

//go:embed units.yaml
var embedded []byte

const CodeUnknownTemplate errx.Code = "ROSTER_UNKNOWN_TEMPLATE"

var ErrUnknownTemplate = errx.NewBiz(CodeUnknownTemplate, "单位模板不存在")

type Template struct {
	Name        string   `yaml:"name"`
	Culture     string   `yaml:"culture"`
	Weapons     []string `yaml:"weapons"`
	Armor       string   `yaml:"armor"`
	Shield      string   `yaml:"shield"`
	Quality     string   `yaml:"quality"`
	Formation   string   `yaml:"formation"`
	Mounted     bool     `yaml:"mounted"`
	MaxStrength int      `yaml:"max_strength"`
	Flags       flag.Set `yaml:"flags"`
}

// Ref 引用一个模板并覆盖部分字段，HTTP 请求与平衡场景里都用它描述单位。
type Ref struct {
	Template  string   `json:"template" yaml:"template"`
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Strength  int      `json:"strength,omitempty" yaml:"strength,omitempty"`
	Formation string   `json:"formation,omitempty" yaml:"formation,omitempty"`
	Quality   string   `json:"quality,omitempty" yaml:"quality,omitempty"`
	Flags     flag.Set `json:"flags" yaml:"flags,omitempty"`
}

type Library struct {
	templates map[string]Template
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default 返回内置模板库；内置数据解析失败属于构建缺陷，直接 panic。
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Parse(embedded)
		if err != nil {
			panic(fmt.Errorf("parse embedded units.yaml: %w", err))
		}
		defaultLib = lib
	})
	return defaultLib
}

func Parse(data []byte) (*Library, error) {
	templates := map[string]Template{}
	if err := yaml.UnmarshalStrict(data, &templates); err != nil {
		return nil, err
	}
	for id, t := range templates {
		if len(t.Weapons) == 0 || t.MaxStrength <= 0 {
			return nil, fmt.Errorf("template %s: weapons and max_strength are required", id)
		}
	}
	return &Library{templates: templates}, nil
}

func (l *Library) Get(id string) (Template, bool) {
	t, ok := l.templates[id]
	return t, ok
}

// IDs 按字典序返回模板 id。
func (l *Library) IDs() []string {
	out := make([]string, 0, len(l.templates))
	for id := range l.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Instantiate 用模板和覆盖字段构造单位。ID 缺省时为 prefix + 序号。
func (l *Library) Instantiate(ref Ref, defaultID string) (unit.Unit, error) {
	t, ok := l.templates[ref.Template]
	if !ok {
		return unit.Unit{}, ErrUnknownTemplate.WithData("template", ref.Template)
	}
	u := unit.Unit{
		ID:          ref.ID,
		Name:        t.Name,
		Weapons:     append([]string(nil), t.Weapons...),
		Armor:       t.Armor,
		Shield:      t.Shield,
		Quality:     t.Quality,
		Formation:   t.Formation,
		Mounted:     t.Mounted,
		Strength:    t.MaxStrength,
		MaxStrength: t.MaxStrength,
		Culture:     t.Culture,
		Flags:       t.Flags.Union(ref.Flags),
	}
	if u.ID == "" {
		u.ID = defaultID
	}
	if ref.Strength > 0 {
		u.Strength = ref.Strength
	}
	if ref.Formation != "" {
		u.Formation = ref.Formation
	}
	if ref.Quality != "" {
		u.Quality = ref.Quality
	}
	if err := u.Validate(); err != nil {
		// 请求里的兵力超过模板上限是调用方的问题
		return unit.Unit{}, errx.ErrReqParamERR.WithData("unit_id", u.ID).WithData("strength", u.Strength).WithCause(err)
	}
	return u, nil
}

// Build 依次实例化，缺省 id 为 prefix-序号。
func (l *Library) Build(prefix string, refs []Ref) (unit.Roster, error) {
	out := make(unit.Roster, 0, len(refs))
	for i, ref := range refs {
		u, err := l.Instantiate(ref, fmt.Sprintf("%s-%d", prefix, i+1))
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
