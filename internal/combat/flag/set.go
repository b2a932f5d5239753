package flag

import (
	"encoding/json"
	"math/bits"
)

// Set 是条件的位集合。它是值类型，复制即快照，可以安全地在回合之间传递。
type Set struct {
	bits [2]uint64
}

// Of 用给定条件构造集合，忽略未登记的值。
func Of(fs ...Flag) Set {
	var s Set
	s.Add(fs...)
	return s
}

// ParseSet 把名字列表解析为集合，遇到未知名字返回错误。
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, n := range names {
		f, err := Parse(n)
		if err != nil {
			return Set{}, err
		}
		s.Add(f)
	}
	return s, nil
}

func (s *Set) Add(fs ...Flag) {
	for _, f := range fs {
		if !f.Valid() {
			continue
		}
		s.bits[f/64] |= 1 << (f % 64)
	}
}

func (s *Set) Remove(fs ...Flag) {
	for _, f := range fs {
		if !f.Valid() {
			continue
		}
		s.bits[f/64] &^= 1 << (f % 64)
	}
}

// With 返回追加了 fs 的新集合，不修改 s。
func (s Set) With(fs ...Flag) Set {
	s.Add(fs...)
	return s
}

func (s Set) Has(f Flag) bool {
	if !f.Valid() {
		return false
	}
	return s.bits[f/64]&(1<<(f%64)) != 0
}

func (s Set) Union(o Set) Set {
	return Set{bits: [2]uint64{s.bits[0] | o.bits[0], s.bits[1] | o.bits[1]}}
}

func (s Set) Len() int {
	return bits.OnesCount64(s.bits[0]) + bits.OnesCount64(s.bits[1])
}

func (s Set) Empty() bool {
	return s.bits[0] == 0 && s.bits[1] == 0
}

// Flags 按定义顺序返回集合内的条件。
func (s Set) Flags() []Flag {
	out := make([]Flag, 0, s.Len())
	for f := Flag(1); f < numFlags; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Set) Names() []string {
	fs := s.Flags()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	parsed, err := ParseSet(list)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML / UnmarshalYAML 适配 gopkg.in/yaml.v2 的接口。
func (s Set) MarshalYAML() (interface{}, error) {
	return s.Names(), nil
}

func (s *Set) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	parsed, err := ParseSet(list)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
