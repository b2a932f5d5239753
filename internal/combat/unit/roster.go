package unit

// Roster 是一方的全部单位。
type Roster []Unit

func (r Roster) Validate() error {
	for _, u := range r {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Living 返回兵力大于 0 的单位下标，顺序与花名册一致。
func (r Roster) Living() []int {
	out := make([]int, 0, len(r))
	for i, u := range r {
		if u.Alive() {
			out = append(out, i)
		}
	}
	return out
}

func (r Roster) Strength() int {
	total := 0
	for _, u := range r {
		total += u.Strength
	}
	return total
}

func (r Roster) MaxStrength() int {
	total := 0
	for _, u := range r {
		total += u.MaxStrength
	}
	return total
}

// StrengthRatio 是整支军队的剩余兵力比例。
func (r Roster) StrengthRatio() float64 {
	total := r.MaxStrength()
	if total <= 0 {
		return 0
	}
	return float64(r.Strength()) / float64(total)
}

func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for i, u := range r {
		out[i] = u.Clone()
	}
	return out
}
