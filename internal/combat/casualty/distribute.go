package casualty

import (
	"sort"

	"AncientWarfare/internal/combat/unit"
)

// Distribute 把 casualties 按当前兵力比例分摊到存活单位（最大余数法），
// 返回更新后的编制和每个单位的损失。损失不会超过单位现有兵力。
func Distribute(casualties int, roster unit.Roster) (unit.Roster, []int) {
	out := roster.Clone()
	losses := make([]int, len(out))
	total := out.Strength()
	if casualties <= 0 || total <= 0 {
		return out, losses
	}
	if casualties >= total {
		for i := range out {
			losses[i] = out[i].Strength
			out[i].Strength = 0
		}
		return out, losses
	}

	type share struct {
		idx int
		rem int
	}
	living := out.Living()
	shares := make([]share, 0, len(living))
	assigned := 0
	for _, i := range living {
		num := casualties * out[i].Strength
		losses[i] = num / total
		assigned += losses[i]
		shares = append(shares, share{idx: i, rem: num % total})
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].rem > shares[b].rem })
	for k := 0; assigned < casualties && k < len(shares); k++ {
		i := shares[k].idx
		if losses[i] < out[i].Strength {
			losses[i]++
			assigned++
		}
	}
	for i := range out {
		out[i].Strength -= losses[i]
	}
	return out, losses
}
