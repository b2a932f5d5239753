package breakthrough

import "AncientWarfare/internal/combat/unit"

// Composition 是一支军队按存活单位数统计的构成。
type Composition struct {
	Living            int
	MountedMajority   bool
	RangedMajority    bool
	SpearMajority     bool
	DominantFormation string
}

// Compose 统计多数特征；“多数”指严格超过存活单位数的一半。
// 主导阵型取众数，并列时取最先出现的。
func Compose(r unit.Roster) Composition {
	var c Composition
	var mounted, ranged, spear int
	counts := map[string]int{}
	var order []string
	for _, i := range r.Living() {
		u := r[i]
		c.Living++
		if u.Mounted {
			mounted++
		}
		if u.PrimaryRanged() {
			ranged++
		}
		if u.HasSpear() {
			spear++
		}
		if _, ok := counts[u.Formation]; !ok {
			order = append(order, u.Formation)
		}
		counts[u.Formation]++
	}
	if c.Living == 0 {
		return c
	}
	c.MountedMajority = mounted*2 > c.Living
	c.RangedMajority = ranged*2 > c.Living
	c.SpearMajority = spear*2 > c.Living
	best := 0
	for _, f := range order {
		if counts[f] > best {
			best, c.DominantFormation = counts[f], f
		}
	}
	return c
}
