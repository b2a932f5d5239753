package tables

import "AncientWarfare/internal/combat/flag"

// WeaponAttack 返回武器攻击值和是否命中表；未登记的武器返回 UnknownWeaponAttack。
func WeaponAttack(weapon string) (int, bool) {
	v, ok := weaponAttack[weapon]
	if !ok {
		return UnknownWeaponAttack, false
	}
	return v, true
}

func IsRanged(weapon string) bool {
	_, ok := rangedWeapons[weapon]
	return ok
}

func IsSpear(weapon string) bool {
	_, ok := spearWeapons[weapon]
	return ok
}

func TrainingAttack(quality string) int {
	return trainingAttack[quality]
}

func TrainingDefense(quality string) int {
	return trainingDefense[quality]
}

func FormationAttack(formation string) int {
	return formationAttack[formation]
}

func FormationDefense(formation string) int {
	return formationDefense[formation]
}

func ArmorDefense(armor string) int {
	return armorDefense[armor]
}

func ShieldDefense(shield string) int {
	return shieldDefense[shield]
}

// BracesAgainstCavalry 报告阵型能否结阵抵御骑兵冲击。
func BracesAgainstCavalry(formation string) bool {
	_, ok := braceFormations[formation]
	return ok
}

// SituationalAttack 累加 flags 中所有登记过的进攻修正，并逐条回调 visit（可为 nil）。
func SituationalAttack(flags flag.Set, visit func(f flag.Flag, delta int)) int {
	return sumSituational(situationalAttack, flags, visit)
}

// SituationalDefense 同 SituationalAttack，使用防御表。
func SituationalDefense(flags flag.Set, visit func(f flag.Flag, delta int)) int {
	return sumSituational(situationalDefense, flags, visit)
}

func sumSituational(table map[flag.Flag]int, flags flag.Set, visit func(flag.Flag, int)) int {
	total := 0
	// 按条件定义顺序遍历，保证 breakdown 顺序稳定
	for _, f := range flags.Flags() {
		d, ok := table[f]
		if !ok {
			continue
		}
		total += d
		if visit != nil {
			visit(f, d)
		}
	}
	return total
}
