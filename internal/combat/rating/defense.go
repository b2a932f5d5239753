package rating

import (
	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/tables"
	"AncientWarfare/internal/combat/unit"
)

// MinDefense 是防御评分下限。
const MinDefense = 0

type DefenseInput struct {
	Flags flag.Set
}

type DefenseBreakdown struct {
	Armor       int     `json:"armor"`
	Shield      int     `json:"shield"`
	Training    int     `json:"training"`
	Formation   int     `json:"formation"`
	Situational int     `json:"situational"`
	Raw         int     `json:"raw"`
	Total       int     `json:"total"`
	Entries     []Entry `json:"entries"`
}

// DefenseRating 计算防御评分：护甲 + 盾牌 + 训练 + 阵型 + 情境，下限为 0。
func DefenseRating(u unit.Unit, in DefenseInput) DefenseBreakdown {
	b := DefenseBreakdown{
		Armor:     tables.ArmorDefense(u.Armor),
		Shield:    tables.ShieldDefense(u.Shield),
		Training:  tables.TrainingDefense(u.Quality),
		Formation: tables.FormationDefense(u.Formation),
	}
	b.Entries = []Entry{
		{Source: "armor", Key: u.Armor, Delta: b.Armor},
		{Source: "shield", Key: u.Shield, Delta: b.Shield},
		{Source: "training", Key: u.Quality, Delta: b.Training},
		{Source: "formation", Key: u.Formation, Delta: b.Formation},
	}
	b.Situational = tables.SituationalDefense(in.Flags, func(f flag.Flag, d int) {
		b.Entries = append(b.Entries, Entry{Source: "situational", Key: f.String(), Delta: d})
	})
	b.Raw = b.Armor + b.Shield + b.Training + b.Formation + b.Situational
	b.Total = max(MinDefense, b.Raw)
	return b
}
