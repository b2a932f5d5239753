package entity

import (
	"time"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/breakthrough"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
)

// BattleSnapshot 是写库单元。Version 单调递增，仓储只接受更新的版本。
type BattleSnapshot struct {
	Version   uint64               `json:"version"`
	ID        BattleID             `json:"id"`
	Name      string               `json:"name"`
	Seed      uint64               `json:"seed"`
	Status    Status               `json:"status"`
	State     resolve.State        `json:"state"`
	Reports   []resolve.TurnResult `json:"reports"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Hydrate 从快照恢复实体，恢复后不是脏的。
func Hydrate(s *BattleSnapshot) *Battle {
	state := cloneState(s.State)
	return &Battle{
		id:        s.ID,
		name:      s.Name,
		seed:      s.Seed,
		state:     state,
		reports:   append([]resolve.TurnResult(nil), s.Reports...),
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		version:   s.Version,
	}
}

type View struct {
	ID            BattleID                    `json:"id"`
	Name          string                      `json:"name,omitempty"`
	Seed          uint64                      `json:"seed"`
	Status        Status                      `json:"status"`
	Turn          int                         `json:"turn"`
	Winner        string                      `json:"winner,omitempty"`
	Context       battlefield.Context         `json:"context"`
	Attacker      unit.Roster                 `json:"attacker"`
	Defender      unit.Roster                 `json:"defender"`
	History       []breakthrough.DamageRecord `json:"history"`
	Breakthroughs int                         `json:"breakthroughs"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
