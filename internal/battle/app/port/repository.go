package port

import (
	"context"

	"AncientWarfare/internal/battle/entity"
)

// BattleRepository 找不到战斗时 LoadBattle 返回 entity.ErrBattleNotFound。
// Save 必须忽略版本不高于已存版本的快照。
type BattleRepository interface {
	LoadBattle(ctx context.Context, id entity.BattleID) (*entity.Battle, error)
	Save(ctx context.Context, s *entity.BattleSnapshot) error
}
