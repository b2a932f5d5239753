package memory

import (
	"context"
	"sync"

	"AncientWarfare/internal/battle/entity"
)

// BattleRepository 是进程内仓储，用于单机运行与测试。
type BattleRepository struct {
	mu        sync.RWMutex
	snapshots map[entity.BattleID]*entity.BattleSnapshot
}

func NewBattleRepository() *BattleRepository {
	return &BattleRepository{snapshots: make(map[entity.BattleID]*entity.BattleSnapshot)}
}

func (r *BattleRepository) LoadBattle(ctx context.Context, id entity.BattleID) (*entity.Battle, error) {
	_ = ctx
	r.mu.RLock()
	s, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, entity.ErrBattleNotFound.WithData("battle_id", string(id))
	}
	// Hydrate 会深拷贝，存储里的快照不会被实体改动
	return entity.Hydrate(s), nil
}

func (r *BattleRepository) Save(ctx context.Context, s *entity.BattleSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.snapshots[s.ID]; ok && cur.Version >= s.Version {
		return nil
	}
	r.snapshots[s.ID] = s
	return nil
}

// Version 返回已存快照版本，不存在时为 0。
func (r *BattleRepository) Version(id entity.BattleID) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.snapshots[id]; ok {
		return s.Version
	}
	return 0
}
