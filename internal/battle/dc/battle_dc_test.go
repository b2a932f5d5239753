package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
)

type fakeRepo struct {
	mu       sync.Mutex
	saved    []uint64
	failures int
}

func (r *fakeRepo) LoadBattle(context.Context, entity.BattleID) (*entity.Battle, error) {
	return nil, entity.ErrBattleNotFound
}

func (r *fakeRepo) Save(_ context.Context, s *entity.BattleSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("db down")
	}
	r.saved = append(r.saved, s.Version)
	return nil
}

func (r *fakeRepo) versions() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.saved...)
}

func newBattle() *entity.Battle {
	r := unit.Roster{{ID: "u", Weapons: []string{"spear"}, Strength: 10, MaxStrength: 10}}
	return entity.NewBattle("bt_dc", "", 1, battlefield.Context{}, r, r, time.Now())
}

func TestBattleDC_关闭时写入最新快照(t *testing.T) {
	repo := &fakeRepo{}
	d := NewBattleDC(repo, time.Hour, nil)
	b := newBattle()
	d.Adopt(b)

	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	b.Record(resolve.TurnResult{Turn: 1}, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := repo.versions()
	if len(got) == 0 || got[len(got)-1] != 2 {
		t.Fatalf("期望最后写入 version=2, got=%v", got)
	}
	if d.IsDirty() {
		t.Fatalf("关闭后不应再脏")
	}
}

func TestBattleDC_写失败后重试(t *testing.T) {
	repo := &fakeRepo{failures: 2}
	d := NewBattleDC(repo, time.Hour, nil)
	d.Adopt(newBattle())
	_ = d.Flush(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.versions()) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := repo.versions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("期望重试后写入 version=1, got=%v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = d.Close(ctx)
}

func TestBattleDC_不脏不写(t *testing.T) {
	repo := &fakeRepo{}
	d := NewBattleDC(repo, 0, nil)
	if d.FlushEvery() != DefaultFlushEvery {
		t.Fatalf("期望默认间隔, got=%v", d.FlushEvery())
	}
	b := newBattle()
	b.ClearDirty()
	d.Adopt(b)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = d.Close(ctx)
	if got := repo.versions(); len(got) != 0 {
		t.Fatalf("不脏时不应写库, got=%v", got)
	}
}

type storedRepo struct {
	fakeRepo
	stored *entity.BattleSnapshot
}

func (r *storedRepo) LoadBattle(context.Context, entity.BattleID) (*entity.Battle, error) {
	return entity.Hydrate(r.stored), nil
}

func TestBattleDC_重新加载后版本继续递增(t *testing.T) {
	b := newBattle()
	s, _ := b.BuildSnapshot(4)
	repo := &storedRepo{stored: s}
	d := NewBattleDC(repo, time.Hour, nil)

	loaded, err := d.Load(context.Background(), "bt_dc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.Record(resolve.TurnResult{Turn: 1}, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := repo.versions(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("期望从已存版本 4 接着写 version=5, got=%v", got)
	}
}
