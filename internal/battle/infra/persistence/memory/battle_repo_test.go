package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/unit"
)

func TestBattleRepository_版本只进不退(t *testing.T) {
	repo := NewBattleRepository()
	ctx := context.Background()
	if _, err := repo.LoadBattle(ctx, "nope"); !errors.Is(err, entity.ErrBattleNotFound) {
		t.Fatalf("期望 ErrBattleNotFound, got=%v", err)
	}

	r := unit.Roster{{ID: "u", Weapons: []string{"spear"}, Strength: 10, MaxStrength: 10}}
	b := entity.NewBattle("bt_m", "v2", 1, battlefield.Context{}, r, r, time.Now())
	s2, _ := b.BuildSnapshot(2)
	_ = repo.Save(ctx, s2)

	old := *s2
	old.Version = 1
	old.Name = "v1"
	_ = repo.Save(ctx, &old)

	got, err := repo.LoadBattle(ctx, "bt_m")
	if err != nil {
		t.Fatalf("LoadBattle: %v", err)
	}
	if got.Name() != "v2" || repo.Version("bt_m") != 2 {
		t.Fatalf("旧版本不应覆盖新版本: name=%s version=%d", got.Name(), repo.Version("bt_m"))
	}
}
