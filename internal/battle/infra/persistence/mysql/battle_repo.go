package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/battle/infra/persistence/model"
	"AncientWarfare/modules/kit/errx"
)

const (
	OpLoadBattle = "repo.battle.mysql.Load"
	OpSaveBattle = "repo.battle.mysql.Save"
)

type BattleRepo struct {
	db *gorm.DB
}

func NewBattleRepo(db *gorm.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

// Migrate 建表，启动时调用一次。
func (r *BattleRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.BattleRow{})
}

func (r *BattleRepo) WithTx(tx *gorm.DB) *BattleRepo {
	return &BattleRepo{db: tx}
}

func (r *BattleRepo) LoadBattle(ctx context.Context, id entity.BattleID) (*entity.Battle, error) {
	var row model.BattleRow
	err := r.db.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrBattleNotFound.WithData("battle_id", string(id))
	default:
		// 纯技术错误（连接超时等），包装后交给上级
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", OpLoadBattle).WithData("battle_id", string(id))
	}

	s, err := model.RowToSnapshot(row)
	if err != nil {
		return nil, errx.ErrInternal.WithCause(err).WithData("op", OpLoadBattle).WithData("battle_id", string(id))
	}
	return entity.Hydrate(s), nil
}

// Save 在事务里锁行比较版本，只写更新的快照。
func (r *BattleRepo) Save(ctx context.Context, s *entity.BattleSnapshot) error {
	if s == nil {
		return nil
	}
	row, err := model.SnapshotToRow(s)
	if err != nil {
		return errx.ErrInternal.WithCause(err).WithData("op", OpSaveBattle)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.BattleRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "version").
			Where("id = ?", row.ID).
			First(&cur).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&row).Error
		case err != nil:
			return err
		case cur.Version >= row.Version:
			return nil
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveBattle).WithData("battle_id", row.ID)
	}
	return nil
}
