package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/battle/infra/persistence/model"
	"AncientWarfare/modules/kit/errx"
)

const defaultCollectionName = "battle"

const (
	OpLoadBattle = "repo.battle.mongo.Load"
	OpSaveBattle = "repo.battle.mongo.Save"
)

type BattleRepository struct {
	coll *mongo.Collection
}

func NewBattleRepository(db *mongo.Database) *BattleRepository {
	return &BattleRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

// EnsureIndexes 建 status 索引，启动时调用一次。
func (r *BattleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	return err
}

func (r *BattleRepository) LoadBattle(ctx context.Context, id entity.BattleID) (*entity.Battle, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb battle collection is nil")
	}

	var doc model.BattleDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entity.ErrBattleNotFound.WithData("battle_id", string(id))
	default:
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", OpLoadBattle).WithData("battle_id", string(id))
	}

	s, err := model.DocToSnapshot(doc)
	if err != nil {
		return nil, errx.ErrInternal.WithCause(err).WithData("op", OpLoadBattle).WithData("battle_id", string(id))
	}
	return entity.Hydrate(s), nil
}

// Save 只在库中版本更低（或不存在）时替换；旧快照撞上唯一主键后被静默丢弃。
func (r *BattleRepository) Save(ctx context.Context, s *entity.BattleSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb battle collection is nil")
	}

	doc, err := model.SnapshotToDoc(s)
	if err != nil {
		return errx.ErrInternal.WithCause(err).WithData("op", OpSaveBattle)
	}

	_, err = r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID, "version": bson.M{"$lt": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveBattle).WithData("battle_id", doc.ID)
	}
	return nil
}
