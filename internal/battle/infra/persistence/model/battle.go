package model

import (
	"encoding/json"
	"time"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/resolve"
)

// Payload 是快照里不需要被查询的部分，两种存储都以 JSON 文本保存。
type Payload struct {
	Seed    uint64               `json:"seed"`
	State   resolve.State        `json:"state"`
	Reports []resolve.TurnResult `json:"reports"`
}

// BattleDoc 是 mongodb battle 集合的文档。
type BattleDoc struct {
	ID        string    `bson:"_id"`
	Version   uint64    `bson:"version"`
	Name      string    `bson:"name,omitempty"`
	Status    string    `bson:"status"`
	Turn      int       `bson:"turn"`
	Winner    string    `bson:"winner,omitempty"`
	Payload   string    `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// BattleRow 是 mysql battle_snapshot 表的行。
type BattleRow struct {
	ID        string    `gorm:"column:id;type:varchar(32);primaryKey;not null;comment:战斗id"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;not null;comment:快照版本"`
	Name      string    `gorm:"column:name;type:varchar(100);not null;default:'';comment:战斗名称"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;index;comment:active/finished"`
	Turn      int       `gorm:"column:turn;type:int UNSIGNED;not null;comment:已结算回合"`
	Winner    string    `gorm:"column:winner;type:varchar(16);not null;default:'';comment:胜方"`
	Payload   string    `gorm:"column:payload;type:longtext;not null;comment:状态与战报 JSON"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime(3);not null"`
}

func (m *BattleRow) TableName() string {
	return "battle_snapshot"
}

func encodePayload(s *entity.BattleSnapshot) (string, error) {
	raw, err := json.Marshal(Payload{Seed: s.Seed, State: s.State, Reports: s.Reports})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodePayload(raw string) (Payload, error) {
	var p Payload
	err := json.Unmarshal([]byte(raw), &p)
	return p, err
}

func SnapshotToDoc(s *entity.BattleSnapshot) (BattleDoc, error) {
	payload, err := encodePayload(s)
	if err != nil {
		return BattleDoc{}, err
	}
	return BattleDoc{
		ID:        string(s.ID),
		Version:   s.Version,
		Name:      s.Name,
		Status:    string(s.Status),
		Turn:      s.State.Turn,
		Winner:    s.State.Winner,
		Payload:   payload,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

func DocToSnapshot(d BattleDoc) (*entity.BattleSnapshot, error) {
	p, err := decodePayload(d.Payload)
	if err != nil {
		return nil, err
	}
	return &entity.BattleSnapshot{
		Version:   d.Version,
		ID:        entity.BattleID(d.ID),
		Name:      d.Name,
		Seed:      p.Seed,
		Status:    entity.Status(d.Status),
		State:     p.State,
		Reports:   p.Reports,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func SnapshotToRow(s *entity.BattleSnapshot) (BattleRow, error) {
	d, err := SnapshotToDoc(s)
	if err != nil {
		return BattleRow{}, err
	}
	return BattleRow(d), nil
}

func RowToSnapshot(r BattleRow) (*entity.BattleSnapshot, error) {
	return DocToSnapshot(BattleDoc(r))
}
