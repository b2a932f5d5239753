package actors

import (
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/resolve"
)

// TurnEvent 是推给观战方的一回合结果。
type TurnEvent struct {
	BattleID entity.BattleID    `json:"battle_id"`
	Status   entity.Status      `json:"status"`
	Result   resolve.TurnResult `json:"result"`
}

// Publisher 在 actor 线程内同步调用，实现方不能阻塞。
type Publisher interface {
	Publish(ev TurnEvent)
}

type NopPublisher struct{}

func (NopPublisher) Publish(TurnEvent) {}
