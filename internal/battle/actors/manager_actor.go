package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/modules/kit/errx"
)

// ManagerActor 为每个 battle id 派生一个 BattleActor 并转发请求，子 actor 停止后移除映射。
type ManagerActor struct {
	opts         Options
	battleActors map[entity.BattleID]*actor.PID
	byPID        map[string]entity.BattleID
}

func NewManagerActor(opts Options) *ManagerActor {
	return &ManagerActor{
		opts:         opts.normalize(),
		battleActors: make(map[entity.BattleID]*actor.PID),
		byPID:        make(map[string]entity.BattleID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		if id, ok := m.byPID[msg.Who.String()]; ok {
			delete(m.byPID, msg.Who.String())
			if pid := m.battleActors[id]; pid != nil && pid.Equal(msg.Who) {
				delete(m.battleActors, id)
			}
		}
	case BattleMessage:
		if msg.BattleID() == "" {
			ctx.Respond(failReply(errx.ErrReqParamERR.WithData("battle_id", "")))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.BattleID()))
	case *ActiveBattles:
		ctx.Respond(len(m.battleActors))
	}
}

// ActiveBattles 查询常驻内存的战斗数。
type ActiveBattles struct{}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id entity.BattleID) *actor.PID {
	if pid, ok := m.battleActors[id]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewBattleActor(id, m.opts)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.battleActors[id] = pid
	m.byPID[pid.String()] = id
	return pid
}
