package http

import (
	"sync"

	"go.uber.org/zap"

	"AncientWarfare/internal/battle/actors"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/shared/transport/ws"
	"AncientWarfare/modules/kit/logx"
)

const PushTurn = "battle.turn"

// Hub 按战斗维护观战连接，把回合结果广播出去。Publish 在 battle actor 线程里调用，
// 只做非阻塞推送。
type Hub struct {
	mu       sync.RWMutex
	watchers map[entity.BattleID]map[ws.WSConn]struct{}
	log      logx.Logger
}

var _ actors.Publisher = (*Hub)(nil)

func NewHub(log logx.Logger) *Hub {
	return &Hub{watchers: make(map[entity.BattleID]map[ws.WSConn]struct{}), log: log}
}

// Watch 登记连接，连接关闭后自动移除。
func (h *Hub) Watch(id entity.BattleID, conn ws.WSConn) {
	h.mu.Lock()
	set := h.watchers[id]
	if set == nil {
		set = make(map[ws.WSConn]struct{})
		h.watchers[id] = set
	}
	set[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-conn.Done()
		h.unwatch(id, conn)
	}()
}

func (h *Hub) unwatch(id entity.BattleID, conn ws.WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.watchers[id]
	delete(set, conn)
	if len(set) == 0 {
		delete(h.watchers, id)
	}
}

func (h *Hub) Watchers(id entity.BattleID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[id])
}

func (h *Hub) Publish(ev actors.TurnEvent) {
	h.mu.RLock()
	conns := make([]ws.WSConn, 0, len(h.watchers[ev.BattleID]))
	for c := range h.watchers[ev.BattleID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.Push(PushTurn, ev) && h.log != nil {
			h.log.Warn("spectator push dropped",
				zap.String("battle_id", string(ev.BattleID)),
				zap.String("addr", c.Addr()),
				zap.Int("turn", ev.Result.Turn))
		}
	}
}
