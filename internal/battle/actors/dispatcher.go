package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"AncientWarfare/modules/kit/errx"
)

// route 是一类消息的处理入口。needsBattle 为 true 时，战斗未加载（Absent）直接拒绝，handler 不会被调用。
type route struct {
	needsBattle bool
	call        func(ctx actor.Context, p *BattleActor, msg BattleMessage)
}

// Dispatcher 按消息的具体类型路由到 BattleHandler。
type Dispatcher struct {
	routes map[reflect.Type]route
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{routes: make(map[reflect.Type]route)}
	register(d, false, BH.HandleCreateBattle)
	register(d, true, BH.HandleResolveTurn)
	register(d, true, BH.HandleGetBattle)
	register(d, true, BH.HandleRunToEnd)
	return d
}

func register[Req BattleMessage](d *Dispatcher, needsBattle bool, fn func(ctx actor.Context, p *BattleActor, req Req)) {
	t := reflect.TypeFor[Req]()
	if _, dup := d.routes[t]; dup {
		panic("actors: duplicate route for " + t.String())
	}
	d.routes[t] = route{
		needsBattle: needsBattle,
		call: func(ctx actor.Context, p *BattleActor, msg BattleMessage) {
			fn(ctx, p, msg.(Req))
		},
	}
}

// Handles 报告 req 是否有注册的处理器。
func (d *Dispatcher) Handles(req any) bool {
	_, ok := d.routes[reflect.TypeOf(req)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *BattleActor, msg BattleMessage) {
	if msg == nil {
		ctx.Respond(failReply(errx.ErrReqParamERR))
		return
	}
	r, ok := d.routes[reflect.TypeOf(msg)]
	if !ok {
		ctx.Respond(failReply(errx.ErrInternal.WithData("message", reflect.TypeOf(msg).String())))
		return
	}
	if r.needsBattle && !p.loaded() {
		ctx.Respond(failReply(p.unavailableErr()))
		return
	}
	r.call(ctx, p, msg)
}
