package actors

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"AncientWarfare/internal/battle/app/port"
	"AncientWarfare/internal/battle/dc"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/modules/kit/logx"
	"AncientWarfare/modules/kit/tracex"
)

type State int

const (
	None State = iota
	Init
	// Absent 表示库里没有这场战斗，只接受 CreateBattle
	Absent
	Online
	Offline
	Stopping
)

// Options 是 manager 派生 battle actor 时共享的依赖。
type Options struct {
	Repo      port.BattleRepository
	Engine    *resolve.Engine
	Publisher Publisher
	Log       logx.Logger
	// FlushEvery<=0 取 dc 默认值
	FlushEvery time.Duration
	// IdleTimeout>0 时，空闲超过该时长的 actor 落库后停止
	IdleTimeout time.Duration
	Now         func() time.Time
}

func (o Options) normalize() Options {
	if o.Engine == nil {
		o.Engine = resolve.NewEngine(resolve.DefaultSettings())
	}
	if o.Publisher == nil {
		o.Publisher = NopPublisher{}
	}
	if o.Log == nil {
		o.Log = logx.NewZapLogger(logs.Logger())
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type BattleActor struct {
	state      State
	battleID   entity.BattleID
	dc         *dc.BattleDC
	entity     *entity.Battle
	engine     *resolve.Engine
	src        *rand.PCG
	rng        *rand.Rand
	publisher  Publisher
	log        logx.Logger
	dispatcher *Dispatcher
	idle       time.Duration
	now        func() time.Time
	loadErr    error
	flushStop  chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewBattleActor(id entity.BattleID, opts Options) *BattleActor {
	opts = opts.normalize()
	src := rand.NewPCG(0, 0)
	return &BattleActor{
		state:      None,
		battleID:   id,
		dc:         dc.NewBattleDC(opts.Repo, opts.FlushEvery, opts.Log),
		engine:     opts.Engine,
		src:        src,
		rng:        rand.New(src),
		publisher:  opts.Publisher,
		log:        opts.Log,
		dispatcher: NewDispatcher(),
		idle:       opts.IdleTimeout,
		now:        opts.Now,
	}
}

func (p *BattleActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.log.Error("battle dc close failed", zap.String("battle_id", string(p.battleID)), zap.Error(err))
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopFlushLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopFlushLoop()
		p.state = Init
		return
	case *actor.ReceiveTimeout:
		ctx.Stop(ctx.Self())
		return
	case flushTick:
		if p.state != Online {
			return
		}
		p.flush("periodic")
		return
	case BattleMessage:
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *BattleActor) init(ctx actor.Context) {
	if p.idle > 0 {
		ctx.SetReceiveTimeout(p.idle)
	}
	loadCtx, cancel := context.WithTimeout(tracex.WithBattleID(context.Background(), string(p.battleID)), 3*time.Second)
	defer cancel()

	e, err := p.dc.Load(loadCtx, p.battleID)
	if err != nil {
		p.state = Absent
		if !errors.Is(err, entity.ErrBattleNotFound) {
			p.loadErr = err
			logx.ReportSysErrorWithLoggerContext(loadCtx, p.log, logx.NewSysLog("battle load", err))
		}
		return
	}
	p.online(ctx, e)
}

func (p *BattleActor) online(ctx actor.Context, e *entity.Battle) {
	p.state = Online
	p.entity = e
	p.startFlushLoop(ctx)
}

// rngForTurn 按 (seed, turn) 重置随机源，同一场战斗的任一回合都可重放，与 actor 是否重启无关。
func (p *BattleActor) rngForTurn(turn int) *rand.Rand {
	p.src.Seed(p.entity.Seed(), uint64(turn))
	return p.rng
}

// logCtx 带上 battle_id，供 dc 落库与日志使用。
func (p *BattleActor) logCtx() context.Context {
	return tracex.WithBattleID(context.Background(), string(p.battleID))
}

func (p *BattleActor) loaded() bool {
	return p.state == Online && p.entity != nil
}

// unavailableErr 区分"库里确实没有"与"加载失败"，后者原样返回存储错误。
func (p *BattleActor) unavailableErr() error {
	if p.loadErr != nil {
		return p.loadErr
	}
	return entity.ErrBattleNotFound.WithData("battle_id", string(p.battleID))
}

func (p *BattleActor) BattleID() entity.BattleID {
	return p.battleID
}

func (p *BattleActor) Entity() *entity.Battle {
	return p.entity
}

func (p *BattleActor) DC() *dc.BattleDC {
	return p.dc
}

func (p *BattleActor) State() State {
	return p.state
}

func (p *BattleActor) startFlushLoop(ctx actor.Context) {
	if p.flushStop != nil {
		return
	}
	interval := p.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	p.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(p.flushStop, interval)
}

func (p *BattleActor) stopFlushLoop() {
	if p.flushStop == nil {
		return
	}
	close(p.flushStop)
	p.flushStop = nil
}

// flush 把脏状态排进写队列；失败只记日志，下一次 flush 会带上最新状态重试。
func (p *BattleActor) flush(trigger string) {
	if err := p.dc.Flush(p.logCtx()); err != nil {
		p.log.Error("battle flush failed",
			zap.String("battle_id", string(p.battleID)),
			zap.String("trigger", trigger),
			zap.Error(err))
	}
}
