package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"AncientWarfare/internal/battle/actors"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/modules/kit/errx"
)

const defaultAskTimeout = 3 * time.Second

// Runtime 把 actor 请求包装成带 ctx 的同步调用，HTTP handler 与 CLI 只依赖它。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(opts actors.Options, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(opts)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 先停 manager（子 actor 随之停止并落库）再关 actor 系统。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) Create(ctx context.Context, msg *actors.CreateBattle) (entity.View, error) {
	res, err := r.ask(ctx, msg)
	if err != nil {
		return entity.View{}, err
	}
	return res.View, nil
}

func (r *Runtime) Get(ctx context.Context, id entity.BattleID, withReports bool) (*actors.BattleReply, error) {
	return r.ask(ctx, &actors.GetBattle{BattleBase: actors.BattleBase{ID: id}, WithReports: withReports})
}

func (r *Runtime) ResolveTurn(ctx context.Context, id entity.BattleID) (*actors.BattleReply, error) {
	return r.ask(ctx, &actors.ResolveTurn{BattleBase: actors.BattleBase{ID: id}})
}

// RunToEnd 的超时按整场战斗计，调用方应给足 ctx deadline。
func (r *Runtime) RunToEnd(ctx context.Context, id entity.BattleID, maxTurns int) (*actors.BattleReply, error) {
	return r.ask(ctx, &actors.RunToEnd{BattleBase: actors.BattleBase{ID: id}, MaxTurns: maxTurns})
}

// ActiveBattles 返回常驻内存的战斗数。
func (r *Runtime) ActiveBattles(ctx context.Context) (int, error) {
	res, err := r.request(r.manager, &actors.ActiveBattles{}, r.timeoutFromContext(ctx))
	if err != nil {
		return 0, err
	}
	n, ok := res.(int)
	if !ok {
		return 0, errx.ErrInternal.WithData("reply", "unexpected type")
	}
	return n, nil
}

func (r *Runtime) ask(ctx context.Context, msg actors.BattleMessage) (*actors.BattleReply, error) {
	// 调用方已放弃的请求不再投递，避免 actor 结算了没人接收的回合
	if ctx != nil && ctx.Err() != nil {
		return nil, errx.ErrTimeout.WithData("battle_id", string(msg.BattleID())).WithCause(ctx.Err())
	}
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		var e *errx.Error
		if errors.As(err, &e) {
			return nil, e.WithData("battle_id", string(msg.BattleID()))
		}
		return nil, err
	}
	rep, ok := res.(*actors.BattleReply)
	if !ok || rep == nil {
		return nil, errx.ErrInternal.WithData("reply", "unexpected type")
	}
	if rep.Err != nil {
		return nil, rep.Err
	}
	return rep, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, errx.ErrUnavailable.WithData("reason", "actor runtime 未初始化")
	}
	if pid == nil {
		return nil, errx.ErrUnavailable.WithData("reason", "actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	// 有 deadline 时以它为准，允许 RunToEnd 之类的长请求超过默认超时
	return remain
}
