package actors

import (
	"errors"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/modules/kit/errx"
	"AncientWarfare/modules/kit/logx"
)

type BattleHandler struct{}

var BH = &BattleHandler{}

func (h *BattleHandler) HandleCreateBattle(ctx actor.Context, p *BattleActor, req *CreateBattle) {
	switch {
	case p.state == Online:
		ctx.Respond(failReply(entity.ErrBattleAlreadyExists.WithData("battle_id", string(p.battleID))))
		return
	case p.loadErr != nil:
		ctx.Respond(failReply(p.loadErr))
		return
	}
	if len(req.Attacker) == 0 || len(req.Defender) == 0 {
		ctx.Respond(failReply(resolve.ErrEmptyRoster))
		return
	}
	if err := req.Attacker.Validate(); err != nil {
		ctx.Respond(failReply(entity.ErrInvalidRequest.WithData("side", "attacker").WithCause(err)))
		return
	}
	if err := req.Defender.Validate(); err != nil {
		ctx.Respond(failReply(entity.ErrInvalidRequest.WithData("side", "defender").WithCause(err)))
		return
	}

	if err := req.Context.Validate(); err != nil {
		ctx.Respond(failReply(entity.ErrInvalidRequest.WithData("field", "context").WithCause(err)))
		return
	}

	b := entity.NewBattle(p.battleID, req.Name, req.Seed, req.Context, req.Attacker, req.Defender, p.now())
	p.dc.Adopt(b)
	p.online(ctx, b)
	// 新建立即排队落库，避免进程在首个 flush 周期内退出后丢失
	p.flush("create")
	ctx.Respond(reply(b, nil))
}

func (h *BattleHandler) HandleResolveTurn(ctx actor.Context, p *BattleActor, req *ResolveTurn) {
	res, err := h.step(p)
	if err != nil {
		ctx.Respond(failReply(err))
		return
	}
	ctx.Respond(reply(p.entity, []resolve.TurnResult{res}))
}

func (h *BattleHandler) HandleGetBattle(ctx actor.Context, p *BattleActor, req *GetBattle) {
	out := reply(p.entity, nil)
	if req.WithReports {
		out.Reports = append([]resolve.TurnResult(nil), p.entity.Reports()...)
	}
	ctx.Respond(out)
}

func (h *BattleHandler) HandleRunToEnd(ctx actor.Context, p *BattleActor, req *RunToEnd) {
	if p.entity.Finished() {
		ctx.Respond(failReply(resolve.ErrBattleFinished))
		return
	}
	var turns []resolve.TurnResult
	for !p.entity.Finished() && (req.MaxTurns <= 0 || len(turns) < req.MaxTurns) {
		res, err := h.step(p)
		if err != nil {
			ctx.Respond(failReply(err))
			return
		}
		turns = append(turns, res)
	}
	ctx.Respond(reply(p.entity, turns))
}

// step 结算一回合：推进实体、记日志、推送观战、结束时立即落库。
func (h *BattleHandler) step(p *BattleActor) (resolve.TurnResult, error) {
	logCtx := p.logCtx()
	turn := p.entity.Turn() + 1

	res, err := p.engine.Step(p.rngForTurn(turn), p.entity.State())
	if err != nil {
		if errx.IsSys(err) {
			logx.ReportSysErrorWithLoggerContext(logCtx, p.log, logx.NewSysLog("battle resolve turn", err), zap.Int("turn", turn))
		} else if !errors.Is(err, resolve.ErrBattleFinished) {
			logx.ReportBizWithLoggerContext(logCtx, p.log, logx.NewBizLog("battle resolve turn", "reject", err.Error()))
		}
		return resolve.TurnResult{}, err
	}
	p.entity.Record(res, p.now())

	logx.ReportTurnWithLoggerContext(logCtx, p.log, logx.TurnLog{
		Turn:         res.Turn,
		DamageToA:    res.Attacker.DamageTaken,
		DamageToB:    res.Defender.DamageTaken,
		CasualtiesA:  res.Attacker.Casualties,
		CasualtiesB:  res.Defender.Casualties,
		ChaosLevel:   res.Chaos.Level,
		Breakthrough: res.Breakthrough.Active,
		Finished:     res.Finished,
		Winner:       res.Winner,
		Narrative:    res.Narrative,
	})
	p.publisher.Publish(TurnEvent{BattleID: p.battleID, Status: p.entity.Status(), Result: res})

	if res.Finished {
		p.flush("finished")
	}
	return res, nil
}
