package resolve

import (
	"math/rand/v2"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/breakthrough"
	"AncientWarfare/internal/combat/casualty"
	"AncientWarfare/internal/combat/unit"
)

// State 是一场战斗跨回合携带的全部可变状态，归单个战斗独占，不能在并发模拟之间共享。
type State struct {
	Turn     int                         `json:"turn"`
	Context  battlefield.Context         `json:"context"`
	Attacker unit.Roster                 `json:"attacker"`
	Defender unit.Roster                 `json:"defender"`
	History  []breakthrough.DamageRecord `json:"history"`
	Buckets  casualty.Buckets            `json:"buckets"`
	Finished bool                        `json:"finished"`
	Winner   string                      `json:"winner,omitempty"`
	// Breakthroughs 是进入僵持突破的回合数。
	Breakthroughs int `json:"breakthroughs"`
}

func NewState(ctx battlefield.Context, attacker, defender unit.Roster) State {
	return State{
		Context:  ctx.Clone(),
		Attacker: attacker.Clone(),
		Defender: defender.Clone(),
		Buckets:  casualty.Buckets{},
	}
}

// Input 构造下一回合的输入。
func (s *State) Input() TurnInput {
	return TurnInput{
		Turn:     s.Turn + 1,
		Context:  s.Context,
		Attacker: s.Attacker,
		Defender: s.Defender,
		History:  s.History,
		Buckets:  s.Buckets,
	}
}

// Apply 把回合结果写回状态。
func (s *State) Apply(res TurnResult) {
	s.Turn = res.Turn
	s.Attacker = res.AttackerArmy
	s.Defender = res.DefenderArmy
	s.History = res.History
	s.Buckets = res.Buckets
	s.Finished = res.Finished
	s.Winner = res.Winner
	if res.Breakthrough.Active {
		s.Breakthroughs++
	}
}

// Step 结算并应用下一回合。
func (e *Engine) Step(r *rand.Rand, s *State) (TurnResult, error) {
	if s.Finished {
		return TurnResult{}, ErrBattleFinished
	}
	res, err := e.ResolveTurn(r, s.Input())
	if err != nil {
		return TurnResult{}, err
	}
	s.Apply(res)
	return res, nil
}

// RunToEnd 连续结算直到决出胜负或到达回合上限；visit 可为 nil。
func (e *Engine) RunToEnd(r *rand.Rand, s *State, visit func(TurnResult)) error {
	for !s.Finished {
		res, err := e.Step(r, s)
		if err != nil {
			return err
		}
		if visit != nil {
			visit(res)
		}
	}
	return nil
}
