// Package resolve 把各计算器串成一回合的结算：评分 → 文化 → 混乱损耗 → 突破倍率 → 伤亡桶。
package resolve

import (
	"fmt"
	"math"
	"math/rand/v2"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/breakthrough"
	"AncientWarfare/internal/combat/casualty"
	"AncientWarfare/internal/combat/chaos"
	"AncientWarfare/internal/combat/culture"
	"AncientWarfare/internal/combat/preparation"
	"AncientWarfare/internal/combat/rating"
	"AncientWarfare/internal/combat/unit"
)

// Engine 无状态，可在多个战斗之间并发共享；随机源由调用方按战斗持有。
type Engine struct {
	settings Settings
}

func NewEngine(s Settings) *Engine {
	return &Engine{settings: s.Normalize()}
}

func (e *Engine) Settings() Settings {
	return e.settings
}

// armyPass 是一方作为进攻方对另一方的一次计算。
type armyPass struct {
	role   battlefield.Role
	own    unit.Roster
	enemy  unit.Roster
	turn   ArmyTurn
	attack float64
}

// ResolveTurn 结算一回合。r 只在本回合内按固定顺序消费（先进攻方后防守方），同种子可复现。
func (e *Engine) ResolveTurn(r *rand.Rand, in TurnInput) (TurnResult, error) {
	if len(in.Attacker) == 0 || len(in.Defender) == 0 {
		return TurnResult{}, ErrEmptyRoster
	}
	if err := in.Attacker.Validate(); err != nil {
		return TurnResult{}, err
	}
	if err := in.Defender.Validate(); err != nil {
		return TurnResult{}, err
	}

	res := TurnResult{Turn: in.Turn}
	res.Breakthrough = breakthrough.Evaluate(breakthrough.Input{
		Turn: in.Turn, History: in.History, ArmyA: in.Attacker, ArmyB: in.Defender,
	})
	res.Chaos = chaos.Calculate(chaos.Conditions{Context: in.Context, Extra: res.Breakthrough.ChaosIncrease})
	if res.Chaos.Level < 0 || res.Chaos.Level > chaos.Maximum {
		return TurnResult{}, invariant(ErrChaosOutOfRange, map[string]any{"level": res.Chaos.Level})
	}
	level := res.Chaos.Level

	a := &armyPass{role: battlefield.Attacker, own: in.Attacker, enemy: in.Defender}
	d := &armyPass{role: battlefield.Defender, own: in.Defender, enemy: in.Attacker}
	for _, p := range []*armyPass{a, d} {
		if err := e.rate(p, in.Context, level); err != nil {
			return TurnResult{}, err
		}
	}

	// 混乱骰和突破倍率作用在军队层面
	a.turn.Roll = chaos.Roll(r, level)
	d.turn.Roll = chaos.Roll(r, level)
	a.turn.Multiplier = res.Breakthrough.A.Multiplier
	d.turn.Multiplier = res.Breakthrough.B.Multiplier
	for _, p := range []*armyPass{a, d} {
		p.turn.Attack = math.Max(0, p.attack+float64(p.turn.Roll)) * p.turn.Multiplier
	}

	netToDefender := math.Max(0, a.turn.Attack-d.turn.Defense)
	netToAttacker := math.Max(0, d.turn.Attack-a.turn.Defense)

	buckets := in.Buckets.Clone()
	if buckets == nil {
		buckets = casualty.Buckets{}
	}
	atkKey := casualty.PairKey(WinnerAttacker, WinnerDefender)
	defKey := casualty.PairKey(WinnerDefender, WinnerAttacker)
	d.turn.DamageTaken = netToDefender
	d.turn.Casualties = buckets.Accumulate(atkKey, netToDefender, e.settings.DamageScale)
	a.turn.DamageTaken = netToAttacker
	a.turn.Casualties = buckets.Accumulate(defKey, netToAttacker, e.settings.DamageScale)

	var lossA, lossD []int
	res.AttackerArmy, lossA = casualty.Distribute(a.turn.Casualties, in.Attacker)
	res.DefenderArmy, lossD = casualty.Distribute(d.turn.Casualties, in.Defender)
	applyLosses(&a.turn, res.AttackerArmy, lossA)
	applyLosses(&d.turn, res.DefenderArmy, lossD)

	if err := res.AttackerArmy.Validate(); err != nil {
		return TurnResult{}, invariant(ErrStrengthOutOfRange, map[string]any{"side": WinnerAttacker, "cause": err.Error()})
	}
	if err := res.DefenderArmy.Validate(); err != nil {
		return TurnResult{}, invariant(ErrStrengthOutOfRange, map[string]any{"side": WinnerDefender, "cause": err.Error()})
	}

	res.History = append(append([]breakthrough.DamageRecord(nil), in.History...), breakthrough.DamageRecord{
		Turn:        in.Turn,
		ArmyADamage: netToAttacker,
		ArmyBDamage: netToDefender,
	})

	a.turn.Broken = e.broken(res.AttackerArmy)
	d.turn.Broken = e.broken(res.DefenderArmy)
	switch {
	case a.turn.Broken && d.turn.Broken:
		res.Winner = WinnerDraw
	case a.turn.Broken:
		res.Winner = WinnerDefender
	case d.turn.Broken:
		res.Winner = WinnerAttacker
	case in.Turn >= e.settings.MaxTurns:
		res.Winner = WinnerDraw
	}
	res.Finished = res.Winner != WinnerNone
	if res.Finished {
		buckets.Drop(atkKey)
		buckets.Drop(defKey)
	}
	res.Buckets = buckets
	res.Attacker, res.Defender = a.turn, d.turn
	res.Narrative = narrate(res)
	return res, nil
}

// rate 计算一方本回合的名义攻击（未加混乱骰、未乘突破倍率）与防御。
func (e *Engine) rate(p *armyPass, ctx battlefield.Context, chaosLevel int) error {
	ownLive, enemyLive := p.own.Living(), p.enemy.Living()
	if len(ownLive) == 0 {
		return nil
	}
	for k, i := range ownLive {
		u := p.own[i]
		flags := ctx.EffectiveFlags(p.role, u.Flags)

		prep := preparation.Calculate(preparation.Conditions{
			Flags: flags, Terrain: ctx.Terrain, Situation: ctx.Situation, Melee: !u.PrimaryRanged(),
		}, p.role)
		prep = culture.ApplyPreparation(prep, u.Culture)
		if prep.Level < preparation.Minimum || prep.Level > preparation.Maximum {
			return invariant(ErrPreparationOutOfRange, map[string]any{"unit_id": u.ID, "level": prep.Level})
		}
		factor := preparation.AttritionFactor(chaosLevel, prep.Level, e.settings.AttritionRate)
		weight := u.StrengthRatio()

		ut := UnitTurn{UnitID: u.ID, Preparation: prep.Level, Attrition: factor}
		if len(enemyLive) > 0 {
			opp := p.enemy[enemyLive[k%len(enemyLive)]]
			ut.OpponentID = opp.ID
			atk := rating.AttackRating(u, rating.AttackInput{
				Flags: flags, Opponent: &opp, Context: ctx, IsDefender: p.role == battlefield.Defender,
			})
			ut.Attack = culture.ApplyAttack(atk.Total, u.Culture, flags)
			p.attack += float64(ut.Attack) * factor * weight
		}
		def := rating.DefenseRating(u, rating.DefenseInput{Flags: flags})
		ut.Defense = culture.ApplyDefense(def.Total, u.Culture, flags)
		p.turn.Defense += float64(ut.Defense) * factor * weight
		p.turn.Units = append(p.turn.Units, ut)
	}
	return nil
}

func applyLosses(t *ArmyTurn, after unit.Roster, losses []int) {
	byID := make(map[string]int, len(after))
	for i, u := range after {
		byID[u.ID] = losses[i]
	}
	for i := range t.Units {
		t.Units[i].Loss = byID[t.Units[i].UnitID]
	}
	t.Strength = after.Strength()
	t.MaxStrength = after.MaxStrength()
}

// BreakThreshold 返回军队溃散线：BreakRatio − 0.02×士气加成，最低 0.05。
// 士气加成取存活单位文化士气的兵力加权平均。
func (e *Engine) BreakThreshold(r unit.Roster) float64 {
	total, morale := 0, 0.0
	for _, i := range r.Living() {
		total += r[i].Strength
		morale += float64(culture.Lookup(r[i].Culture).MoraleBonus * r[i].Strength)
	}
	if total > 0 {
		morale /= float64(total)
	}
	return math.Max(minBreakRatio, e.settings.BreakRatio-moralePerPoint*morale)
}

func (e *Engine) broken(r unit.Roster) bool {
	if r.Strength() <= 0 {
		return true
	}
	return r.StrengthRatio() < e.BreakThreshold(r)
}

func narrate(res TurnResult) []string {
	var out []string
	out = append(out, fmt.Sprintf("第 %d 回合，混乱度 %d", res.Turn, res.Chaos.Level))
	if res.Breakthrough.Active {
		out = append(out, fmt.Sprintf("战线陷入僵持，进攻方倍率 %.2f，防守方倍率 %.2f",
			res.Breakthrough.A.Multiplier, res.Breakthrough.B.Multiplier))
		out = append(out, res.Breakthrough.A.Descriptions...)
		out = append(out, res.Breakthrough.B.Descriptions...)
	}
	out = append(out, fmt.Sprintf("进攻方承受 %.1f 伤害、损失 %d 人；防守方承受 %.1f 伤害、损失 %d 人",
		res.Attacker.DamageTaken, res.Attacker.Casualties, res.Defender.DamageTaken, res.Defender.Casualties))
	switch res.Winner {
	case WinnerAttacker:
		out = append(out, "防守方阵线崩溃，进攻方获胜")
	case WinnerDefender:
		out = append(out, "进攻方阵线崩溃，防守方获胜")
	case WinnerDraw:
		out = append(out, "双方都无力再战，战斗以平局收场")
	}
	return out
}
