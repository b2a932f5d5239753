package resolve

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/flag"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/modules/kit/errx"
)

func romans() unit.Roster {
	return unit.Roster{
		{ID: "leg1", Weapons: []string{"roman_gladius", "pilum"}, Armor: "medium", Shield: "large",
			Quality: "professional", Formation: "line", Strength: 100, MaxStrength: 100, Culture: "roman"},
		{ID: "leg2", Weapons: []string{"roman_gladius", "pilum"}, Armor: "medium", Shield: "large",
			Quality: "professional", Formation: "line", Strength: 100, MaxStrength: 100, Culture: "roman"},
	}
}

func celts() unit.Roster {
	return unit.Roster{
		{ID: "war1", Weapons: []string{"celtic_longsword"}, Armor: "light", Shield: "medium",
			Quality: "tribal", Formation: "loose", Strength: 100, MaxStrength: 100, Culture: "celtic"},
		{ID: "war2", Weapons: []string{"celtic_longsword"}, Armor: "light", Shield: "medium",
			Quality: "tribal", Formation: "loose", Strength: 100, MaxStrength: 100, Culture: "celtic"},
		{ID: "sling", Weapons: []string{"sling"}, Armor: "none", Shield: "none",
			Quality: "levy", Formation: "skirmish", Strength: 50, MaxStrength: 50, Culture: "celtic"},
	}
}

func plains() battlefield.Context {
	return battlefield.Context{Terrain: battlefield.Plains, Weather: battlefield.Clear, TimeOfDay: battlefield.Day,
		Situation: battlefield.Pitched}
}

func TestResolveTurn_基本结算(t *testing.T) {
	e := NewEngine(DefaultSettings())
	s := NewState(plains(), romans(), celts())
	res, err := e.ResolveTurn(rand.New(rand.NewPCG(1, 1)), s.Input())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Turn)
	assert.Equal(t, 2, res.Chaos.Level)
	assert.True(t, res.Chaos.MinimumApplied)
	assert.Len(t, res.Attacker.Units, 2)
	assert.Len(t, res.Defender.Units, 3)
	assert.Equal(t, "war1", res.Attacker.Units[0].OpponentID)
	assert.Equal(t, "war2", res.Attacker.Units[1].OpponentID)
	assert.Equal(t, "leg1", res.Defender.Units[2].OpponentID, "按下标回绕配对")
	assert.False(t, res.Breakthrough.Active)
	require.Len(t, res.History, 1)
	assert.Equal(t, res.Attacker.DamageTaken, res.History[0].ArmyADamage)
	assert.Equal(t, res.Defender.DamageTaken, res.History[0].ArmyBDamage)
	assert.NotEmpty(t, res.Narrative)

	// 输入不被修改
	assert.Equal(t, 100, s.Attacker[0].Strength)
	assert.Empty(t, s.History)
}

func TestResolveTurn_明细数值(t *testing.T) {
	e := NewEngine(DefaultSettings())
	s := NewState(plains(), romans(), celts())
	res, err := e.ResolveTurn(rand.New(rand.NewPCG(3, 9)), s.Input())
	require.NoError(t, err)

	leg := res.Attacker.Units[0]
	// 5+4+1 + 接敌距离 3（pilum 对无远程的凯尔特人）
	assert.Equal(t, 13, leg.Attack)
	assert.Equal(t, 12, leg.Defense)
	assert.InDelta(t, 1.3, leg.Preparation, 1e-9, "罗马文化准备度 +0.3")
	assert.InDelta(t, 0.95, leg.Attrition, 1e-9)

	assert.InDelta(t, 22.8, res.Attacker.Defense, 1e-9)
	assert.InDelta(t, 10.45, res.Defender.Defense, 1e-9)

	// 凯尔特人攻击最多 (7+7+2)×0.95+1，打不穿罗马防御
	assert.Zero(t, res.Attacker.DamageTaken)
	assert.Zero(t, res.Attacker.Casualties)
	assert.Greater(t, res.Defender.DamageTaken, 14.0)
	// 首回合桶为空，伤亡等于 round(伤害×0.5×5)
	assert.Equal(t, int(math.Round(res.Defender.DamageTaken*0.5*5)), res.Defender.Casualties)
	assert.GreaterOrEqual(t, res.Defender.Casualties, 35)
	assert.Equal(t, 250-res.Defender.Casualties, res.Defender.Strength)
}

func TestRunToEnd_罗马人获胜(t *testing.T) {
	e := NewEngine(DefaultSettings())
	s := NewState(plains(), romans(), celts())
	prev := s.Defender.Strength()
	turns := 0
	err := e.RunToEnd(rand.New(rand.NewPCG(5, 5)), &s, func(res TurnResult) {
		turns++
		assert.LessOrEqual(t, res.Defender.Strength, prev)
		prev = res.Defender.Strength
	})
	require.NoError(t, err)
	assert.True(t, s.Finished)
	assert.Equal(t, WinnerAttacker, s.Winner)
	assert.Equal(t, turns, s.Turn)
	assert.Len(t, s.History, turns)
	assert.Less(t, s.Defender.StrengthRatio(), e.BreakThreshold(s.Defender))
	assert.Empty(t, s.Buckets, "战斗结束时清理伤亡桶")

	_, err = e.Step(rand.New(rand.NewPCG(5, 5)), &s)
	assert.ErrorIs(t, err, ErrBattleFinished)
}

func TestRunToEnd_同种子可复现(t *testing.T) {
	e := NewEngine(DefaultSettings())
	ctx := plains()
	ctx.Weather = battlefield.Fog
	ctx.TimeOfDay = battlefield.Dusk
	run := func() State {
		s := NewState(ctx, romans(), celts())
		require.NoError(t, e.RunToEnd(rand.New(rand.NewPCG(11, 22)), &s, nil))
		return s
	}
	a, b := run(), run()
	assert.Equal(t, a.Turn, b.Turn)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Defender, b.Defender)
}

func TestRunToEnd_铁乌龟僵持触发突破并判平(t *testing.T) {
	turtle := func(id string) unit.Roster {
		return unit.Roster{{ID: id, Weapons: []string{"spear"}, Armor: "heavy", Shield: "tower",
			Quality: "veteran", Formation: "testudo", Strength: 100, MaxStrength: 100}}
	}
	e := NewEngine(Settings{MaxTurns: 8})
	s := NewState(plains(), turtle("a"), turtle("b"))

	var third TurnResult
	require.NoError(t, e.RunToEnd(rand.New(rand.NewPCG(1, 2)), &s, func(res TurnResult) {
		if res.Turn == 3 {
			third = res
		}
	}))
	assert.True(t, third.Breakthrough.Active)
	assert.InDelta(t, 1.5-0.2+0.1, third.Breakthrough.A.Multiplier, 1e-9)
	assert.Equal(t, WinnerDraw, s.Winner)
	assert.Equal(t, 8, s.Turn)
	assert.Equal(t, 6, s.Breakthroughs)
}

func TestResolveTurn_伏击条件只作用于一方(t *testing.T) {
	e := NewEngine(DefaultSettings())
	ctx := plains()
	ctx.DefenderFlags = flag.Of(flag.Surprised, flag.Ambushed)
	s := NewState(ctx, romans(), celts())
	res, err := e.ResolveTurn(rand.New(rand.NewPCG(1, 1)), s.Input())
	require.NoError(t, err)
	assert.InDelta(t, 0.95, res.Attacker.Units[0].Attrition, 1e-9)
	// 凯尔特人准备度 1.0-1.0-0.5 夹到 0.5，混乱修正仍为 max(1, 2-0.5)=1.5
	assert.InDelta(t, 0.5, res.Defender.Units[0].Preparation, 1e-9)
	assert.InDelta(t, 1-1.5*0.05, res.Defender.Units[0].Attrition, 1e-9)
}

func TestResolveTurn_参数错误(t *testing.T) {
	e := NewEngine(DefaultSettings())
	_, err := e.ResolveTurn(rand.New(rand.NewPCG(1, 1)), TurnInput{Turn: 1, Attacker: romans()})
	assert.ErrorIs(t, err, ErrEmptyRoster)

	bad := romans()
	bad[0].Strength = 200
	_, err = e.ResolveTurn(rand.New(rand.NewPCG(1, 1)), TurnInput{Turn: 1, Attacker: bad, Defender: celts()})
	require.Error(t, err)
	assert.True(t, errx.IsSys(err), "兵力越界是系统错误")
	assert.ErrorIs(t, err, ErrStrengthOutOfRange)
}

func TestBreakThreshold_士气下调溃散线(t *testing.T) {
	e := NewEngine(DefaultSettings())
	assert.InDelta(t, 0.25-0.04, e.BreakThreshold(romans()), 1e-9)
	assert.InDelta(t, 0.25-0.02, e.BreakThreshold(celts()), 1e-9)
	assert.InDelta(t, DefaultBreakRatio, e.BreakThreshold(unit.Roster{}), 1e-9)

	low := NewEngine(Settings{BreakRatio: 0.06})
	assert.InDelta(t, 0.05, low.BreakThreshold(romans()), 1e-9)
}
