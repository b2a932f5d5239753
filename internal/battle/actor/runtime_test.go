package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AncientWarfare/internal/battle/actors"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/battle/infra/persistence/memory"
	"AncientWarfare/internal/combat/battlefield"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/shared/gameconfig/roster"
	"AncientWarfare/modules/kit/errx"
	"AncientWarfare/modules/kit/logx"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []actors.TurnEvent
}

func (c *capturePublisher) Publish(ev actors.TurnEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *capturePublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newRuntime(t *testing.T, repo *memory.BattleRepository, pub actors.Publisher, idle time.Duration) *Runtime {
	t.Helper()
	rt := NewRuntime(actors.Options{
		Repo:        repo,
		Engine:      resolve.NewEngine(resolve.DefaultSettings()),
		Publisher:   pub,
		Log:         logx.Nop(),
		FlushEvery:  50 * time.Millisecond,
		IdleTimeout: idle,
	}, 2*time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func createMsg(t *testing.T, id entity.BattleID, seed uint64) *actors.CreateBattle {
	t.Helper()
	lib := roster.Default()
	atk, err := lib.Build("rom", []roster.Ref{{Template: "roman_legionary"}, {Template: "roman_equites"}})
	require.NoError(t, err)
	def, err := lib.Build("cel", []roster.Ref{{Template: "celtic_warband"}, {Template: "celtic_slingers"}})
	require.NoError(t, err)
	return &actors.CreateBattle{
		BattleBase: actors.BattleBase{ID: id},
		Name:       "test",
		Seed:       seed,
		Context:    battlefield.Context{Terrain: battlefield.Plains, Weather: battlefield.Clear, TimeOfDay: battlefield.Day, Situation: battlefield.Pitched},
		Attacker:   atk,
		Defender:   def,
	}
}

func TestRuntime_创建结算查询(t *testing.T) {
	repo := memory.NewBattleRepository()
	pub := &capturePublisher{}
	rt := newRuntime(t, repo, pub, 0)
	ctx := context.Background()

	view, err := rt.Create(ctx, createMsg(t, "bt_a", 1))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, view.Status)
	assert.Equal(t, 0, view.Turn)

	_, err = rt.Create(ctx, createMsg(t, "bt_a", 1))
	assert.ErrorIs(t, err, entity.ErrBattleAlreadyExists)

	rep, err := rt.ResolveTurn(ctx, "bt_a")
	require.NoError(t, err)
	require.Len(t, rep.Turns, 1)
	assert.Equal(t, 1, rep.View.Turn)
	assert.Len(t, rep.View.History, 1)
	assert.Equal(t, 1, pub.count())

	got, err := rt.Get(ctx, "bt_a", true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.View.Turn)
	assert.Len(t, got.Reports, 1)
}

func TestRuntime_打到结束后拒绝继续结算(t *testing.T) {
	rt := newRuntime(t, memory.NewBattleRepository(), nil, 0)
	ctx := context.Background()
	_, err := rt.Create(ctx, createMsg(t, "bt_end", 9))
	require.NoError(t, err)

	rep, err := rt.RunToEnd(ctx, "bt_end", 0)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinished, rep.View.Status)
	assert.NotEmpty(t, rep.View.Winner)
	assert.Len(t, rep.Turns, rep.View.Turn)

	_, err = rt.ResolveTurn(ctx, "bt_end")
	assert.ErrorIs(t, err, resolve.ErrBattleFinished)
	_, err = rt.RunToEnd(ctx, "bt_end", 0)
	assert.ErrorIs(t, err, resolve.ErrBattleFinished)
}

func TestRuntime_限定回合数(t *testing.T) {
	rt := newRuntime(t, memory.NewBattleRepository(), nil, 0)
	ctx := context.Background()
	_, err := rt.Create(ctx, createMsg(t, "bt_lim", 3))
	require.NoError(t, err)

	rep, err := rt.RunToEnd(ctx, "bt_lim", 2)
	require.NoError(t, err)
	assert.Len(t, rep.Turns, 2)
	assert.Equal(t, 2, rep.View.Turn)
}

func TestRuntime_不存在与非法请求(t *testing.T) {
	rt := newRuntime(t, memory.NewBattleRepository(), nil, 0)
	ctx := context.Background()

	_, err := rt.Get(ctx, "bt_none", false)
	assert.ErrorIs(t, err, entity.ErrBattleNotFound)
	_, err = rt.ResolveTurn(ctx, "")
	assert.ErrorIs(t, err, errx.ErrReqParamERR)

	msg := createMsg(t, "bt_empty", 1)
	msg.Defender = nil
	_, err = rt.Create(ctx, msg)
	assert.ErrorIs(t, err, resolve.ErrEmptyRoster)

	msg = createMsg(t, "bt_bad", 1)
	msg.Attacker[0].Strength = msg.Attacker[0].MaxStrength + 1
	_, err = rt.Create(ctx, msg)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	msg = createMsg(t, "bt_omen", 1)
	msg.Context.Specials = []battlefield.Special{{Name: "omens"}}
	_, err = rt.Create(ctx, msg)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	assert.ErrorIs(t, err, battlefield.ErrUnknownSpecial)

	// 不存在时的失败不妨碍随后创建
	_, err = rt.Create(ctx, createMsg(t, "bt_none", 1))
	assert.NoError(t, err)
}

func TestRuntime_空闲落库后可重新加载(t *testing.T) {
	repo := memory.NewBattleRepository()
	rt := newRuntime(t, repo, nil, 100*time.Millisecond)
	ctx := context.Background()

	_, err := rt.Create(ctx, createMsg(t, "bt_idle", 5))
	require.NoError(t, err)
	first, err := rt.ResolveTurn(ctx, "bt_idle")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err := rt.ActiveBattles(ctx)
		return err == nil && n == 0
	}, 2*time.Second, 20*time.Millisecond)
	assert.NotZero(t, repo.Version("bt_idle"))

	got, err := rt.Get(ctx, "bt_idle", false)
	require.NoError(t, err)
	assert.Equal(t, first.View.Turn, got.View.Turn)
	assert.Equal(t, first.View.Attacker, got.View.Attacker)
}

func TestRuntime_重新加载后继续结算仍能落库(t *testing.T) {
	repo := memory.NewBattleRepository()
	rt := newRuntime(t, repo, nil, 100*time.Millisecond)
	ctx := context.Background()
	idle := func() bool {
		n, err := rt.ActiveBattles(ctx)
		return err == nil && n == 0
	}

	_, err := rt.Create(ctx, createMsg(t, "bt_reload", 9))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := rt.ResolveTurn(ctx, "bt_reload")
		require.NoError(t, err)
	}
	require.Eventually(t, idle, 2*time.Second, 20*time.Millisecond)
	before := repo.Version("bt_reload")
	require.NotZero(t, before)

	// 第 4 回合触发重新加载
	fourth, err := rt.ResolveTurn(ctx, "bt_reload")
	require.NoError(t, err)
	require.Equal(t, 4, fourth.View.Turn)
	require.Eventually(t, idle, 2*time.Second, 20*time.Millisecond)
	assert.Greater(t, repo.Version("bt_reload"), before, "重新加载后的快照必须被仓储接受")

	got, err := rt.Get(ctx, "bt_reload", false)
	require.NoError(t, err)
	assert.Equal(t, 4, got.View.Turn)
}

func TestRuntime_同种子可重放(t *testing.T) {
	ctx := context.Background()
	run := func(id entity.BattleID) *actors.BattleReply {
		rt := newRuntime(t, memory.NewBattleRepository(), nil, 0)
		_, err := rt.Create(ctx, createMsg(t, id, 42))
		require.NoError(t, err)
		rep, err := rt.RunToEnd(ctx, id, 0)
		require.NoError(t, err)
		return rep
	}
	a, b := run("bt_r1"), run("bt_r2")
	assert.Equal(t, a.View.Turn, b.View.Turn)
	assert.Equal(t, a.View.Winner, b.View.Winner)
	assert.Equal(t, a.View.History, b.View.History)
}

func TestRuntime_已取消的请求不投递(t *testing.T) {
	repo := memory.NewBattleRepository()
	rt := newRuntime(t, repo, nil, 0)
	_, err := rt.Create(context.Background(), createMsg(t, "bt_cancel", 5))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rt.ResolveTurn(ctx, "bt_cancel")
	assert.ErrorIs(t, err, errx.ErrTimeout)

	rep, err := rt.Get(context.Background(), "bt_cancel", false)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.View.Turn, "取消的请求不应推进回合")
}
