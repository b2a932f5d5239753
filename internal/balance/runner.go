package balance

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/internal/shared/gameconfig/roster"
	"AncientWarfare/modules/kit/logx"
)

const DefaultIterations = 200

// Outcome 是一次模拟的结果。
type Outcome struct {
	Turns         int
	Winner        string
	Breakthroughs int
	// AttackerLoss/DefenderLoss 是损失的兵力比例
	AttackerLoss float64
	DefenderLoss float64
}

type Runner struct {
	settings   resolve.Settings
	workers    int
	iterations int
	lib        *roster.Library
	log        logx.Logger
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithIterations(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.iterations = n
		}
	}
}

func WithLibrary(lib *roster.Library) Option {
	return func(r *Runner) {
		if lib != nil {
			r.lib = lib
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

func NewRunner(settings resolve.Settings, opts ...Option) *Runner {
	r := &Runner{
		settings:   settings.Normalize(),
		workers:    runtime.NumCPU(),
		iterations: DefaultIterations,
		lib:        roster.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run 并发跑完所有迭代。第 i 次迭代使用 PCG(seed, i)，结果与并发度无关。
func (r *Runner) Run(ctx context.Context, sc Scenario) (Report, error) {
	attacker, defender, err := sc.Rosters(r.lib)
	if err != nil {
		return Report{}, err
	}
	settings := r.settings
	if sc.MaxTurns > 0 {
		settings.MaxTurns = sc.MaxTurns
	}
	engine := resolve.NewEngine(settings)
	n := sc.Iterations
	if n <= 0 {
		n = r.iterations
	}

	start := time.Now()
	outcomes := make([]Outcome, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := simulate(engine, sc, attacker, defender, uint64(i))
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := Summarize(sc.Name, outcomes)
	if r.log != nil {
		r.log.With(zap.String("scenario", sc.Name)).WithContext(ctx).Info("balance scenario finished",
			zap.Int("iterations", n),
			zap.Float64("attacker_win_rate", rep.AttackerWinRate),
			zap.Float64("mean_turns", rep.MeanTurns),
			zap.Duration("elapsed", time.Since(start)))
	}
	return rep, nil
}

func simulate(engine *resolve.Engine, sc Scenario, attacker, defender unit.Roster, iteration uint64) (Outcome, error) {
	rng := rand.New(rand.NewPCG(sc.Seed, iteration))
	state := resolve.NewState(sc.Context, attacker, defender)
	if err := engine.RunToEnd(rng, &state, nil); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Turns:         state.Turn,
		Winner:        state.Winner,
		Breakthroughs: state.Breakthroughs,
		AttackerLoss:  loss(attacker, state.Attacker),
		DefenderLoss:  loss(defender, state.Defender),
	}, nil
}

func loss(before, after unit.Roster) float64 {
	start := before.Strength()
	if start == 0 {
		return 0
	}
	return float64(start-after.Strength()) / float64(start)
}
