package balance

import (
	"math"
	"sort"

	"AncientWarfare/internal/combat/resolve"
)

type Report struct {
	Scenario        string  `json:"scenario" yaml:"scenario"`
	Iterations      int     `json:"iterations" yaml:"iterations"`
	AttackerWins    int     `json:"attacker_wins" yaml:"attacker_wins"`
	DefenderWins    int     `json:"defender_wins" yaml:"defender_wins"`
	Draws           int     `json:"draws" yaml:"draws"`
	AttackerWinRate float64 `json:"attacker_win_rate" yaml:"attacker_win_rate"`
	MeanTurns       float64 `json:"mean_turns" yaml:"mean_turns"`
	// P68Turns/P95Turns: 68%/95% 的战斗在该回合数内结束
	P68Turns int `json:"p68_turns" yaml:"p68_turns"`
	P95Turns int `json:"p95_turns" yaml:"p95_turns"`
	// BreakthroughRate 是至少触发过一次突破的战斗占比
	BreakthroughRate float64 `json:"breakthrough_rate" yaml:"breakthrough_rate"`
	MeanAttackerLoss float64 `json:"mean_attacker_loss" yaml:"mean_attacker_loss"`
	MeanDefenderLoss float64 `json:"mean_defender_loss" yaml:"mean_defender_loss"`
}

func Summarize(name string, outcomes []Outcome) Report {
	rep := Report{Scenario: name, Iterations: len(outcomes)}
	if len(outcomes) == 0 {
		return rep
	}
	turns := make([]int, 0, len(outcomes))
	var sumTurns, sumAtk, sumDef float64
	breakthroughs := 0
	for _, o := range outcomes {
		switch o.Winner {
		case resolve.WinnerAttacker:
			rep.AttackerWins++
		case resolve.WinnerDefender:
			rep.DefenderWins++
		default:
			rep.Draws++
		}
		if o.Breakthroughs > 0 {
			breakthroughs++
		}
		turns = append(turns, o.Turns)
		sumTurns += float64(o.Turns)
		sumAtk += o.AttackerLoss
		sumDef += o.DefenderLoss
	}
	n := float64(len(outcomes))
	sort.Ints(turns)
	rep.AttackerWinRate = round3(float64(rep.AttackerWins) / n)
	rep.MeanTurns = round3(sumTurns / n)
	rep.P68Turns = percentile(turns, 0.68)
	rep.P95Turns = percentile(turns, 0.95)
	rep.BreakthroughRate = round3(float64(breakthroughs) / n)
	rep.MeanAttackerLoss = round3(sumAtk / n)
	rep.MeanDefenderLoss = round3(sumDef / n)
	return rep
}

// percentile 取最近秩：升序数组中第 ceil(p·n) 个值。
func percentile(sorted []int, p float64) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
