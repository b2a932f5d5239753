package casualty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AncientWarfare/internal/combat/unit"
)

func TestBucket_小伤害静默累积(t *testing.T) {
	var b Bucket
	assert.Equal(t, 0, b.Accumulate(4, 0.1))
	assert.Equal(t, 0, b.Accumulate(-4, 0.1), "取绝对值")
	assert.InDelta(t, 0.8, b.Fraction, 1e-9)
	// 0.8+0.3=1.1：round(1.1×5)=6，桶留 0.1
	assert.Equal(t, 6, b.Accumulate(3, 0.1))
	assert.InDelta(t, 0.1, b.Fraction, 1e-9)
}

func TestBucket_溢出部分计入本批(t *testing.T) {
	b := Bucket{Fraction: 0.8}
	assert.Equal(t, 7, b.Accumulate(6, 0.1), "round((1+0.4)×5)")
	assert.InDelta(t, 0.4, b.Fraction, 1e-9)

	exact := Bucket{Fraction: 0.5}
	assert.Equal(t, PerBatch, exact.Accumulate(5, 0.1), "恰好到 1 时是整一批")
	assert.InDelta(t, 0, exact.Fraction, 1e-9)
}

func TestBucket_大伤害一次溢出多批(t *testing.T) {
	var b Bucket
	assert.Equal(t, 18, b.Accumulate(35, 0.1), "round(3.5×5)")
	assert.InDelta(t, 0.5, b.Fraction, 1e-9)
}

func TestBucket_守恒(t *testing.T) {
	// 每次溢出都恰好落在整数上时，累计伤亡就是 round(N×d×5)
	for _, d := range []float64{0.25, 0.5, 1.0, 2.0, 0.125} {
		var b Bucket
		total := 0
		const n = 40
		for i := 0; i < n; i++ {
			total += b.Accumulate(d, 1)
			require.GreaterOrEqual(t, b.Fraction, 0.0)
			require.Less(t, b.Fraction, 1.0)
		}
		sum := n * d
		assert.Equal(t, int(math.Round(sum*PerBatch)), total, "d=%v", d)
		assert.InDelta(t, math.Mod(sum, 1.0), b.Fraction, 1e-6, "d=%v", d)
	}
}

func TestBucket_短程累计在一批之内(t *testing.T) {
	var b Bucket
	total := 0
	for i := 0; i < 4; i++ {
		total += b.Accumulate(0.6, 1)
	}
	// 1.2 出 6，1.4 出 7
	assert.Equal(t, 13, total)
	assert.InDelta(t, math.Round(4*0.6*PerBatch), float64(total), PerBatch)
	assert.InDelta(t, math.Mod(4*0.6, 1.0), b.Fraction, 1e-6)
}

func TestBuckets_按键隔离(t *testing.T) {
	bs := Buckets{}
	ab, ba := PairKey("a", "b"), PairKey("b", "a")
	bs.Accumulate(ab, 6, 0.1)
	bs.Accumulate(ba, 2, 0.1)
	assert.InDelta(t, 0.6, bs[ab].Fraction, 1e-9)
	assert.InDelta(t, 0.2, bs[ba].Fraction, 1e-9)

	cp := bs.Clone()
	cp.Accumulate(ab, 1, 0.1)
	assert.InDelta(t, 0.6, bs[ab].Fraction, 1e-9, "克隆不共享")

	bs.Drop(ab)
	assert.Equal(t, []string{ba}, bs.Keys())
}

func roster(strengths ...int) unit.Roster {
	r := make(unit.Roster, len(strengths))
	for i, s := range strengths {
		r[i] = unit.Unit{ID: string(rune('a' + i)), Weapons: []string{"spear"}, Strength: s, MaxStrength: 100}
	}
	return r
}

func TestDistribute_按兵力比例(t *testing.T) {
	out, losses := Distribute(10, roster(100, 50, 50))
	assert.Equal(t, []int{5, 3, 2}, losses)
	assert.Equal(t, 95, out[0].Strength)
	assert.Equal(t, 190, out.Strength())
}

func TestDistribute_不改原编制且跳过阵亡(t *testing.T) {
	in := roster(0, 30)
	out, losses := Distribute(5, in)
	assert.Equal(t, []int{0, 5}, losses)
	assert.Equal(t, 30, in[1].Strength)
	assert.Equal(t, 25, out[1].Strength)
}

func TestDistribute_超过总兵力时全灭(t *testing.T) {
	out, losses := Distribute(500, roster(10, 20))
	assert.Equal(t, []int{10, 20}, losses)
	assert.Equal(t, 0, out.Strength())
	for _, u := range out {
		assert.NoError(t, u.Validate())
	}
}
