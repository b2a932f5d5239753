// Package casualty 把每回合的净伤害累积进分数桶，溢出时换算为整批伤亡。
package casualty

import (
	"math"
	"sort"
)

const (
	// PerBatch 是桶溢出一次产生的伤亡人数。
	PerBatch = 5
	// DefaultScale 是伤害折算进桶的比例。
	DefaultScale = 0.5

	epsilon = 1e-9
)

// Bucket 是一对交战方之间的分数累加器，Fraction 始终在 [0,1)。
type Bucket struct {
	Fraction float64 `json:"fraction" bson:"fraction"`
}

// Accumulate 加入 |damage|×scale，返回本次溢出产生的伤亡。
//
// 桶到达 1 时整桶按 round(bucket×PerBatch) 换算伤亡，溢出的小数部分计入这一批，
// 同时留在桶里继续累积。大伤害一次越过多个整数位时同样处理，桶保持在 [0,1)。
func (b *Bucket) Accumulate(damage, scale float64) int {
	b.Fraction += math.Abs(damage) * scale
	whole := math.Floor(b.Fraction + epsilon)
	if whole < 1 {
		return 0
	}
	casualties := int(math.Round(b.Fraction * PerBatch))
	b.Fraction -= whole
	if b.Fraction < 0 {
		b.Fraction = 0
	}
	return casualties
}

// Buckets 按 PairKey 索引，由所属战斗独占。
type Buckets map[string]Bucket

// PairKey 是“造成伤害的一方 -> 承受伤害的一方”的键。
func PairKey(from, to string) string {
	return from + "->" + to
}

// Accumulate 累积到 key 对应的桶，首次遇到时创建。
func (bs Buckets) Accumulate(key string, damage, scale float64) int {
	b := bs[key]
	n := b.Accumulate(damage, scale)
	bs[key] = b
	return n
}

// Drop 在一方被消灭或战斗结束时移除桶。
func (bs Buckets) Drop(key string) {
	delete(bs, key)
}

func (bs Buckets) Clone() Buckets {
	out := make(Buckets, len(bs))
	for k, v := range bs {
		out[k] = v
	}
	return out
}

// Keys 按字典序返回所有键，用于稳定输出。
func (bs Buckets) Keys() []string {
	keys := make([]string, 0, len(bs))
	for k := range bs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
