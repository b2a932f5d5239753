package idgen

import "testing"

func TestSnowflake_单调且唯一(t *testing.T) {
	s, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}
	seen := make(map[int64]struct{}, 10000)
	prev := int64(-1)
	for i := 0; i < 10000; i++ {
		id := s.NextID()
		if id <= prev {
			t.Fatalf("id 未单调递增: prev=%d id=%d", prev, id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("id 重复: %d", id)
		}
		seen[id] = struct{}{}
		prev = id
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(1)
	clock := epochMilli + 1000
	s.now = func() int64 { return clock }
	a := s.NextID()
	clock -= 500
	b := s.NextID()
	if b <= a {
		t.Fatalf("回拨后 id 不应变小: a=%d b=%d", a, b)
	}
}

func TestBattleID_节点号可解析(t *testing.T) {
	s, _ := NewSnowflake(42)
	id := s.NextBattleID()
	node, ok := ParseBattleID(id)
	if !ok || node != 42 {
		t.Fatalf("期望节点 42, got=%d ok=%v id=%s", node, ok, id)
	}
	if _, ok := ParseBattleID("player_1"); ok {
		t.Fatalf("前缀不对应返回 false")
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(MaxNodeID + 1); err == nil {
		t.Fatalf("期望报错")
	}
}
