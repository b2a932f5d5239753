// Package idgen 生成战斗 id：41 位毫秒时间 + 10 位节点 + 12 位序号。
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2026-01-01 00:00:00 UTC，单位毫秒
	epochMilli int64 = 1767225600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	MaxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift = seqBits
	timeShift = nodeBits + seqBits

	// BattlePrefix 是战斗 id 的前缀。
	BattlePrefix = "bt_"
)

type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts < s.lastTS {
		// 时钟回拨时沿用上一次的时间戳，保持单调递增
		ts = s.lastTS
	}
	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ts <= s.lastTS {
				ts = s.now()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastTS = ts
	return ((ts - epochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

// NextBattleID 返回 "bt_" + base36 编码的 id。
func (s *Snowflake) NextBattleID() string {
	return BattlePrefix + strconv.FormatInt(s.NextID(), 36)
}

// ParseBattleID 取回 id 里的节点号，格式不对返回 false。
func ParseBattleID(id string) (nodeID int64, ok bool) {
	raw, found := strings.CutPrefix(id, BattlePrefix)
	if !found || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 36, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return (v >> nodeShift) & MaxNodeID, true
}
