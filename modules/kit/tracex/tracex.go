// Package tracex 在 context 上携带链路字段：trace_id、span_id 与正在处理的 battle_id。
// 空字符串视为未设置。
package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type key uint8

const (
	traceKey key = iota
	spanKey
	battleKey
)

func with(ctx context.Context, k key, v string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, k, v)
}

func from(ctx context.Context, k key) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, _ := ctx.Value(k).(string)
	return s, s != ""
}

func WithTraceID(ctx context.Context, id string) context.Context  { return with(ctx, traceKey, id) }
func TraceIDFrom(ctx context.Context) (string, bool)              { return from(ctx, traceKey) }
func WithSpanID(ctx context.Context, id string) context.Context   { return with(ctx, spanKey, id) }
func SpanIDFrom(ctx context.Context) (string, bool)               { return from(ctx, spanKey) }
func WithBattleID(ctx context.Context, id string) context.Context { return with(ctx, battleKey, id) }
func BattleIDFrom(ctx context.Context) (string, bool)             { return from(ctx, battleKey) }

// NewTraceID 生成 32 位 hex；随机源失败时返回空串，调用方按未设置处理。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
