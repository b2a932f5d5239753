package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"AncientWarfare/modules/kit/logx"
	"AncientWarfare/modules/kit/tracex"
)

// AccessLog 是一次请求（HTTP 或 ws 消息）的访问日志状态，只在处理该请求的 goroutine 上读写。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	codeSet     bool
	fields      []zap.Field
	start       time.Time
	action      string
}

type accessLogKey struct{}

// NewContextWithParent 在 parent 上挂 AccessLog；parent 没有 trace_id 时生成一个。
func NewContextWithParent(parent context.Context, span, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx := parent
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if id := tracex.NewTraceID(); id != "" {
			ctx = tracex.WithTraceID(ctx, id)
		}
	}
	ctx = tracex.WithSpanID(ctx, span)
	if action == "" {
		action = "unknown"
	}
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{BizCode: SystemError, start: time.Now(), action: action})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
		al.codeSet = true
	}
}

// BizCodeSet 报告处理链上是否有人显式设置过业务码。
func BizCodeSet(ctx context.Context) bool {
	al := FromContext(ctx)
	return al != nil && al.codeSet
}

func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.ErrorReason = reason
	}
}

// AddFields 给本次访问日志追加字段，例如回合号、场景数。
func AddFields(ctx context.Context, fields ...zap.Field) {
	if al := FromContext(ctx); al != nil {
		al.fields = append(al.fields, fields...)
	}
}

// WriteAccessLog 输出访问日志，由中间件或 ws 路由在请求结束时调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	fields := make([]zap.Field, 0, 3+len(al.fields))
	fields = append(fields, zap.Duration("latency", time.Since(al.start)))
	if al.BizCode == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, al.fields...)
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
