package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/modules/kit/logx"
	"AncientWarfare/modules/kit/tracex"
)

// TraceHeader 允许调用方把自己的 trace_id 带进来，响应里原样回写。
const TraceHeader = "X-Trace-Id"

// AccessLog 为每个请求建立 AccessLog 上下文。handler 通过 transport.SetBizCode 记录业务码，
// 没有记录时按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		parent := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx := transport.NewContextWithParent(parent, "http", c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, id)
		}

		c.Next()

		if !transport.BizCodeSet(ctx) {
			transport.SetBizCode(ctx, statusToBizCode(c.Writer.Status()))
		}
		if len(c.Errors) > 0 {
			transport.SetErrorReason(ctx, c.Errors.Last().Error())
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func statusToBizCode(status int) transport.BizCode {
	switch {
	case status < http.StatusBadRequest:
		return transport.OK
	case status == http.StatusNotFound:
		return transport.NotFound
	case status < http.StatusInternalServerError:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}
