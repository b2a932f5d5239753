package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/modules/kit/logx"
)

// Recovery 捕获 handler panic，记系统错误日志并返回统一响应体。
func Recovery(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err := fmt.Errorf("panic: %v", r)
			ctx := c.Request.Context()
			logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog(c.FullPath(), err))
			resp := transport.FromError(err)
			transport.SetBizCode(ctx, resp.Code)
			transport.SetErrorReason(ctx, err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}
