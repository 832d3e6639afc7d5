package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorTemplate is rendered for failed page requests.
const ErrorTemplate = "error.html"

// RecoveryWithLogger 创建带日志器的 Recovery 中间件
// JSON API 请求返回统一错误响应，页面请求渲染错误页
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				var errorMsg string
				switch e := err.(type) {
				case string:
					errorMsg = e
				case error:
					errorMsg = e.Error()
				default:
					errorMsg = fmt.Sprintf("%v", e)
				}

				lg.Error("Recovered from panic",
					zap.String("router", c.Request.URL.Path),
					zap.String(logger.FieldMethod, c.Request.Method),
					zap.String("query", c.Request.URL.RawQuery),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.String(logger.FieldTraceID, c.GetString(app.TraceIDKey)),
					zap.String("panic_value", errorMsg),
					zap.String("stack", string(debug.Stack())),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				if IsAPIRequest(c) {
					app.NewResponse(c).ToResponse(code.ErrorServerInternal)
					c.Abort()
					return
				}
				c.HTML(http.StatusInternalServerError, ErrorTemplate, gin.H{
					"title":   http.StatusText(http.StatusInternalServerError),
					"status":  http.StatusInternalServerError,
					"message": code.ErrorServerInternal.MsgIn(app.GetLang(c)),
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
