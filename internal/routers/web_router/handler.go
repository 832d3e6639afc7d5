// Package web_router 提供页面路由处理器
package web_router

import (
	"errors"
	"net/http"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/middleware"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 页面 Handler 基础结构体，封装 App Container
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// render fills the values every page uses and renders the template.
func (h *Handler) render(c *gin.Context, status int, name, title string, data gin.H) {
	ctx := gin.H{
		"title":       title,
		"lang":        pkgapp.GetLang(c),
		"app_name":    c.GetString("app_name"),
		"app_version": c.GetString("app_version"),
	}
	if user := pkgapp.GetUser(c); user != nil {
		ctx["user"] = user
	}
	for k, v := range data {
		ctx[k] = v
	}
	c.HTML(status, name, ctx)
}

// renderError renders the error page with the HTTP status the code carries.
func (h *Handler) renderError(c *gin.Context, method string, err error) {
	status := http.StatusInternalServerError
	message := code.ErrorServerInternal.MsgIn(pkgapp.GetLang(c))

	var ce *code.Code
	if errors.As(err, &ce) {
		status = ce.StatusCode()
		message = ce.MsgIn(pkgapp.GetLang(c))
	}

	if status >= http.StatusInternalServerError {
		h.App.Logger().Error(method,
			zap.Error(err),
			zap.String(logger.FieldTraceID, middleware.GetTraceID(c.Request.Context())),
			zap.Int64(logger.FieldUID, pkgapp.GetUID(c)),
		)
	}

	h.render(c, status, TemplateError, http.StatusText(status), gin.H{
		"status":  status,
		"message": message,
	})
}
