package api_router

import (
	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dto"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	apperrors "github.com/haierkeys/ya-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记 API 路由处理器
// 其他作者的笔记一律返回 ErrorNoteNotFound
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 获取当前用户的笔记列表
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	notes, err := h.App.NoteService.List(ctx, pkgapp.GetUID(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, notes, len(notes))
}

// Get 获取单条笔记
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Get", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, pkgapp.GetUID(c), params.Slug)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Create 创建笔记，slug 留空时由标题生成
// @Router /api/note [post]
func (h *NoteHandler) Create(c *gin.Context) {
	params := &dto.NoteForm{}
	if !h.bind(c, "NoteHandler.Create", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Create(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(note))
}

// Update 编辑笔记，slug 由查询参数指定
// @Router /api/note [put]
func (h *NoteHandler) Update(c *gin.Context) {
	target := c.Query("slug")
	if target == "" {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails("slug"))
		return
	}

	params := &dto.NoteForm{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Update(ctx, pkgapp.GetUID(c), target, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(note))
}

// Delete 删除笔记
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Delete", params) {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.Delete(ctx, pkgapp.GetUID(c), params.Slug); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}
