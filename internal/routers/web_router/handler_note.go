package web_router

import (
	"errors"
	"net/http"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dto"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记页面处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

const (
	titleHome   = "Главная"
	titleList   = "Ваши заметки"
	titleAdd    = "Добавить заметку"
	titleEdit   = "Редактировать заметку"
	titleDelete = "Удалить заметку"
	titleDone   = "Успешно"
)

// Home 首页，匿名用户可访问
func (h *NoteHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, TemplateHome, titleHome, nil)
}

// List 当前用户的笔记列表
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.App.NoteService.List(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.renderError(c, "NoteHandler.List", err)
		return
	}
	h.render(c, http.StatusOK, TemplateList, titleList, gin.H{"object_list": notes})
}

// Detail 笔记详情
func (h *NoteHandler) Detail(c *gin.Context) {
	note, err := h.App.NoteService.Get(c.Request.Context(), pkgapp.GetUID(c), c.Param("slug"))
	if err != nil {
		h.renderError(c, "NoteHandler.Detail", err)
		return
	}
	h.render(c, http.StatusOK, TemplateDetail, note.Title, gin.H{"object": note})
}

// AddForm 空白的新建表单
func (h *NoteHandler) AddForm(c *gin.Context) {
	h.renderForm(c, URLAdd, titleAdd, dto.NoteForm{}, nil)
}

// Add 新建笔记，成功后跳转到成功页
func (h *NoteHandler) Add(c *gin.Context) {
	form := dto.NoteForm{}
	if valid, errs := pkgapp.BindAndValid(c, &form); !valid {
		h.renderForm(c, URLAdd, titleAdd, form, errs.Maps())
		return
	}

	if _, err := h.App.NoteService.Create(c.Request.Context(), pkgapp.GetUID(c), &form); err != nil {
		if fieldErrs, ok := noteFormErrors(c, err); ok {
			h.renderForm(c, URLAdd, titleAdd, form, fieldErrs)
			return
		}
		h.renderError(c, "NoteHandler.Add", err)
		return
	}

	c.Redirect(http.StatusFound, URLSuccess)
}

// EditForm 预填充的编辑表单，仅作者可见
func (h *NoteHandler) EditForm(c *gin.Context) {
	slug := c.Param("slug")
	note, err := h.App.NoteService.Get(c.Request.Context(), pkgapp.GetUID(c), slug)
	if err != nil {
		h.renderError(c, "NoteHandler.EditForm", err)
		return
	}
	values := dto.NoteForm{Title: note.Title, Text: note.Text, Slug: note.Slug}
	h.renderForm(c, EditURL(slug), titleEdit, values, nil)
}

// Edit 保存编辑，非作者得到 404
func (h *NoteHandler) Edit(c *gin.Context) {
	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)
	slug := c.Param("slug")

	// the note is resolved before the form is looked at
	if _, err := h.App.NoteService.Get(ctx, uid, slug); err != nil {
		h.renderError(c, "NoteHandler.Edit", err)
		return
	}

	form := dto.NoteForm{}
	if valid, errs := pkgapp.BindAndValid(c, &form); !valid {
		h.renderForm(c, EditURL(slug), titleEdit, form, errs.Maps())
		return
	}

	if _, err := h.App.NoteService.Update(ctx, uid, slug, &form); err != nil {
		if fieldErrs, ok := noteFormErrors(c, err); ok {
			h.renderForm(c, EditURL(slug), titleEdit, form, fieldErrs)
			return
		}
		h.renderError(c, "NoteHandler.Edit", err)
		return
	}

	c.Redirect(http.StatusFound, URLSuccess)
}

// DeleteConfirm 删除确认页
func (h *NoteHandler) DeleteConfirm(c *gin.Context) {
	note, err := h.App.NoteService.Get(c.Request.Context(), pkgapp.GetUID(c), c.Param("slug"))
	if err != nil {
		h.renderError(c, "NoteHandler.DeleteConfirm", err)
		return
	}
	h.render(c, http.StatusOK, TemplateDelete, titleDelete, gin.H{"object": note})
}

// Delete 删除笔记，非作者得到 404
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.App.NoteService.Delete(c.Request.Context(), pkgapp.GetUID(c), c.Param("slug")); err != nil {
		h.renderError(c, "NoteHandler.Delete", err)
		return
	}
	c.Redirect(http.StatusFound, URLSuccess)
}

// Success 操作成功页
func (h *NoteHandler) Success(c *gin.Context) {
	h.render(c, http.StatusOK, TemplateSuccess, titleDone, nil)
}

func (h *NoteHandler) renderForm(c *gin.Context, action, title string, values dto.NoteForm, errs map[string][]string) {
	h.render(c, http.StatusOK, TemplateForm, title, gin.H{
		"form":   dto.NewNoteFormView(values, errs),
		"action": action,
	})
}

// noteFormErrors turns service validation failures into field errors of the
// note form; other errors are left to the error page.
func noteFormErrors(c *gin.Context, err error) (map[string][]string, bool) {
	var ce *code.Code
	if !errors.As(err, &ce) {
		return nil, false
	}
	lang := pkgapp.GetLang(c)

	switch {
	case ce.Is(code.ErrorNoteSlugExists):
		msgs := ce.Details()
		if len(msgs) == 0 {
			msgs = []string{ce.MsgIn(lang)}
		}
		return map[string][]string{"slug": msgs}, true
	case ce.Is(code.ErrorNoteSlugEmpty):
		return map[string][]string{"slug": {ce.MsgIn(lang)}}, true
	case ce.Is(code.ErrorInvalidParams):
		errs := map[string][]string{}
		for _, field := range ce.Details() {
			errs[field] = append(errs[field], ce.MsgIn(lang))
		}
		if len(errs) == 0 {
			errs["__all__"] = []string{ce.MsgIn(lang)}
		}
		return errs, true
	}
	return nil, false
}
