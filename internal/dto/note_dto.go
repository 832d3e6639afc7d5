// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "time"

// NoteForm 笔记创建/编辑参数
// An empty slug is derived from the title.
type NoteForm struct {
	Title string `json:"title" form:"title" binding:"required,max=100"`     // 标题
	Text  string `json:"text" form:"text" binding:"required"`               // 正文
	Slug  string `json:"slug" form:"slug" binding:"omitempty,max=100,slug"` // 可选，留空则由标题生成
}

// NoteSlugRequest addresses a single note of the API by slug.
type NoteSlugRequest struct {
	Slug string `json:"slug" form:"slug" binding:"required,max=100"`
}

// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteFormView is what the add and edit pages render: submitted values
// plus errors keyed by field, "__all__" for form wide ones.
type NoteFormView struct {
	Values NoteForm
	Errors map[string][]string
}

// NewNoteFormView wraps values; errs may be nil.
func NewNoteFormView(values NoteForm, errs map[string][]string) NoteFormView {
	if errs == nil {
		errs = map[string][]string{}
	}
	return NoteFormView{Values: values, Errors: errs}
}

// HasErrors reports whether the form failed validation.
func (v NoteFormView) HasErrors() bool {
	return len(v.Errors) > 0
}
