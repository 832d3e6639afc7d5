package web_router

// 页面路由
const (
	URLHome    = "/"
	URLList    = "/notes/"
	URLAdd     = "/add/"
	URLSuccess = "/done/"
	URLSignup  = "/auth/signup/"
	URLLogin   = "/auth/login/"
	URLLogout  = "/auth/logout/"
)

// NoteURL 笔记详情页
func NoteURL(slug string) string { return "/note/" + slug + "/" }

// EditURL 笔记编辑页
func EditURL(slug string) string { return "/edit/" + slug + "/" }

// DeleteURL 笔记删除页
func DeleteURL(slug string) string { return "/delete/" + slug + "/" }
