package web_router

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Template names, one per page file.
const (
	TemplateHome    = "home.html"
	TemplateList    = "list.html"
	TemplateForm    = "form.html"
	TemplateDetail  = "detail.html"
	TemplateDelete  = "delete.html"
	TemplateSuccess = "success.html"
	TemplateSignup  = "signup.html"
	TemplateLogin   = "login.html"
	TemplateLogout  = "logout.html"
	TemplateError   = "error.html"
)

// LoadTemplates parses the embedded pages together with the shared layout.
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFiles, "templates/*.html")
}
