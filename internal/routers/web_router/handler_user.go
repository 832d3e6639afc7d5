package web_router

import (
	"errors"
	"net/http"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dto"
	"github.com/haierkeys/ya-note-service/internal/middleware"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/util"

	"github.com/gin-gonic/gin"
)

// UserHandler 注册、登录、退出页面
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

const (
	titleSignup = "Регистрация"
	titleLogin  = "Вход"
	titleLogout = "Выход"
)

// SignupForm 注册页
func (h *UserHandler) SignupForm(c *gin.Context) {
	h.renderAuth(c, TemplateSignup, titleSignup, dto.AuthFormView{})
}

// Signup 注册用户，成功后跳转到登录页
func (h *UserHandler) Signup(c *gin.Context) {
	params := &dto.UserCreateRequest{}
	view := dto.AuthFormView{Username: c.PostForm("username")}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		view.Errors = errs.Maps()
		h.renderAuth(c, TemplateSignup, titleSignup, view)
		return
	}

	if _, err := h.App.UserService.Register(c.Request.Context(), params); err != nil {
		var ce *code.Code
		if !errors.As(err, &ce) || ce.StatusCode() >= http.StatusInternalServerError {
			h.renderError(c, "UserHandler.Signup", err)
			return
		}
		field := "__all__"
		switch {
		case ce.Is(code.ErrorUserUsernameNotValid), ce.Is(code.ErrorUserAlreadyExists):
			field = "username"
		case ce.Is(code.ErrorUserPasswordNotMatch):
			field = "confirmPassword"
		}
		view.Errors = map[string][]string{field: {ce.MsgIn(pkgapp.GetLang(c))}}
		h.renderAuth(c, TemplateSignup, titleSignup, view)
		return
	}

	c.Redirect(http.StatusFound, URLLogin)
}

// LoginForm 登录页，next 为登录后跳转的地址
func (h *UserHandler) LoginForm(c *gin.Context) {
	h.renderAuth(c, TemplateLogin, titleLogin, dto.AuthFormView{Next: c.Query("next")})
}

// Login 校验用户名密码，写入会话 Cookie
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	view := dto.AuthFormView{Username: c.PostForm("username"), Next: c.PostForm("next")}
	if view.Next == "" {
		view.Next = c.Query("next")
	}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		view.Errors = errs.Maps()
		h.renderAuth(c, TemplateLogin, titleLogin, view)
		return
	}

	user, err := h.App.UserService.Login(c.Request.Context(), params, pkgapp.GetRequestIP(c))
	if err != nil {
		var ce *code.Code
		if errors.As(err, &ce) && ce.Is(code.ErrorUserLoginPasswordFailed) {
			view.Errors = map[string][]string{"__all__": {ce.MsgIn(pkgapp.GetLang(c))}}
			h.renderAuth(c, TemplateLogin, titleLogin, view)
			return
		}
		h.renderError(c, "UserHandler.Login", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, user.Token, int(h.App.TokenManager.Expiry().Seconds()),
		"/", "", h.App.Config().Security.CookieSecure, true)

	next := URLList
	if util.IsSafeRedirect(view.Next) {
		next = view.Next
	}
	c.Redirect(http.StatusFound, next)
}

// Logout 清除会话 Cookie
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.App.Config().Security.CookieSecure, true)
	// the page below is rendered for an anonymous visitor
	c.Set(pkgapp.UserTokenKey, (*pkgapp.UserEntity)(nil))
	h.render(c, http.StatusOK, TemplateLogout, titleLogout, nil)
}

func (h *UserHandler) renderAuth(c *gin.Context, name, title string, view dto.AuthFormView) {
	if view.Errors == nil {
		view.Errors = map[string][]string{}
	}
	h.render(c, http.StatusOK, name, title, gin.H{"form": view})
}
