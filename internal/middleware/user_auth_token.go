package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SessionCookieName 页面会话 Cookie 名称
const SessionCookieName = "token"

// IsAPIRequest reports whether the request targets the JSON API.
func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api"
}

// requestToken 按优先级获取 Token：Query -> Header -> Cookie
func requestToken(c *gin.Context) string {
	var token string

	if s, exist := c.GetQuery("authorization"); exist {
		token = s
	} else if s, exist := c.GetQuery("Authorization"); exist {
		token = s
	} else if s := c.GetHeader("Authorization"); len(s) != 0 {
		token = s
	} else if s, exist := c.GetQuery("token"); exist {
		token = s
	} else if s = c.GetHeader("token"); len(s) != 0 {
		token = s
	} else if s, err := c.Cookie(SessionCookieName); err == nil {
		token = s
	}

	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// UserAuthToken 用户 Token 认证中间件，JSON API 使用
func UserAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := requestToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set(app.UserTokenKey, user)

		c.Next()
	}
}

// Session attaches the user of a valid token to the request and never aborts;
// pages decide on their own whether an anonymous visitor may proceed.
func Session(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := requestToken(c); token != "" {
			if user, err := tm.Parse(token); err == nil {
				c.Set(app.UserTokenKey, user)
			}
		}
		c.Next()
	}
}

// LoginRequired redirects anonymous visitors to loginURL with the requested
// path in the next parameter.
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.GetUID(c) > 0 {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, loginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}
