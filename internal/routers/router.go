package routers

import (
	"net/http"
	"time"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/middleware"
	"github.com/haierkeys/ya-note-service/internal/routers/api_router"
	"github.com/haierkeys/ya-note-service/internal/routers/web_router"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/limiter"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// authLimiter 登录注册接口限流，每个引擎一份
func authLimiter() limiter.Face {
	rule := func(key string) limiter.BucketRule {
		return limiter.BucketRule{
			Key:          key,
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		}
	}
	return limiter.NewMethodLimiter().AddBuckets(
		rule(web_router.URLLogin),
		rule(web_router.URLSignup),
		rule("/api/user/login"),
		rule("/api/user/register"),
	)
}

// NewRouter builds the public engine: HTML pages at the root and the JSON API under /api.
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) (*gin.Engine, error) {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	tmpl, err := web_router.LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header))
	r.Use(middleware.Metrics())
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.LangWithTranslator(uni, cfg.App.DefaultLang))
	r.Use(middleware.RecoveryWithLogger(lg))
	r.Use(middleware.RateLimiter(authLimiter()))
	r.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
	r.Use(middleware.Session(appContainer.TokenManager))

	// 页面
	{
		noteHandler := web_router.NewNoteHandler(appContainer)
		userHandler := web_router.NewUserHandler(appContainer)

		r.GET(web_router.URLHome, noteHandler.Home)

		r.GET(web_router.URLSignup, userHandler.SignupForm)
		r.POST(web_router.URLSignup, userHandler.Signup)
		r.GET(web_router.URLLogin, userHandler.LoginForm)
		r.POST(web_router.URLLogin, userHandler.Login)
		r.GET(web_router.URLLogout, userHandler.Logout)
		r.POST(web_router.URLLogout, userHandler.Logout)

		notes := r.Group("/", middleware.LoginRequired(web_router.URLLogin))
		notes.GET("/notes/", noteHandler.List)
		notes.GET("/add/", noteHandler.AddForm)
		notes.POST("/add/", noteHandler.Add)
		notes.GET("/done/", noteHandler.Success)
		notes.GET("/note/:slug/", noteHandler.Detail)
		notes.GET("/edit/:slug/", noteHandler.EditForm)
		notes.POST("/edit/:slug/", noteHandler.Edit)
		notes.GET("/delete/:slug/", noteHandler.DeleteConfirm)
		notes.POST("/delete/:slug/", noteHandler.Delete)
	}

	api := r.Group("/api")
	{
		userHandler := api_router.NewUserHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		systemHandler := api_router.NewSystemHandler(appContainer)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.GET("/version", systemHandler.Version)
		api.GET("/health", systemHandler.Health)

		auth := api.Group("", middleware.UserAuthToken(appContainer.TokenManager))
		auth.GET("/user/info", userHandler.UserInfo)
		auth.GET("/notes", noteHandler.List)
		auth.GET("/note", noteHandler.Get)
		auth.POST("/note", noteHandler.Create)
		auth.PUT("/note", noteHandler.Update)
		auth.DELETE("/note", noteHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		if middleware.IsAPIRequest(c) {
			middleware.NoFound()(c)
			return
		}
		c.HTML(http.StatusNotFound, web_router.TemplateError, gin.H{
			"title":   http.StatusText(http.StatusNotFound),
			"status":  http.StatusNotFound,
			"message": code.ErrorNotFoundAPI.MsgIn(pkgapp.GetLang(c)),
		})
	})

	return r, nil
}
