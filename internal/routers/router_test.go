package routers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dao"
	"github.com/haierkeys/ya-note-service/internal/domain"
	"github.com/haierkeys/ya-note-service/internal/dto"
	"github.com/haierkeys/ya-note-service/internal/middleware"
	"github.com/haierkeys/ya-note-service/internal/routers/web_router"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"
	"github.com/haierkeys/ya-note-service/pkg/slug"
	"github.com/haierkeys/ya-note-service/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	uniOnce sync.Once
	uni     *ut.UniversalTranslator
	uniErr  error
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureRender remembers the template and data of the last rendered page.
type captureRender struct {
	inner render.HTMLRender
	name  string
	data  gin.H
}

func (r *captureRender) Instance(name string, data any) render.Render {
	r.name = name
	r.data, _ = data.(gin.H)
	return r.inner.Instance(name, data)
}

type testEnv struct {
	app    *app.App
	engine *gin.Engine
	pages  *captureRender
	author *domain.User
	reader *domain.User
}

// setUpTestData builds an app on a private in-memory database with two users.
func setUpTestData(t *testing.T) *testEnv {
	t.Helper()

	uniOnce.Do(func() { uni, uniErr = validator.Init() })
	require.NoError(t, uniErr)

	cfg := &app.AppConfig{}
	cfg.Server.RunMode = gin.TestMode
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = dao.MemoryPath
	cfg.Database.AutoMigrate = true
	cfg.User.RegisterIsEnable = true
	cfg.Security.AuthTokenKey = "router-test"
	cfg.Security.TokenExpiry = "1d"
	cfg.App.DefaultLang = "ru"
	cfg.App.DefaultContextTimeout = 10
	cfg.Tracer.Enabled = true

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	engine, err := NewRouter(a, uni)
	require.NoError(t, err)
	pages := &captureRender{inner: engine.HTMLRender}
	engine.HTMLRender = pages

	ctx := context.Background()
	author, err := a.UserRepo.Create(ctx, &domain.User{Username: "User Author", Password: "x"})
	require.NoError(t, err)
	reader, err := a.UserRepo.Create(ctx, &domain.User{Username: "User Reader", Password: "x"})
	require.NoError(t, err)

	return &testEnv{app: a, engine: engine, pages: pages, author: author, reader: reader}
}

func (e *testEnv) createNote(t *testing.T, author *domain.User, title, text, s string) *domain.Note {
	t.Helper()
	n, err := e.app.NoteRepo.Create(context.Background(), &domain.Note{
		AuthorID: author.UID, Title: title, Text: text, Slug: s,
	})
	require.NoError(t, err)
	return n
}

func (e *testEnv) count(t *testing.T) int64 {
	t.Helper()
	n, err := e.app.NoteRepo.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	t.Helper()
	tok, err := e.app.TokenManager.Generate(u.UID, u.Username, "127.0.0.1")
	require.NoError(t, err)
	return tok
}

// do sends a request, logged in as u when u is not nil.
func (e *testEnv) do(t *testing.T, u *domain.User, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if u != nil {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: e.token(t, u)})
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) api(t *testing.T, u *domain.User, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(raw)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, u))
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func noteForm(title, text, s string) url.Values {
	v := url.Values{"title": {title}, "text": {text}}
	if s != "" {
		v.Set("slug", s)
	}
	return v
}

func slugs(t *testing.T, list any) []string {
	t.Helper()
	notes, ok := list.([]*dto.NoteDTO)
	require.True(t, ok, "object_list has type %T", list)
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Slug)
	}
	return out
}

// --- content ---

func TestNoteInListForAuthor(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.author, http.MethodGet, web_router.URLList, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, web_router.TemplateList, e.pages.name)
	assert.Contains(t, slugs(t, e.pages.data["object_list"]), "slug")
	assert.Contains(t, w.Body.String(), "Заголовок")
}

func TestNoteNotInListForAnotherUser(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.reader, http.MethodGet, web_router.URLList, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, slugs(t, e.pages.data["object_list"]), "slug")
}

func TestCreateAndEditPagesContainForm(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	for _, target := range []string{web_router.URLAdd, web_router.EditURL("slug")} {
		t.Run(target, func(t *testing.T) {
			w := e.do(t, e.author, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, web_router.TemplateForm, e.pages.name)
			assert.Contains(t, e.pages.data, "form")
		})
	}

	view := e.pages.data["form"].(dto.NoteFormView)
	assert.Equal(t, "slug", view.Values.Slug)
	assert.False(t, view.HasErrors())
}

// --- logic: create ---

func TestUserCanCreateNote(t *testing.T) {
	e := setUpTestData(t)

	w := e.do(t, e.author, http.MethodPost, web_router.URLAdd, noteForm("Заголовок", "Текст", "slug"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLSuccess, w.Header().Get("Location"))

	require.EqualValues(t, 1, e.count(t))
	n, err := e.app.NoteRepo.GetBySlug(context.Background(), "slug")
	require.NoError(t, err)
	assert.Equal(t, "Заголовок", n.Title)
	assert.Equal(t, "Текст", n.Text)
	assert.Equal(t, e.author.UID, n.AuthorID)
	assert.Equal(t, "slug", n.Slug)
}

func TestAnonymousUserCantCreateNote(t *testing.T) {
	e := setUpTestData(t)

	w := e.do(t, nil, http.MethodPost, web_router.URLAdd, noteForm("Заголовок", "Текст", "slug"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLLogin+"?next="+url.QueryEscape(web_router.URLAdd), w.Header().Get("Location"))
	assert.EqualValues(t, 0, e.count(t))
}

func TestEmptySlug(t *testing.T) {
	e := setUpTestData(t)

	w := e.do(t, e.author, http.MethodPost, web_router.URLAdd, noteForm("Заголовок", "Текст", ""))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLSuccess, w.Header().Get("Location"))

	require.EqualValues(t, 1, e.count(t))
	notes, err := e.app.NoteRepo.ListByAuthor(context.Background(), e.author.UID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, slug.Make("Заголовок"), notes[0].Slug)
	assert.Equal(t, "zagolovok", notes[0].Slug)
}

func TestNotUniqueSlug(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.author, http.MethodPost, web_router.URLAdd, noteForm("Заголовок", "Новый текст", "slug"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, e.count(t))

	view := e.pages.data["form"].(dto.NoteFormView)
	assert.Equal(t, []string{"slug" + code.SlugExistsWarning}, view.Errors["slug"])
	assert.Contains(t, w.Body.String(), "такой slug уже существует")
}

func TestInvalidFormIsRerendered(t *testing.T) {
	e := setUpTestData(t)

	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"missing title", url.Values{"text": {"Текст"}}, "title"},
		{"blank text", noteForm("Заголовок", "   ", "x"), "text"},
		{"bad slug", noteForm("Заголовок", "Текст", "не латиница"), "slug"},
		{"title too long", noteForm(strings.Repeat("я", 101), "Текст", ""), "title"},
		{"no slug derivable", noteForm("!!!", "Текст", ""), "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, e.author, http.MethodPost, web_router.URLAdd, tt.form)
			require.Equal(t, http.StatusOK, w.Code)
			view := e.pages.data["form"].(dto.NoteFormView)
			assert.NotEmpty(t, view.Errors[tt.field], "errors: %v", view.Errors)
		})
	}
	assert.EqualValues(t, 0, e.count(t))
}

// --- logic: edit and delete ---

func TestAuthorCanEditNote(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.author, http.MethodPost, web_router.EditURL("slug"), noteForm("Заголовок", "Новый текст", "slug"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLSuccess, w.Header().Get("Location"))

	n, err := e.app.NoteRepo.GetBySlug(context.Background(), "slug")
	require.NoError(t, err)
	assert.Equal(t, "Заголовок", n.Title)
	assert.Equal(t, "Новый текст", n.Text)
	assert.Equal(t, "slug", n.Slug)
	assert.Equal(t, e.author.UID, n.AuthorID)
}

func TestAuthorCanRenameSlug(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")
	e.createNote(t, e.author, "Другая", "Текст", "taken")

	w := e.do(t, e.author, http.MethodPost, web_router.EditURL("slug"), noteForm("Заголовок", "Текст", "taken"))
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, e.author, http.MethodPost, web_router.EditURL("slug"), noteForm("Заголовок", "Текст", "fresh"))
	require.Equal(t, http.StatusFound, w.Code)
	_, err := e.app.NoteRepo.GetBySlug(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestOtherUserCantEditNote(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.reader, http.MethodPost, web_router.EditURL("slug"), noteForm("Заголовок", "Новый текст", "slug"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, web_router.TemplateError, e.pages.name)

	n, err := e.app.NoteRepo.GetBySlug(context.Background(), "slug")
	require.NoError(t, err)
	assert.Equal(t, "Заголовок", n.Title)
	assert.Equal(t, "Текст", n.Text)
	assert.Equal(t, "slug", n.Slug)
}

func TestAuthorCanDeleteNote(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.author, http.MethodPost, web_router.DeleteURL("slug"), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLSuccess, w.Header().Get("Location"))
	assert.EqualValues(t, 0, e.count(t))
}

func TestOtherUserCantDeleteNote(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	w := e.do(t, e.reader, http.MethodPost, web_router.DeleteURL("slug"), url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 1, e.count(t))
}

func TestPageAvailability(t *testing.T) {
	e := setUpTestData(t)
	e.createNote(t, e.author, "Заголовок", "Текст", "slug")

	tests := []struct {
		name   string
		user   *domain.User
		target string
		status int
	}{
		{"home anonymous", nil, web_router.URLHome, http.StatusOK},
		{"login anonymous", nil, web_router.URLLogin, http.StatusOK},
		{"signup anonymous", nil, web_router.URLSignup, http.StatusOK},
		{"logout anonymous", nil, web_router.URLLogout, http.StatusOK},
		{"list anonymous", nil, web_router.URLList, http.StatusFound},
		{"detail anonymous", nil, web_router.NoteURL("slug"), http.StatusFound},
		{"done author", e.author, web_router.URLSuccess, http.StatusOK},
		{"detail author", e.author, web_router.NoteURL("slug"), http.StatusOK},
		{"delete page author", e.author, web_router.DeleteURL("slug"), http.StatusOK},
		{"detail reader", e.reader, web_router.NoteURL("slug"), http.StatusNotFound},
		{"edit page reader", e.reader, web_router.EditURL("slug"), http.StatusNotFound},
		{"delete page reader", e.reader, web_router.DeleteURL("slug"), http.StatusNotFound},
		{"missing slug", e.author, web_router.NoteURL("nope"), http.StatusNotFound},
		{"unknown page", e.author, "/nowhere/", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.user, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// --- auth pages ---

func TestSignupLoginLogout(t *testing.T) {
	e := setUpTestData(t)

	w := e.do(t, nil, http.MethodPost, web_router.URLSignup, url.Values{
		"username": {"newbie"}, "password": {"secret123"}, "confirmPassword": {"secret123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLLogin, w.Header().Get("Location"))

	// duplicate username is a form error
	w = e.do(t, nil, http.MethodPost, web_router.URLSignup, url.Values{
		"username": {"newbie"}, "password": {"secret123"}, "confirmPassword": {"secret123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	view := e.pages.data["form"].(dto.AuthFormView)
	assert.NotEmpty(t, view.Errors["username"])

	w = e.do(t, nil, http.MethodPost, web_router.URLLogin, url.Values{
		"username": {"newbie"}, "password": {"wrong-pass"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	view = e.pages.data["form"].(dto.AuthFormView)
	assert.NotEmpty(t, view.Errors["__all__"])

	w = e.do(t, nil, http.MethodPost, web_router.URLLogin, url.Values{
		"username": {"newbie"}, "password": {"secret123"}, "next": {"/add/"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/add/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, web_router.URLList, nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, e.author, http.MethodPost, web_router.URLLogout, url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, web_router.TemplateLogout, e.pages.name)
	assert.NotContains(t, e.pages.data, "user")
}

func TestLoginRejectsOpenRedirect(t *testing.T) {
	e := setUpTestData(t)
	_, err := e.app.UserService.Register(context.Background(), &dto.UserCreateRequest{
		Username: "walker", Password: "secret123", ConfirmPassword: "secret123",
	})
	require.NoError(t, err)

	w := e.do(t, nil, http.MethodPost, web_router.URLLogin, url.Values{
		"username": {"walker"}, "password": {"secret123"}, "next": {"//evil.example/"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, web_router.URLList, w.Header().Get("Location"))
}

// --- json api ---

func TestAPINotes(t *testing.T) {
	e := setUpTestData(t)

	w, res := e.api(t, nil, http.MethodGet, "/api/notes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, code.ErrorNotUserAuthToken.Code(), res["code"])

	w, res = e.api(t, e.author, http.MethodPost, "/api/note", map[string]string{"title": "Заголовок", "text": "Текст"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, code.SuccessCreate.Code(), res["code"])
	assert.Equal(t, "zagolovok", res["data"].(map[string]any)["slug"])

	w, res = e.api(t, e.author, http.MethodPost, "/api/note", map[string]string{"title": "Заголовок", "text": "Другой"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, code.ErrorNoteSlugExists.Code(), res["code"])
	assert.EqualValues(t, 1, e.count(t))

	w, res = e.api(t, e.author, http.MethodGet, "/api/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, res["data"].(map[string]any)["total"])

	w, _ = e.api(t, e.reader, http.MethodGet, "/api/note?slug=zagolovok", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, res = e.api(t, e.author, http.MethodPut, "/api/note?slug=zagolovok", map[string]string{"title": "Новый", "text": "Текст", "slug": "new"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "new", res["data"].(map[string]any)["slug"])

	w, _ = e.api(t, e.reader, http.MethodDelete, "/api/note?slug=new", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 1, e.count(t))

	w, _ = e.api(t, e.author, http.MethodDelete, "/api/note?slug=new", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, e.count(t))

	w, res = e.api(t, e.author, http.MethodGet, "/api/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, code.ErrorNotFoundAPI.Code(), res["code"])
}

func TestAPIUsers(t *testing.T) {
	e := setUpTestData(t)

	w, res := e.api(t, nil, http.MethodPost, "/api/user/register", map[string]string{
		"username": "apiuser", "password": "secret123", "confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := res["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	entity, err := e.app.TokenManager.Parse(token)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.Header.Set("token", token)
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var info pkgapp.Res
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.EqualValues(t, entity.UID, info.Data.(map[string]any)["uid"])

	w, res = e.api(t, nil, http.MethodPost, "/api/user/login", map[string]string{"username": "apiuser", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, code.ErrorUserLoginPasswordFailed.Code(), res["code"])

	w, _ = e.api(t, nil, http.MethodPost, "/api/user/register", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = e.api(t, nil, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", res["data"].(map[string]any)["status"])
}

func TestPrivateRouter(t *testing.T) {
	r := NewPrivateRouterWithLogger(gin.DebugMode, zap.NewNop())

	for _, target := range []string{"/metrics", "/debug/vars", DefaultPrefix + "/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, w.Code, target)
	}

	release := NewPrivateRouterWithLogger(gin.ReleaseMode, zap.NewNop())
	w := httptest.NewRecorder()
	release.ServeHTTP(w, httptest.NewRequest(http.MethodGet, DefaultPrefix+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
