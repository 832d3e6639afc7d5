package app

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/haierkeys/ya-note-service/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleForm struct {
	Title string `json:"title" form:"title" binding:"required,max=5"`
}

func newFormContext(t *testing.T, body url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBindAndValid(t *testing.T) {
	uni, err := validator.Init()
	require.NoError(t, err)

	c := newFormContext(t, url.Values{"title": {"ok"}})
	form := &titleForm{}
	valid, errs := BindAndValid(c, form)
	assert.True(t, valid)
	assert.Nil(t, errs)
	assert.Equal(t, "ok", form.Title)

	c = newFormContext(t, url.Values{"title": {"too long"}})
	trans, _ := uni.GetTranslator("en")
	c.Set(TransKey, trans)
	valid, errs = BindAndValid(c, &titleForm{})
	assert.False(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Key)
	assert.Contains(t, errs.Maps()["title"][0], "title")
	assert.NotEmpty(t, errs.ErrorsToString())
	assert.Contains(t, errs.MapsToString(), "title")
}
