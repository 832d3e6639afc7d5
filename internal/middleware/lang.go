package middleware

import (
	"strings"

	"github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// LangWithTranslator picks the response language from the lang query, the
// lang header or Accept-Language, in that order, and stores it together
// with the matching validation translator.
func LangWithTranslator(uni *ut.UniversalTranslator, defaultLang string) gin.HandlerFunc {
	if code.NormalizeLang(defaultLang) == "" {
		defaultLang = code.FALLBACK_LNG
	}
	defaultLang = code.NormalizeLang(defaultLang)

	return func(c *gin.Context) {
		lang := ""
		if s, exist := c.GetQuery("lang"); exist {
			lang = code.NormalizeLang(s)
		}
		if lang == "" {
			lang = code.NormalizeLang(c.GetHeader("lang"))
		}
		if lang == "" {
			lang = acceptLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = defaultLang
		}

		c.Set(app.LangKey, lang)

		if uni != nil {
			trans, found := uni.GetTranslator(lang)
			if !found {
				trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
			}
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}

// acceptLanguage returns the first supported entry of an Accept-Language header.
func acceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if l := code.NormalizeLang(tag); l != "" {
			return l
		}
	}
	return ""
}
