package code

import (
	"strings"
)

// lang 类型，用来存储各语言文本
type lang struct {
	en string // English
	ru string // Russian
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "ru"}

// GetMessage returns the message in language or the english one.
// GetMessage 方法根据传入的语言返回相应的消息
func (l lang) GetMessage(language string) string {
	switch NormalizeLang(language) {
	case "ru":
		if l.ru != "" {
			return l.ru
		}
	}
	return l.en
}

// GetSupportedLanguages returns languages every code carries a message for.
func GetSupportedLanguages() []string {
	return append([]string(nil), supportedLanguages...)
}

// NormalizeLang maps "ru-RU", "RU_ru" and similar to a supported language,
// "" when nothing matches.
func NormalizeLang(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	language = strings.ReplaceAll(language, "-", "_")
	if i := strings.IndexByte(language, '_'); i > 0 {
		language = language[:i]
	}
	for _, l := range supportedLanguages {
		if l == language {
			return l
		}
	}
	return ""
}
