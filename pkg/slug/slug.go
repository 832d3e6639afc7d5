// Package slug builds URL-safe identifiers from note titles.
//
// The steps follow the classic Russian translit slugify: separators are
// collapsed first, unknown characters are dropped afterwards, so a dropped
// symbol between two spaces leaves a double hyphen ("a ! b" -> "a--b").
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator joins words of a slug.
const Separator = '-'

// translitTable maps every non-ASCII character the generator understands.
// Punctuation entries produce symbols that the final pass removes, dashes survive as "-".
var translitTable = map[rune]string{
	'\'': "'", '"': "\"", '‘': "'", '’': "'", '«': "\"", '»': "\"", '“': "\"", '”': "\"",
	'–': "-", '—': "-", '‒': "-", '−': "-",
	'…': "...", '№': "#",

	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "`", 'ы': "yi", 'ь': "'", 'э': "e", 'ю': "yu", 'я': "ya",
	// ukrainian
	'є': "ye", 'ї': "yi", 'і': "i", 'ґ': "g",
}

var lower = cases.Lower(language.Und)

// Make derives a slug from title.
// The result contains only [a-z0-9_-] and may be empty when title has
// nothing transliterable. Hyphen runs are kept when symbols were dropped
// between separators.
func Make(title string) string {
	s := lower.String(title)
	s = strings.ReplaceAll(s, "&amp;", " and ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = collapseSeparators(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isASCIIWord(r) || r == Separator {
			b.WriteRune(r)
			continue
		}
		// characters outside the alphabet vanish here
		b.WriteString(translitTable[r])
	}

	out := strings.Map(func(r rune) rune {
		if isASCIIWord(r) || r == Separator {
			return r
		}
		return -1
	}, b.String())
	return strings.TrimSpace(out)
}

// Truncate cuts s to at most n runes. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// collapseSeparators replaces every run of whitespace and hyphens with one hyphen.
func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == Separator || unicode.IsSpace(r) {
			if !inRun {
				b.WriteRune(Separator)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIWord(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_'
}
