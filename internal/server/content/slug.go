package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify строит slug из заголовка: нижний регистр, без диакритики,
// серии символов вне [a-z0-9] заменяются одним дефисом, дефисы по краям удаляются.
// "Política y Café" -> "politica-y-cafe"
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	plain, _, err := transform.String(t, strings.ToLower(title))
	if err != nil {
		plain = strings.ToLower(title)
	}

	return strings.Trim(nonAlnum.ReplaceAllString(plain, "-"), "-")
}
