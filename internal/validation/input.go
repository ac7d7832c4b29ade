package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalid оборачивает все ошибки валидации пользовательского ввода
var ErrInvalid = errors.New("validation failed")

// SlugPattern допустимый slug в пути и ключах: латиница, цифры, "_" и "-"
var SlugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	angleBrackets  = regexp.MustCompile(`[<>]`)
)

// Invalidf создает ошибку валидации с сообщением для клиента
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Message возвращает текст ошибки валидации без служебного префикса
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
}

// ValidateSlug проверяет, что slug можно безопасно использовать как имя файла
// Символы вне [a-zA-Z0-9_-] не вырезаются, а отклоняются
func ValidateSlug(slug string) error {
	if slug == "" {
		return Invalidf("slug is required")
	}

	if !SlugPattern.MatchString(slug) {
		return Invalidf("invalid slug")
	}

	return nil
}

// StripHTML удаляет HTML-теги, затем оставшиеся угловые скобки
func StripHTML(s string) string {
	return angleBrackets.ReplaceAllString(htmlTagPattern.ReplaceAllString(s, ""), "")
}

// CleanText обрезает пробелы, удаляет HTML и проверяет длину в символах
// field используется в сообщении об ошибке
func CleanText(field, raw string, maxLen int) (string, error) {
	clean := StripHTML(strings.TrimSpace(raw))

	if n := utf8.RuneCountInString(clean); n > maxLen {
		return "", Invalidf("%s is too long (max %d characters)", field, maxLen)
	}

	if clean == "" {
		return "", Invalidf("%s is required", field)
	}

	return clean, nil
}
