package translation

import (
	"strings"
	"unicode/utf8"
)

// Upper bounds for labels coming back from the translation service. A
// longer result usually means the service answered with a sentence.
const (
	MaxNameLength     = 200
	MaxCategoryLength = 50
	MaxOptionLength   = 50
)

var emphasis = strings.NewReplacer("**", "", "*", "", "__", "", "_", "")

// Clean strips markdown emphasis markers and surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(emphasis.Replace(s))
}

// guard returns the cleaned translation, or original when the cleaned
// text is empty or longer than max characters. max <= 0 means unbounded.
func guard(translated, original string, max int) string {
	cleaned := Clean(translated)
	if cleaned == "" {
		return original
	}
	if max > 0 && utf8.RuneCountInString(cleaned) > max {
		return original
	}
	return cleaned
}
