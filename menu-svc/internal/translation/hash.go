package translation

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"smartmenu/menu-svc/internal/domain"
)

// SourceHash fingerprints the translatable fields of an item. The value
// is the absolute 32-bit h*31+c rolling hash over UTF-16 code units in
// lowercase hex, the format already stored in menu_translations.
func SourceHash(item domain.MenuItem) string {
	parts := make([]string, 0, 3+len(item.Variants)+len(item.AddOns))
	parts = append(parts, item.Name, item.Description, item.Category)
	for _, v := range item.Variants {
		parts = append(parts, v.Name)
	}
	for _, a := range item.AddOns {
		parts = append(parts, a.Name)
	}
	return rollingHash(strings.Join(parts, "|"))
}

func rollingHash(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 16)
}
