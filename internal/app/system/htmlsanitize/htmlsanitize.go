// Package htmlsanitize cleans free text that ends up in rendered pages.
//
// Profile catalogs may be edited by hand or supplied from a file at startup,
// so every text field passes through PlainText before it is stored. The
// result is plain, unescaped text; templates do the escaping on output.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// PlainText strips every tag (dropping script and style bodies entirely),
// collapses the entity escaping bluemonday applies, and trims surrounding
// space.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}

// IsPlainText reports whether s would come back from PlainText unchanged
// apart from surrounding whitespace.
func IsPlainText(s string) bool {
	return PlainText(s) == strings.TrimSpace(s)
}
