package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many entity layers are peeled off
const maxSanitizePasses = 5

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeText reduces user free text to plain text. Each pass strips markup
// and then decodes one layer of entities, so entity-encoded tags are stripped
// on the next pass. The result never contains angle brackets.
func SanitizeText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(angleBrackets.Replace(s))
}
