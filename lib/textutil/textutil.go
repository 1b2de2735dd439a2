package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a product name or handle and collapses hyphens
// and runs of whitespace into single spaces so that "Dark  Merlin" and
// "dark-merlin" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// DisplayName renders a handle for humans: hyphens become spaces and each
// word is capitalized ("overlord-special-edition" -> "Overlord Special Edition").
func DisplayName(handle string) string {
	words := strings.FieldsFunc(handle, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
