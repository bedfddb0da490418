// Package inflect guesses the singular form of plural-looking names. It is
// used to name the element class of an array field ("users" -> "user").
package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// Singularizer returns a best-effort singular form of name.
type Singularizer interface {
	Singular(name string) string
}

// SingularizerFunc adapts a plain function to Singularizer.
type SingularizerFunc func(string) string

// Singular calls f(name).
func (f SingularizerFunc) Singular(name string) string {
	return f(name)
}

// Identity leaves names untouched.
var Identity = SingularizerFunc(func(name string) string { return name })

func init() {
	inflection.AddIrregular("tooth", "teeth")
	inflection.AddIrregular("foot", "feet")
	inflection.AddIrregular("goose", "geese")
	inflection.AddIrregular("criterion", "criteria")
	inflection.AddUncountable("data", "media", "goods", "metadata")
}

// English singularizes English nouns with the inflection rule set. Irregulars
// passed to NewEnglish are checked first and only apply to that instance.
type English struct {
	irregulars map[string]string
}

// NewEnglish returns an English singularizer. extra adds or overrides
// irregular plural -> singular pairs; keys are matched case-insensitively.
func NewEnglish(extra map[string]string) *English {
	irregulars := make(map[string]string, len(extra))
	for k, v := range extra {
		irregulars[strings.ToLower(k)] = v
	}
	return &English{irregulars: irregulars}
}

// Singular implements Singularizer. Only the trailing word of a compound
// name is changed, so "user_addresses" becomes "user_address" and
// "OrderItems" becomes "OrderItem".
func (e *English) Singular(name string) string {
	if name == "" {
		return name
	}
	start := lastWordStart(name)
	return name[:start] + e.singularWord(name[start:])
}

func (e *English) singularWord(plural string) string {
	if singular, ok := e.irregulars[strings.ToLower(plural)]; ok {
		return matchLeadingCase(plural, singular)
	}
	if singular := inflection.Singular(plural); singular != "" {
		return singular
	}
	return plural
}

// lastWordStart finds where the final word of an identifier begins, splitting
// on separators and on lower-to-upper case changes.
func lastWordStart(name string) int {
	start := 0
	var prev rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			start = i + utf8.RuneLen(r)
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			start = i
		}
		prev = r
	}
	if start >= len(name) {
		return 0
	}
	return start
}

// matchLeadingCase capitalizes singular if original starts with an upper case letter.
func matchLeadingCase(original, singular string) string {
	if singular == "" {
		return singular
	}
	first, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(first) {
		return singular
	}
	r, size := utf8.DecodeRuneInString(singular)
	if strings.ToUpper(original) == original && len(original) > 1 {
		return strings.ToUpper(singular)
	}
	return string(unicode.ToUpper(r)) + singular[size:]
}
