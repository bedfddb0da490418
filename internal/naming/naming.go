// Package naming turns arbitrary JSON keys into identifiers for generated code.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

var (
	allUpperRegex   = regexp.MustCompile(`^[A-Z_0-9]+$`)
	upperRunBefore  = regexp.MustCompile(`([A-Z])([A-Z]+)([A-Z][a-z])`) // BARThing -> BarThing
	upperRunTrailer = regexp.MustCompile(`([A-Z])([A-Z]+)`)             // fooBAR -> fooBar
	wordStartRegex  = regexp.MustCompile(`_+(.)|^([a-z])`)
)

// Sanitize replaces every character that is not an ASCII letter or digit
// with an underscore, and prefixes the result with "v" when it is empty or
// starts with a digit.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for _, r := range name {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return "v" + s
	}
	return s
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// PascalCase converts a name to PascalCase. An all-caps name such as
// USER_ID is lowercased first. Unless capitalizeAbbreviations is set, runs of
// capitals are collapsed, so HTTPServer becomes HttpServer.
func PascalCase(name string, capitalizeAbbreviations bool) string {
	if allUpperRegex.MatchString(name) {
		name = strings.ToLower(name)
	} else if !capitalizeAbbreviations {
		name = replaceSubmatches(upperRunBefore, name, func(m []string) string {
			return m[1] + strings.ToLower(m[2]) + m[3]
		})
		name = replaceSubmatches(upperRunTrailer, name, func(m []string) string {
			return m[1] + strings.ToLower(m[2])
		})
	}

	return replaceSubmatches(wordStartRegex, name, func(m []string) string {
		if m[1] != "" {
			return capitalize(m[1])
		}
		if m[2] != "" {
			return capitalize(m[2])
		}
		return m[0]
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// replaceSubmatches is ReplaceAllStringFunc with access to capture groups.
func replaceSubmatches(re *regexp.Regexp, s string, repl func([]string) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// Conversion maps a JSON key (or any candidate name) to an identifier.
type Conversion func(string) string

// Policy names accepted by ConversionFor.
const (
	PolicyPascal       = "pascal"
	PolicyPascalAbbrev = "pascal-abbrev"
	PolicyCamel        = "camel"
	PolicySnake        = "snake"
	PolicyNone         = "none"
)

// Pascal is the default conversion: sanitize, then PascalCase.
func Pascal(name string) string {
	return PascalCase(Sanitize(name), false)
}

// PascalAbbrev keeps abbreviations such as URL in upper case.
func PascalAbbrev(name string) string {
	return PascalCase(Sanitize(name), true)
}

// Camel produces lowerCamelCase identifiers. strcase may drop every
// character of a name made only of separators, so its output is sanitized
// again.
func Camel(name string) string {
	return Sanitize(strcase.ToLowerCamel(Sanitize(name)))
}

// Snake produces snake_case identifiers.
func Snake(name string) string {
	return Sanitize(strcase.ToSnake(Sanitize(name)))
}

// ConversionFor returns the conversion registered under policy.
func ConversionFor(policy string) (Conversion, error) {
	switch policy {
	case "", PolicyPascal:
		return Pascal, nil
	case PolicyPascalAbbrev:
		return PascalAbbrev, nil
	case PolicyCamel:
		return Camel, nil
	case PolicySnake:
		return Snake, nil
	case PolicyNone:
		return Sanitize, nil
	default:
		return nil, fmt.Errorf("unknown naming policy %q", policy)
	}
}

// WithMappings returns a conversion that uses explicit names for the given
// keys and falls back to conv for everything else.
func WithMappings(conv Conversion, mappings map[string]string) Conversion {
	if len(mappings) == 0 {
		return conv
	}
	return func(name string) string {
		if mapped, ok := mappings[name]; ok {
			return Sanitize(mapped)
		}
		return conv(name)
	}
}
