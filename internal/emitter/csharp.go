package emitter

import (
	"fmt"
	"strings"

	"github.com/mcncl/poxo/internal/models"
)

// CSharpHeader is written at the top of every generated C# file.
const CSharpHeader = `//------------------------------------------------------------------------------
// <auto-generated>
//     This code was generated by poxo.
// </auto-generated>
//------------------------------------------------------------------------------
using Newtonsoft.Json;
`

// CSharpOptions configures the C# emitter.
type CSharpOptions struct {
	Indentation string
	Namespace   string
	// UseProperties emits "{ get; set; }" auto-properties instead of fields.
	UseProperties bool
	// FloatType is the C# type for non-integral numbers, e.g. double or decimal.
	FloatType string
	// JSONProperty returns the attribute line placed above a field, or ""
	// for none. A nil func disables attributes.
	JSONProperty func(key string) string
	// Header replaces CSharpHeader when non-nil.
	Header *string
}

// JSONPropertyAttribute renders the Newtonsoft [JsonProperty("key")] attribute.
func JSONPropertyAttribute(key string) string {
	return fmt.Sprintf("[JsonProperty(%s)]", csharpString(key))
}

// JSONPropertyTemplate returns a decorator that substitutes {key} in tmpl.
func JSONPropertyTemplate(tmpl string) func(string) string {
	return func(key string) string {
		return strings.ReplaceAll(tmpl, "{key}", key)
	}
}

// DefaultCSharpOptions returns the options used when none are configured.
func DefaultCSharpOptions() CSharpOptions {
	return CSharpOptions{
		Indentation:   "    ",
		Namespace:     "YourNamespace",
		UseProperties: true,
		FloatType:     "double",
		JSONProperty:  JSONPropertyAttribute,
	}
}

// CSharp emits C# classes wrapped in a namespace.
type CSharp struct {
	opts CSharpOptions
}

// NewCSharp creates a C# emitter. Empty option strings fall back to the defaults.
func NewCSharp(opts CSharpOptions) *CSharp {
	defaults := DefaultCSharpOptions()
	if opts.Indentation == "" {
		opts.Indentation = defaults.Indentation
	}
	if opts.Namespace == "" {
		opts.Namespace = defaults.Namespace
	}
	if opts.FloatType == "" {
		opts.FloatType = defaults.FloatType
	}
	return &CSharp{opts: opts}
}

// Emit implements Emitter.
func (c *CSharp) Emit(classes []models.ClassModel) (string, error) {
	ind := indenter(c.opts.Indentation)
	var buf strings.Builder

	header := CSharpHeader
	if c.opts.Header != nil {
		header = *c.opts.Header
	}
	buf.WriteString(header)
	fmt.Fprintf(&buf, "\nnamespace %s\n{", c.opts.Namespace)

	for _, class := range classes {
		fmt.Fprintf(&buf, "\n%spublic class %s\n%s{", ind.at(1), class.Name, ind.at(1))
		// Members may not repeat or share the enclosing class name.
		seen := map[string]int{class.Name: 1}
		for _, field := range class.Fields {
			typeStr, err := c.typeString(field.Type)
			if err != nil {
				return "", fmt.Errorf("field '%s' of class '%s': %w", field.SourceKey, class.Name, err)
			}
			if c.opts.JSONProperty != nil {
				if attr := c.opts.JSONProperty(field.SourceKey); attr != "" {
					fmt.Fprintf(&buf, "\n\n%s%s", ind.at(2), attr)
				}
			}
			fmt.Fprintf(&buf, "\n%spublic %s %s%s", ind.at(2), typeStr, uniqueName(seen, field.Name), c.terminator())
		}
		fmt.Fprintf(&buf, "\n%s}", ind.at(1))
	}

	buf.WriteString("\n}")
	return buf.String(), nil
}

func (c *CSharp) terminator() string {
	if c.opts.UseProperties {
		return " { get; set; }"
	}
	return ";"
}

func (c *CSharp) typeString(ref models.TypeRef) (string, error) {
	switch t := ref.(type) {
	case models.Primitive:
		switch t.Kind {
		case models.KindString:
			return "string", nil
		case models.KindInteger:
			return "int", nil
		case models.KindFloat:
			return c.opts.FloatType, nil
		case models.KindBigInteger:
			return "System.Numerics.BigInteger", nil
		case models.KindBool:
			return "bool", nil
		}
		return "", unsupportedType(ref)
	case models.ArrayOf:
		elem, err := c.typeString(t.Elem)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	case models.ClassRef:
		return t.Name, nil
	case models.UnknownObject:
		return "object", nil
	case models.UnknownArray:
		return "object[]", nil
	case models.Placeholder:
		return fmt.Sprintf("object /* %s */", t.Reason), nil
	default:
		return "", unsupportedType(ref)
	}
}

// csharpString quotes s as a C# regular string literal.
func csharpString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
