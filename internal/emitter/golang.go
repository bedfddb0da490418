package emitter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcncl/poxo/internal/models"
)

// GoHeader marks generated Go files so tools skip them.
const GoHeader = "// Code generated by poxo. DO NOT EDIT.\n"

// GoOptions configures the Go emitter.
type GoOptions struct {
	Indentation string
	Package     string
	// OmitEmpty adds ",omitempty" to tags of pointer, slice, map and any fields.
	OmitEmpty bool
	// Header replaces GoHeader when non-nil.
	Header *string
}

// DefaultGoOptions returns the options used when none are configured.
func DefaultGoOptions() GoOptions {
	return GoOptions{
		Indentation: "\t",
		Package:     "main",
		OmitEmpty:   true,
	}
}

// Go emits Go struct definitions with json tags.
type Go struct {
	opts GoOptions
}

// NewGo creates a Go emitter. Empty option strings fall back to the defaults.
func NewGo(opts GoOptions) *Go {
	defaults := DefaultGoOptions()
	if opts.Indentation == "" {
		opts.Indentation = defaults.Indentation
	}
	if opts.Package == "" {
		opts.Package = defaults.Package
	}
	return &Go{opts: opts}
}

type goField struct {
	name    string
	typ     string
	tag     string
	comment string
}

// Emit implements Emitter. Struct and field order follow the input.
func (g *Go) Emit(classes []models.ClassModel) (string, error) {
	ind := indenter(g.opts.Indentation)
	needsBig := false

	var body strings.Builder
	for _, class := range classes {
		fields := make([]goField, 0, len(class.Fields))
		seen := make(map[string]int, len(class.Fields))
		for _, field := range class.Fields {
			typ, usesBig, err := g.typeString(field.Type)
			if err != nil {
				return "", fmt.Errorf("field '%s' of class '%s': %w", field.SourceKey, class.Name, err)
			}
			needsBig = needsBig || usesBig
			fields = append(fields, goField{
				name:    uniqueName(seen, exported(field.Name)),
				typ:     typ,
				tag:     g.tag(field.SourceKey, field.Type),
				comment: placeholderReason(field.Type),
			})
		}

		fmt.Fprintf(&body, "\ntype %s struct {\n", exported(class.Name))

		// Align names and types the way gofmt would
		maxNameWidth, maxTypeWidth := 0, 0
		for _, f := range fields {
			maxNameWidth = max(maxNameWidth, len(f.name))
			maxTypeWidth = max(maxTypeWidth, len(f.typ))
		}
		for _, f := range fields {
			line := fmt.Sprintf("%s%-*s %-*s %s", ind.at(1), maxNameWidth, f.name, maxTypeWidth, f.typ, f.tag)
			if f.comment != "" {
				line += " // " + f.comment
			}
			body.WriteString(line + "\n")
		}
		body.WriteString("}\n")
	}

	var buf strings.Builder
	header := GoHeader
	if g.opts.Header != nil {
		header = *g.opts.Header
	}
	if header != "" {
		buf.WriteString(header + "\n")
	}
	fmt.Fprintf(&buf, "package %s\n", g.opts.Package)
	if needsBig {
		buf.WriteString("\nimport \"math/big\"\n")
	}
	buf.WriteString(body.String())
	return buf.String(), nil
}

func (g *Go) typeString(ref models.TypeRef) (string, bool, error) {
	switch t := ref.(type) {
	case models.Primitive:
		switch t.Kind {
		case models.KindString:
			return "string", false, nil
		case models.KindInteger:
			return "int64", false, nil
		case models.KindFloat:
			return "float64", false, nil
		case models.KindBigInteger:
			return "*big.Int", true, nil
		case models.KindBool:
			return "bool", false, nil
		}
		return "", false, unsupportedType(ref)
	case models.ArrayOf:
		elem, usesBig, err := g.typeString(t.Elem)
		if err != nil {
			return "", false, err
		}
		return "[]" + elem, usesBig, nil
	case models.ClassRef:
		return "*" + exported(t.Name), false, nil
	case models.UnknownObject:
		return "map[string]any", false, nil
	case models.UnknownArray:
		return "[]any", false, nil
	case models.Placeholder:
		return "any", false, nil
	default:
		return "", false, unsupportedType(ref)
	}
}

func (g *Go) tag(key string, ref models.TypeRef) string {
	value := key
	if g.opts.OmitEmpty && nilable(ref) {
		value += ",omitempty"
	}
	tag := "json:" + strconv.Quote(value)
	if strings.ContainsRune(tag, '`') {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

// nilable reports whether the Go type rendered for ref has a nil zero value.
func nilable(ref models.TypeRef) bool {
	p, ok := ref.(models.Primitive)
	return !ok || p.Kind == models.KindBigInteger
}

// placeholderReason returns the reason of a placeholder, possibly inside arrays.
func placeholderReason(ref models.TypeRef) string {
	for {
		switch t := ref.(type) {
		case models.ArrayOf:
			ref = t.Elem
		case models.Placeholder:
			return t.Reason
		default:
			return ""
		}
	}
}

// exported makes name usable as an exported Go identifier.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	switch {
	case name == "":
		return "X"
	case unicode.IsUpper(r):
		return name
	case unicode.IsLower(r):
		return string(unicode.ToUpper(r)) + name[size:]
	default:
		return "X" + name
	}
}

// uniqueName appends a counter to names already used in the same struct or class.
func uniqueName(seen map[string]int, name string) string {
	count := seen[name]
	seen[name] = count + 1
	if count == 0 {
		return name
	}
	for n := count + 1; ; n++ {
		candidate := name + strconv.Itoa(n)
		if seen[candidate] == 0 {
			seen[candidate] = 1
			return candidate
		}
	}
}
