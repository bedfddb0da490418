// Package formatter post-processes generated source before it is written.
package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/poxo/internal/emitter"
	"golang.org/x/tools/imports"
)

// Formatter is responsible for formatting generated code according to the
// conventions of its target language.
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatFor formats code emitted for target. Only Go output is rewritten.
func (f *Formatter) FormatFor(target emitter.Target, code string) (string, error) {
	if target != emitter.TargetGo {
		return code, nil
	}
	return f.Format(code)
}

// Format takes Go code as a string and returns it gofmt-ed, with import
// groups sorted the way goimports does.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	opts := &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	}
	result, err := imports.Process("generated.go", []byte(code), opts)
	if err != nil {
		return "", fmt.Errorf("failed to parse Go code: %w", err)
	}

	return string(result), nil
}
