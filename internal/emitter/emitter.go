// Package emitter renders extracted class models as source code.
package emitter

import (
	"fmt"
	"strings"

	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/models"
)

// Emitter renders classes, in the given order, as the text of one source file.
type Emitter interface {
	Emit(classes []models.ClassModel) (string, error)
}

// Target names a supported output language.
type Target string

const (
	TargetCSharp Target = "csharp"
	TargetGo     Target = "go"
)

// Targets lists every supported target.
var Targets = []Target{TargetCSharp, TargetGo}

// ParseTarget maps a config/CLI value to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "", "csharp", "cs", "c#":
		return TargetCSharp, nil
	case "go", "golang":
		return TargetGo, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownTarget, s)
	}
}

// Extension returns the file extension for generated files, without the dot.
func (t Target) Extension() string {
	if t == TargetGo {
		return "go"
	}
	return "cs"
}

// DefaultRootName returns the conventional root class name for the target.
func (t Target) DefaultRootName() string {
	if t == TargetGo {
		return "RootType"
	}
	return "Poxo"
}

// indenter repeats an indentation unit per block depth.
type indenter string

func (in indenter) at(depth int) string {
	return strings.Repeat(string(in), depth)
}

// unsupportedType reports a TypeRef variant an emitter does not know.
func unsupportedType(ref models.TypeRef) error {
	return fmt.Errorf("%w: type %T", errors.ErrUnsupportedValue, ref)
}
