// Package converter turns JSON text into generated class definitions.
package converter

import (
	"strings"

	"github.com/mcncl/poxo/internal/analyzer"
	"github.com/mcncl/poxo/internal/emitter"
	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/inflect"
	"github.com/mcncl/poxo/internal/models"
	"github.com/mcncl/poxo/internal/naming"
	"github.com/mcncl/poxo/internal/parser"
)

// ConvertFunc renders a parsed JSON root value as source text.
type ConvertFunc func(root models.JSONValue) (string, error)

// Options are shared by every target.
type Options struct {
	// VarNameConversion turns JSON keys into field and class names.
	// Defaults to naming.Pascal.
	VarNameConversion naming.Conversion
	// Indentation is used when the target options leave it empty.
	Indentation string
	// RootName names the root class. Defaults to the target's root name.
	RootName     string
	Singularizer inflect.Singularizer
	Order        analyzer.Order
	Collisions   analyzer.CollisionPolicy
	// Inspect, when set, receives the extracted classes before rendering.
	Inspect func(classes []models.ClassModel)
}

// Convert parses text and hands the root value to fn. Parse failures are
// returned as parsing errors and never reach fn.
func Convert(text string, fn ConvertFunc) (string, error) {
	doc, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		if !errors.IsParseFailure(err) {
			err = errors.NewParsingError("failed to parse JSON", err)
		}
		return "", err
	}
	return fn(doc.Root)
}

// Classes extracts the class models for root. An array root is typed from
// its first element.
func Classes(root models.JSONValue, opts Options) ([]models.ClassModel, error) {
	if arr, ok := root.(models.Array); ok {
		if len(arr) == 0 {
			return nil, errors.NewAnalysisError(errors.ErrEmptyArrayRoot.Error(), errors.ErrEmptyArrayRoot)
		}
		root = arr[0]
	}

	obj, ok := root.(models.Object)
	if !ok {
		return nil, errors.NewAnalysisError("the root value must be an object or an array of objects", errors.ErrNonObjectRoot)
	}

	engine := analyzer.NewEngine(analyzer.Options{
		Conversion:   opts.VarNameConversion,
		Singularizer: opts.Singularizer,
		Order:        opts.Order,
		Collisions:   opts.Collisions,
	})
	classes, err := engine.Extract(opts.RootName, obj)
	if err != nil {
		return nil, errors.NewAnalysisError("failed to extract classes", err)
	}
	if opts.Inspect != nil {
		opts.Inspect(classes)
	}
	return classes, nil
}

// New returns a ConvertFunc that renders the extracted classes with em.
func New(opts Options, em emitter.Emitter) ConvertFunc {
	return func(root models.JSONValue) (string, error) {
		classes, err := Classes(root, opts)
		if err != nil {
			return "", err
		}
		code, err := em.Emit(classes)
		if err != nil {
			return "", errors.NewGenerateError("failed to render classes", err)
		}
		return code, nil
	}
}

// CSharp returns a ConvertFunc producing C# classes.
func CSharp(opts Options, cs emitter.CSharpOptions) ConvertFunc {
	if cs.Indentation == "" {
		cs.Indentation = opts.Indentation
	}
	if opts.RootName == "" {
		opts.RootName = emitter.TargetCSharp.DefaultRootName()
	}
	return New(opts, emitter.NewCSharp(cs))
}

// Go returns a ConvertFunc producing Go structs.
func Go(opts Options, g emitter.GoOptions) ConvertFunc {
	if g.Indentation == "" {
		g.Indentation = opts.Indentation
	}
	if opts.RootName == "" {
		opts.RootName = emitter.TargetGo.DefaultRootName()
	}
	return New(opts, emitter.NewGo(g))
}

// ForTarget returns the ConvertFunc for target, using the options that
// belong to it.
func ForTarget(target emitter.Target, opts Options, cs emitter.CSharpOptions, g emitter.GoOptions) (ConvertFunc, error) {
	t, err := emitter.ParseTarget(string(target))
	if err != nil {
		return nil, errors.NewConfigError("unsupported target", err)
	}
	if t == emitter.TargetGo {
		return Go(opts, g), nil
	}
	return CSharp(opts, cs), nil
}
